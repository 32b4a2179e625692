package pipe

import (
	"github.com/thoas/go-funk"
	"github.com/wad350/gwm-home-assistant/util"
)

// Piper transforms a parameter channel
type Piper interface {
	Pipe(in <-chan util.Param) <-chan util.Param
}

// Dropper drops parameters by key
type Dropper struct {
	keys []string
}

// NewDropper creates a dropper for the given keys
func NewDropper(keys ...string) *Dropper {
	return &Dropper{keys: keys}
}

func (d *Dropper) pipe(in <-chan util.Param, out chan<- util.Param) {
	for p := range in {
		if funk.ContainsString(d.keys, p.Key) {
			continue
		}
		out <- p
	}
}

// Pipe creates a filtered output channel from an input channel
func (d *Dropper) Pipe(in <-chan util.Param) <-chan util.Param {
	out := make(chan util.Param)
	go d.pipe(in, out)
	return out
}
