package cmd

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type dumper struct{}

func (d *dumper) DumpWithHeader(name string, v interface{}) {
	fmt.Println(name)
	fmt.Println(strings.Repeat("-", len(name)))

	b, err := yaml.Marshal(v)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Println(string(b))
}
