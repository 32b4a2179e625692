package gwm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/wad350/gwm-home-assistant/util"
)

// Identity is the persisted per-installation device identifier. The gateway
// recognizes the calling device by this opaque 32 character string.
type Identity struct {
	log  *util.Logger
	file string
	id   string
}

// NewIdentity creates a device identity backed by the given file
func NewIdentity(log *util.Logger, file string) *Identity {
	return &Identity{
		log:  log,
		file: file,
	}
}

// ID returns the device identity, loading or generating it on first use.
// A generation that cannot be persisted is still returned and used for the
// remainder of the session.
func (i *Identity) ID() string {
	if i.id != "" {
		return i.id
	}

	if b, err := os.ReadFile(i.file); err == nil {
		if id := strings.TrimSpace(string(b)); id != "" {
			i.log.DEBUG.Printf("loaded device id %s…", id[:min(8, len(id))])
			i.id = id
			return id
		}
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	i.id = id

	if err := i.persist(id); err != nil {
		i.log.WARN.Printf("could not persist device id: %v", err)
	} else {
		i.log.INFO.Printf("generated new device id %s…", id[:8])
	}

	return id
}

func (i *Identity) persist(id string) error {
	if dir := filepath.Dir(i.file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(i.file, []byte(id), 0o644)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
