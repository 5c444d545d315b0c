package data

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFile is the catalog file name searched for in data directories.
const DefaultFile = "quest.yaml"

//go:embed content/quest.yaml
var embeddedQuest []byte

// Loader reads catalogs from a fallback hierarchy of data directories,
// ending with the catalog compiled into the binary.
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a Loader with the given data directory fallback hierarchy.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// Load finds name in the first data directory that has it. When no
// directory does, the embedded quest is used.
func (l *Loader) Load(name string) (*Catalog, error) {
	if name == "" {
		name = DefaultFile
	}
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return Embedded()
}

// LoadFile parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Embedded parses the quest compiled into the binary.
func Embedded() (*Catalog, error) {
	c, err := Parse(embeddedQuest)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}
