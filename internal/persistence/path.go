package persistence

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFile is the journal name used when a directory is given.
const DefaultFile = "journal.jsonl"

// Open resolves path to a journal file and opens it. A directory (existing,
// or named with a trailing separator) holds a DefaultFile journal. Missing
// parent directories are created.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		path = filepath.Join(path, DefaultFile)
	} else if os.IsPathSeparator(path[len(path)-1]) {
		path = filepath.Join(path, DefaultFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	return NewJournal(path)
}
