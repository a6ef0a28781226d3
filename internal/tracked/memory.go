package tracked

import (
	"fmt"
	"path/filepath"
)

// Memory is a fixed directory -> files table.
type Memory map[string][]string

func (m Memory) List(dir string) ([]string, error) {
	files, ok := m[dir]
	if !ok {
		files, ok = m[filepath.Clean(dir)]
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	return normalize(files), nil
}
