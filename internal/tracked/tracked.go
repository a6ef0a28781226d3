// Package tracked enumerates the files that make up a snapshot directory.
//
// The production backends read the git index (go-git), shell out to
// `git ls-files`, or walk the directory honoring .gitignore. Memory serves
// tests. All of them return slash-separated paths relative to the directory,
// sorted and without duplicates.
package tracked

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotRepository is returned by git-backed listers for a directory that is
// not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Lister returns the tracked files of a directory.
type Lister interface {
	List(dir string) ([]string, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(dir string) ([]string, error)

func (f ListerFunc) List(dir string) ([]string, error) {
	return f(dir)
}

const (
	BackendAuto  = "auto"
	BackendIndex = "index"
	BackendExec  = "exec"
	BackendWalk  = "walk"
)

// Backends lists the names accepted by NewLister.
var Backends = []string{BackendAuto, BackendIndex, BackendExec, BackendWalk}

// NewLister returns the lister registered under name.
func NewLister(name string) (Lister, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendAuto:
		return Auto{Primary: GitIndex{}, Fallback: Walker{}}, nil
	case BackendIndex:
		return GitIndex{}, nil
	case BackendExec:
		return GitExec{}, nil
	case BackendWalk:
		return Walker{}, nil
	default:
		return nil, fmt.Errorf("unknown lister %q (expected one of %s)", name, strings.Join(Backends, ", "))
	}
}

// Auto uses Primary, and Fallback for directories outside a repository.
type Auto struct {
	Primary  Lister
	Fallback Lister
}

func (a Auto) List(dir string) ([]string, error) {
	paths, err := a.Primary.List(dir)
	if errors.Is(err, ErrNotRepository) {
		return a.Fallback.List(dir)
	}
	return paths, err
}

// normalize converts paths to slash form, drops empties and duplicates, and
// sorts the result. Names are otherwise kept as listed, spaces included.
func normalize(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = filepath.ToSlash(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
