package tracked

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Walker lists the regular files under a directory, skipping .git and
// whatever the directory's own .gitignore excludes. It is the backend for
// snapshots that are plain copies rather than git checkouts.
type Walker struct {
	// IncludeIgnored disables .gitignore handling.
	IncludeIgnored bool
}

func (w Walker) List(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var gitIgnore *ignore.GitIgnore
	if !w.IncludeIgnored {
		gitIgnorePath := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			gitIgnore, err = ignore.CompileIgnoreFile(gitIgnorePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", gitIgnorePath, err)
			}
		}
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if d.Name() == ".git" {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if gitIgnore != nil && gitIgnore.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return normalize(paths), nil
}

// hasPathPrefix reports whether rel is dir or lies below it.
func hasPathPrefix(rel, dir string) bool {
	return rel == dir || strings.HasPrefix(rel, dir+"/")
}
