package tracked

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// GitIndex lists the entries of the git index under a directory, like
// `git ls-files` run from that directory.
type GitIndex struct{}

func (GitIndex) List(dir string) ([]string, error) {
	absDir, err := canonical(dir)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(absDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
		}
		return nil, fmt.Errorf("failed to open repository for %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open work tree for %s: %w", dir, err)
	}
	root, err := canonical(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read git index for %s: %w", dir, err)
	}

	rel, err := filepath.Rel(root, absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s in %s: %w", dir, root, err)
	}
	prefix := ""
	if rel = filepath.ToSlash(rel); rel != "." {
		prefix = rel + "/"
	}

	paths := make([]string, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		if !strings.HasPrefix(entry.Name, prefix) {
			continue
		}
		paths = append(paths, strings.TrimPrefix(entry.Name, prefix))
	}
	return normalize(paths), nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path of %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
