package tracked

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter narrows a list of tracked paths with glob patterns. Patterns are
// matched with doublestar against the slash path and, for patterns without
// a slash, against the base name. A pattern ending in "/" excludes (or
// includes) everything below that directory.
type Filter struct {
	include      []string
	exclude      []string
	excludedDirs []string
	includedDirs []string
}

// NewFilter validates the patterns and builds a filter.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	for _, pat := range include {
		if strings.HasSuffix(pat, "/") {
			f.includedDirs = append(f.includedDirs, strings.TrimSuffix(pat, "/"))
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
		f.include = append(f.include, pat)
	}
	for _, pat := range exclude {
		if strings.HasSuffix(pat, "/") {
			f.excludedDirs = append(f.excludedDirs, strings.TrimSuffix(pat, "/"))
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
		f.exclude = append(f.exclude, pat)
	}
	return f, nil
}

// Empty reports whether the filter keeps every path.
func (f *Filter) Empty() bool {
	return f == nil || len(f.include)+len(f.exclude)+len(f.excludedDirs)+len(f.includedDirs) == 0
}

// ShouldInclude returns true if rel should be kept.
func (f *Filter) ShouldInclude(rel string) bool {
	if f.Empty() {
		return true
	}
	for _, dir := range f.excludedDirs {
		if hasPathPrefix(rel, dir) {
			return false
		}
	}
	if matchesAny(rel, f.exclude) {
		return false
	}
	if len(f.include) == 0 && len(f.includedDirs) == 0 {
		return true
	}
	for _, dir := range f.includedDirs {
		if hasPathPrefix(rel, dir) {
			return true
		}
	}
	return matchesAny(rel, f.include)
}

// Apply returns the paths that should be kept, in their original order.
func (f *Filter) Apply(paths []string) []string {
	if f.Empty() {
		return paths
	}
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if f.ShouldInclude(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, path.Base(rel)); ok {
				return true
			}
		}
	}
	return false
}
