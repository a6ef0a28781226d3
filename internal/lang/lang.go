// Package lang maps file suffixes and language names to the language tag and
// comment syntax used when rendering a fenced code block.
package lang

import (
	"path/filepath"
	"sort"
)

const defaultTag = "text"

// Profile is the rendering information attached to a file suffix.
type Profile struct {
	Tag     string
	Comment Comment
}

// Overrides are explicit values that take precedence over the registry.
// An empty field means "not given".
type Overrides struct {
	Filename string
	Lang     string
	Comment  string
}

// Target is what a fenced block is opened with.
type Target struct {
	Filename string
	Tag      string
	Comment  Comment
}

var baseProfiles = map[string]Profile{
	".py":   {Tag: "python", Comment: Comment{Style: Hash}},
	".js":   {Tag: "js", Comment: Comment{Style: Slash}},
	".css":  {Tag: "css", Comment: Comment{Style: Block}},
	".html": {Tag: "html", Comment: Comment{Style: XML}},
	".text": {Tag: "text", Comment: Comment{Style: Identity}},
	// templates are html only for now; .js.j2 would need a two-level suffix
	".j2":   {Tag: "html", Comment: Comment{Style: XML}},
	".go":   {Tag: "go", Comment: Comment{Style: Slash}},
	".ts":   {Tag: "ts", Comment: Comment{Style: Slash}},
	".sh":   {Tag: "bash", Comment: Comment{Style: Hash}},
	".yaml": {Tag: "yaml", Comment: Comment{Style: Hash}},
	".yml":  {Tag: "yaml", Comment: Comment{Style: Hash}},
	".toml": {Tag: "toml", Comment: Comment{Style: Hash}},
	".sql":  {Tag: "sql", Comment: CustomComment("--")},
	".rs":   {Tag: "rust", Comment: Comment{Style: Slash}},
	".c":    {Tag: "c", Comment: Comment{Style: Block}},
	".java": {Tag: "java", Comment: Comment{Style: Slash}},
}

// Registry is read-only once built.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry builds a registry from the base table with extra merged over
// it. Each language tag is then registered as an alias for the first suffix
// (in sorted order) that uses it, unless the tag is already a key.
func NewRegistry(extra map[string]Profile) *Registry {
	profiles := make(map[string]Profile, len(baseProfiles)+len(extra))
	for suffix, p := range baseProfiles {
		profiles[suffix] = p
	}
	for suffix, p := range extra {
		profiles[suffix] = p
	}

	suffixes := make([]string, 0, len(profiles))
	for suffix := range profiles {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	for _, suffix := range suffixes {
		p := profiles[suffix]
		if _, exists := profiles[p.Tag]; !exists {
			profiles[p.Tag] = p
		}
	}
	return &Registry{profiles: profiles}
}

var defaultRegistry = NewRegistry(nil)

// Default returns the registry built from the base table only.
func Default() *Registry {
	return defaultRegistry
}

// Lookup finds a profile by suffix (".py") or tag ("python").
func (r *Registry) Lookup(key string) (Profile, bool) {
	if key == "" {
		return Profile{}, false
	}
	p, ok := r.profiles[key]
	return p, ok
}

// Resolve computes the fence target for path. The suffix of the (possibly
// overridden) filename wins over the explicit language when looking up the
// profile; the explicit language still wins for the tag itself.
func (r *Registry) Resolve(path string, o Overrides) Target {
	filename := o.Filename
	if filename == "" {
		filename = filepath.Base(path)
	}

	profile, ok := r.Lookup(filepath.Ext(filename))
	if !ok {
		profile, ok = r.Lookup(o.Lang)
	}

	tag := o.Lang
	if tag == "" {
		tag = defaultTag
		if ok {
			tag = profile.Tag
		}
	}

	comment := Comment{Style: Identity}
	switch {
	case o.Comment != "":
		comment = CustomComment(o.Comment)
	case ok:
		comment = profile.Comment
	}

	return Target{Filename: filename, Tag: tag, Comment: comment}
}
