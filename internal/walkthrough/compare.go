// Package walkthrough turns successive snapshot directories into the
// markdown of a step-by-step code walkthrough.
package walkthrough

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agusx1211/tocodehike/internal/lang"
	"github.com/agusx1211/tocodehike/internal/markup"
	"github.com/agusx1211/tocodehike/internal/tracked"
)

// ErrInsufficientInput is returned by Chain when given fewer than two
// directories.
var ErrInsufficientInput = errors.New("at least two directories are required for comparison")

// Options control how a pair of snapshots is rendered.
type Options struct {
	Mode     markup.Mode
	Registry *lang.Registry
	// Context is passed to the renderer; markup.FullContext shows whole files.
	Context         int
	NarrativeSuffix string
	// Filter, if set, further restricts the tracked files.
	Filter *tracked.Filter
}

// DefaultOptions renders in normal mode with whole-file diffs.
func DefaultOptions() Options {
	return Options{
		Mode:            markup.ModeNormal,
		Registry:        lang.Default(),
		Context:         markup.FullContext,
		NarrativeSuffix: DefaultNarrativeSuffix,
	}
}

// Comparer writes the markdown for pairs of snapshot directories to one
// output stream and reports diagnostics to a logger.
type Comparer struct {
	out      io.Writer
	lister   tracked.Lister
	log      zerolog.Logger
	opts     Options
	renderer *markup.Renderer
}

// NewComparer returns a comparer writing to out.
func NewComparer(out io.Writer, lister tracked.Lister, log zerolog.Logger, opts Options) *Comparer {
	if opts.Registry == nil {
		opts.Registry = lang.Default()
	}
	return &Comparer{
		out:    out,
		lister: lister,
		log:    log,
		opts:   opts,
		renderer: &markup.Renderer{
			Out:      out,
			Registry: opts.Registry,
			Mode:     opts.Mode,
			Context:  opts.Context,
		},
	}
}

// pair is the state of one Compare call.
type pair struct {
	c            *Comparer
	older, newer string
	d1, d2       string
	stepOpened   bool
}

func (p *pair) scrolly() bool {
	return p.c.opts.Mode == markup.ModeScrolly
}

// emit renders a block off to the side and writes it after its section
// heading. A block that fails on its input is skipped along with the heading.
func (p *pair) emit(rel string, isNew bool, render func(r *markup.Renderer) error) error {
	var block bytes.Buffer
	r := *p.c.renderer
	r.Out = &block
	if err := render(&r); err != nil {
		return p.c.skipInputError(err, rel)
	}
	if err := p.writeSection(p.c.out, p.loadSection(rel, isNew)); err != nil {
		return err
	}
	_, err := p.c.out.Write(block.Bytes())
	return err
}

// Compare writes one section per changed or new file between older and
// newer. Missing directories, missing narratives and unreadable files are
// reported and skipped; only failures to write the output are returned.
func (c *Comparer) Compare(older, newer string) error {
	for _, dir := range []string{older, newer} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			c.log.Warn().Str("path", dir).Msg("directory does not exist")
			return nil
		}
	}

	oldFiles, err := c.trackedFiles(older)
	if err != nil {
		c.log.Warn().Err(err).Str("path", older).Msg("failed to list tracked files")
		return nil
	}
	newFiles, err := c.trackedFiles(newer)
	if err != nil {
		c.log.Warn().Err(err).Str("path", newer).Msg("failed to list tracked files")
		return nil
	}
	delta := Partition(oldFiles, newFiles)
	c.log.Debug().
		Int("same", len(delta.Same)).
		Int("added", len(delta.Added)).
		Int("removed", len(delta.Removed)).
		Msg("partitioned tracked files")

	p := &pair{
		c:     c,
		older: older,
		newer: newer,
		d1:    filepath.Base(filepath.Clean(older)),
		d2:    filepath.Base(filepath.Clean(newer)),
	}

	for _, rel := range delta.Same {
		oldPath, newPath := joinRel(older, rel), joinRel(newer, rel)
		if markup.SameContent(oldPath, newPath) {
			continue
		}
		if !c.present(oldPath) || !c.present(newPath) {
			continue
		}
		if c.isBinary(oldPath) || c.isBinary(newPath) {
			continue
		}
		c.log.Info().Str("file", rel).Msg("changes in file")
		err := p.emit(rel, false, func(r *markup.Renderer) error {
			return r.Diff(oldPath, newPath, lang.Overrides{})
		})
		if err != nil {
			return err
		}
	}

	for _, rel := range delta.Added {
		newPath := joinRel(newer, rel)
		if !c.present(newPath) || c.isBinary(newPath) {
			continue
		}
		c.log.Info().Str("file", rel).Msg("new file")
		err := p.emit(rel, true, func(r *markup.Renderer) error {
			return r.Whole(newPath, lang.Overrides{}, markup.KindAdded)
		})
		if err != nil {
			return err
		}
	}

	// deletions are reported only
	for _, rel := range delta.Removed {
		c.log.Info().Str("file", rel).Msg("deleted file")
	}
	return nil
}

// Chain compares every consecutive pair of dirs, in order.
func (c *Comparer) Chain(dirs []string) error {
	if len(dirs) < 2 {
		return ErrInsufficientInput
	}
	for i := 0; i+1 < len(dirs); i++ {
		from, to := dirs[i], dirs[i+1]
		c.log.Info().Str("from", from).Str("to", to).Msg("comparing")
		if err := c.Compare(from, to); err != nil {
			return fmt.Errorf("comparing %s and %s: %w", from, to, err)
		}
	}
	return nil
}

func (c *Comparer) trackedFiles(dir string) ([]string, error) {
	paths, err := c.lister.List(dir)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(paths))
	for _, rel := range paths {
		if isNarrative(rel, c.opts.NarrativeSuffix) {
			continue
		}
		if !c.opts.Filter.ShouldInclude(rel) {
			continue
		}
		kept = append(kept, rel)
	}
	return kept, nil
}

// present reports whether a tracked path is a regular file on disk; the
// index may list files deleted from the work tree, and submodules.
func (c *Comparer) present(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("file does not exist")
		return false
	}
	if !info.Mode().IsRegular() {
		c.log.Warn().Str("path", path).Msg("skipping tracked entry that is not a regular file")
		return false
	}
	return true
}

func (c *Comparer) isBinary(path string) bool {
	binary, err := tracked.IsBinary(path)
	if err != nil || !binary {
		return false
	}
	c.log.Warn().Str("path", path).Msg("skipping binary file")
	return true
}

// skipInputError logs input errors from the renderer and passes output
// errors on.
func (c *Comparer) skipInputError(err error, rel string) error {
	if markup.IsInputError(err) {
		c.log.Warn().Err(err).Str("file", rel).Msg("failed to render file")
		return nil
	}
	return err
}

func joinRel(dir, rel string) string {
	return filepath.Join(dir, filepath.FromSlash(rel))
}
