package walkthrough

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultNarrativeSuffix names the prose file rendered before a code block:
// the narrative of static/app.js is static/app.js-readme.md.
const DefaultNarrativeSuffix = "-readme.md"

const headingMarker = "## "

// section is the heading block written before each rendered file.
type section struct {
	rel     string
	isNew   bool
	title   string
	prose   string
	hasBody bool
}

// loadSection reads the narrative of rel in the newer directory. A missing
// narrative or a first line that is not a level-2 heading degrades the title
// and is reported, never fatal.
func (p *pair) loadSection(rel string, isNew bool) section {
	s := section{rel: rel, isNew: isNew}
	narrative := filepath.Join(p.newer, filepath.FromSlash(rel)) + p.c.opts.NarrativeSuffix

	data, err := os.ReadFile(narrative)
	if err != nil {
		if os.IsNotExist(err) {
			p.c.log.Warn().Str("path", narrative).Msg("narrative file does not exist, output likely broken")
		} else {
			p.c.log.Warn().Err(err).Str("path", narrative).Msg("failed to read narrative file")
		}
		s.title = p.fallbackTitle(isNew)
		return s
	}

	first, rest, _ := strings.Cut(string(data), "\n")
	first = strings.TrimSuffix(first, "\r")
	if strings.HasPrefix(first, headingMarker) {
		s.title = strings.TrimSpace(first[len(headingMarker):])
	} else {
		p.c.log.Warn().Str("path", narrative).Msg("narrative file does not start with ##")
		s.title = fmt.Sprintf("!!! MISSING TITLE in %s/%s !!!", p.d2, path.Base(rel))
	}
	if rest != "" {
		if !strings.HasSuffix(rest, "\n") {
			rest += "\n"
		}
		s.prose = rest
		s.hasBody = true
	}
	return s
}

func (p *pair) fallbackTitle(isNew bool) string {
	if isNew {
		return fmt.Sprintf("new in %s", p.d2)
	}
	return fmt.Sprintf("%s -> %s", p.d1, p.d2)
}

// writeSection writes the step heading, the file subheading and the prose.
// In scrolly mode only the first heading of a pair opens a step.
func (p *pair) writeSection(w io.Writer, s section) error {
	stepMarker := ""
	if p.scrolly() && !p.stepOpened {
		stepMarker = "!!steps "
	}
	p.stepOpened = true

	name := path.Base(s.rel)
	sub := fmt.Sprintf("### %s -> %s - changes in %s", p.d1, p.d2, name)
	if s.isNew {
		sub = fmt.Sprintf("### new in %s - file %s", p.d2, name)
	}
	if _, err := fmt.Fprintf(w, "## %sstep %s: %s\n%s\n", stepMarker, p.d2, s.title, sub); err != nil {
		return err
	}
	if s.hasBody {
		if _, err := io.WriteString(w, s.prose); err != nil {
			return err
		}
	}
	return nil
}
