package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/agusx1211/tocodehike/internal/lang"
)

var (
	// ErrMissingPath is returned when a file to render does not exist.
	ErrMissingPath = errors.New("path does not exist")
	// ErrUnreadable is returned when a file to render cannot be read.
	ErrUnreadable = errors.New("unreadable file")
)

// IsInputError reports whether err concerns the files being rendered rather
// than the output stream.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingPath) || errors.Is(err, ErrUnreadable)
}

// Mode selects the flavor of markup expected by the downstream renderer.
type Mode int

const (
	ModeNormal Mode = iota
	// ModeScrolly is the markup of CodeHike's scrollycoding layout.
	ModeScrolly
)

func (m Mode) String() string {
	if m == ModeScrolly {
		return "scrolly"
	}
	return "normal"
}

// FullContext asks Diff for a single hunk spanning both files.
const FullContext = -1

// Renderer writes one fenced block per call to Out.
type Renderer struct {
	Out      io.Writer
	Registry *lang.Registry
	Mode     Mode
	// Context is the number of unchanged lines kept around each change;
	// FullContext (or any negative value) keeps them all.
	Context int
}

// NewRenderer returns a renderer using the default registry and full context.
func NewRenderer(out io.Writer, mode Mode) *Renderer {
	return &Renderer{Out: out, Registry: lang.Default(), Mode: mode, Context: FullContext}
}

// Whole renders every line of path as a single added (or removed) region.
// Nothing is written when path does not exist.
func (r *Renderer) Whole(path string, o lang.Overrides, sign Kind) error {
	data, err := readExisting(path)
	if err != nil {
		return err
	}
	target := r.registry().Resolve(path, o)

	if err := r.openFence(target); err != nil {
		return err
	}
	dw := NewWriter(r.Out, target.Comment)
	for _, line := range splitLines(string(data)) {
		dw.AddLine(strings.TrimRightFunc(line, unicode.IsSpace), sign)
	}
	dw.Flush()
	if err := dw.Err(); err != nil {
		return err
	}
	return r.closeFence()
}

// Diff renders the unified diff of oldPath and newPath as one block. The
// fence target is resolved against oldPath. Nothing is written when either
// path does not exist.
func (r *Renderer) Diff(oldPath, newPath string, o lang.Overrides) error {
	oldData, err := readExisting(oldPath)
	if err != nil {
		return err
	}
	newData, err := readExisting(newPath)
	if err != nil {
		return err
	}
	target := r.registry().Resolve(oldPath, o)

	if err := r.openFence(target); err != nil {
		return err
	}
	dw := NewWriter(r.Out, target.Comment)
	writeDiff(dw, splitLines(string(oldData)), splitLines(string(newData)), r.Context)
	dw.Flush()
	if err := dw.Err(); err != nil {
		return err
	}
	return r.closeFence()
}

// writeDiff feeds dw the way a unified diff lists lines: one hunk header per
// group, then equal lines as context and replaced lines as all removals
// followed by all insertions.
func writeDiff(dw *Writer, a, b []string, context int) {
	if equalLines(a, b) {
		for _, line := range a {
			dw.AddLine(line, KindContext)
		}
		return
	}
	if context < 0 {
		context = max(len(a), len(b))
	}
	m := difflib.NewMatcher(a, b)
	for _, group := range m.GetGroupedOpCodes(context) {
		dw.AddLine(hunkHeader(group), KindHunk)
		for _, op := range group {
			switch op.Tag {
			case 'e':
				for _, line := range a[op.I1:op.I2] {
					dw.AddLine(line, KindContext)
				}
			case 'r', 'd', 'i':
				for _, line := range a[op.I1:op.I2] {
					dw.AddLine(line, KindRemoved)
				}
				for _, line := range b[op.J1:op.J2] {
					dw.AddLine(line, KindAdded)
				}
			}
		}
	}
}

func hunkHeader(group []difflib.OpCode) string {
	first, last := group[0], group[len(group)-1]
	return fmt.Sprintf("@@ -%s +%s @@", unifiedRange(first.I1, last.I2), unifiedRange(first.J1, last.J2))
}

func unifiedRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	switch length {
	case 1:
		return fmt.Sprintf("%d", beginning)
	case 0:
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

func (r *Renderer) registry() *lang.Registry {
	if r.Registry == nil {
		return lang.Default()
	}
	return r.Registry
}

func (r *Renderer) openFence(t lang.Target) error {
	var err error
	if r.Mode == ModeScrolly {
		_, err = fmt.Fprintf(r.Out, "```%s ! %s\n", t.Tag, t.Filename)
	} else {
		_, err = fmt.Fprintf(r.Out, "```%s %s\n", t.Tag, t.Filename)
	}
	return err
}

func (r *Renderer) closeFence() error {
	_, err := io.WriteString(r.Out, "```\n\n")
	return err
}

func readExisting(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingPath)
		}
		return nil, fmt.Errorf("failed to read file %s: %w: %w", path, ErrUnreadable, err)
	}
	return data, nil
}

// splitLines splits text on newlines, dropping a final empty line and any
// carriage return that precedes a newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SameContent reports whether two files hold the same lines as Diff sees
// them, so line-ending changes alone do not count. A missing or unreadable
// file never compares equal.
func SameContent(pathA, pathB string) bool {
	a, err := os.ReadFile(pathA)
	if err != nil {
		return false
	}
	b, err := os.ReadFile(pathB)
	if err != nil {
		return false
	}
	if bytes.Equal(a, b) {
		return true
	}
	return equalLines(splitLines(string(a)), splitLines(string(b)))
}
