// Package markup renders files and file diffs as fenced markdown code blocks
// annotated with CodeHike change markers.
package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/agusx1211/tocodehike/internal/lang"
)

// Kind classifies a line of a rendered block.
type Kind int

const (
	KindContext Kind = iota
	KindAdded
	KindRemoved
	KindHunk
)

const separatorWidth = 30

// Sign returns the diff sign of the kind ("+", "-", "@" or " ").
func (k Kind) Sign() string {
	switch k {
	case KindAdded:
		return "+"
	case KindRemoved:
		return "-"
	case KindHunk:
		return "@"
	default:
		return " "
	}
}

// Writer batches consecutive lines of the same kind and writes each batch as
// one annotated region. Flush must be called after the last AddLine.
//
// Like bufio.Writer, the first write error is kept and later calls become
// no-ops; it is returned by Err.
type Writer struct {
	w       io.Writer
	comment lang.Comment
	kind    Kind
	lines   []string
	err     error
}

// NewWriter returns a Writer in context mode.
func NewWriter(w io.Writer, comment lang.Comment) *Writer {
	return &Writer{w: w, comment: comment, kind: KindContext}
}

// AddLine appends line to the current batch, flushing first if kind differs
// from the batch's kind.
func (dw *Writer) AddLine(line string, kind Kind) {
	if dw.kind != kind {
		dw.Flush()
	}
	dw.kind = kind
	dw.lines = append(dw.lines, line)
}

// Flush writes out the pending batch and empties it.
func (dw *Writer) Flush() {
	defer func() { dw.lines = dw.lines[:0] }()
	if len(dw.lines) == 0 {
		return
	}
	switch dw.kind {
	case KindContext:
		dw.writeLines(dw.lines)
	case KindAdded, KindRemoved:
		dw.writeLine(dw.comment.Format(fmt.Sprintf("!diff(1:%d) %s", len(dw.lines), dw.kind.Sign())))
		dw.writeLines(dw.lines)
	case KindHunk:
		dw.writeLine(dw.comment.Format("!className separator"))
		dw.writeLine(strings.Repeat(".", separatorWidth))
	}
}

// Err returns the first error encountered while writing.
func (dw *Writer) Err() error {
	return dw.err
}

func (dw *Writer) writeLines(lines []string) {
	for _, line := range lines {
		dw.writeLine(line)
	}
}

func (dw *Writer) writeLine(line string) {
	if dw.err != nil {
		return
	}
	_, dw.err = io.WriteString(dw.w, line+"\n")
}
