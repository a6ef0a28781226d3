package markup

import (
	"errors"
	"strings"
	"testing"

	"github.com/agusx1211/tocodehike/internal/lang"
)

func TestWriterBatchesByKind(t *testing.T) {
	var out strings.Builder
	dw := NewWriter(&out, lang.Comment{Style: lang.Hash})
	dw.AddLine("a", KindContext)
	dw.AddLine("b", KindAdded)
	dw.AddLine("c", KindAdded)
	dw.AddLine("d", KindRemoved)
	dw.AddLine("e", KindContext)
	dw.Flush()

	want := strings.Join([]string{
		"a",
		"# !diff(1:2) +",
		"b",
		"c",
		"# !diff(1:1) -",
		"d",
		"e",
	}, "\n") + "\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestWriterHunkIgnoresHeaderText(t *testing.T) {
	var out strings.Builder
	dw := NewWriter(&out, lang.Comment{Style: lang.XML})
	dw.AddLine("@@ -1,3 +1,4 @@", KindHunk)
	dw.AddLine("<p>", KindContext)
	dw.Flush()

	want := "<!-- !className separator -->\n" + strings.Repeat(".", 30) + "\n<p>\n"
	if out.String() != want {
		t.Fatalf("unexpected output %q, want %q", out.String(), want)
	}
}

func TestWriterEmptyFlushIsNoop(t *testing.T) {
	var out strings.Builder
	dw := NewWriter(&out, lang.Comment{Style: lang.Slash})
	dw.Flush()
	dw.Flush()
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestWriterFlushKeepsKind(t *testing.T) {
	var out strings.Builder
	dw := NewWriter(&out, lang.Comment{Style: lang.Slash})
	dw.AddLine("x", KindAdded)
	dw.Flush()
	dw.AddLine("y", KindAdded)
	dw.Flush()

	want := "// !diff(1:1) +\nx\n// !diff(1:1) +\ny\n"
	if out.String() != want {
		t.Fatalf("unexpected output %q, want %q", out.String(), want)
	}
}

type failingWriter struct{ writes int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("disk full")
}

func TestWriterStickyError(t *testing.T) {
	fw := &failingWriter{}
	dw := NewWriter(fw, lang.Comment{})
	dw.AddLine("a", KindContext)
	dw.AddLine("b", KindContext)
	dw.Flush()
	if dw.Err() == nil {
		t.Fatalf("expected error")
	}
	if fw.writes != 1 {
		t.Fatalf("expected writes to stop after first failure, got %d", fw.writes)
	}
}
