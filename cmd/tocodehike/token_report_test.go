package main

import (
	"reflect"
	"testing"
)

func TestStepSections(t *testing.T) {
	doc := "```py a.py\nx\n```\n\n" +
		"## !!steps step 02: First\n### new in 02 - file a.py\n" +
		"## step 02: Second\nbody\n"

	got := stepSections(doc)
	labels := make([]string, 0, len(got))
	for _, s := range got {
		labels = append(labels, s.Label)
	}
	if want := []string{"[preamble]", "step 02: First", "step 02: Second"}; !reflect.DeepEqual(labels, want) {
		t.Fatalf("labels = %q, want %q", labels, want)
	}

	joined := ""
	for i, s := range got {
		if i > 0 && got[i-1].End != s.Start {
			t.Fatalf("sections are not contiguous: %+v", got)
		}
		joined += doc[s.Start:s.End]
	}
	if joined != doc {
		t.Fatalf("sections do not cover the document")
	}
	if doc[got[2].Start:got[2].End] != "## step 02: Second\nbody\n" {
		t.Fatalf("unexpected last section %q", doc[got[2].Start:got[2].End])
	}
}

func TestStepSectionsEmptyAndHeadingOnly(t *testing.T) {
	if got := stepSections(""); len(got) != 0 {
		t.Fatalf("expected no sections, got %+v", got)
	}
	got := stepSections("## step 03: Only\n")
	if len(got) != 1 || got[0].Label != "step 03: Only" {
		t.Fatalf("unexpected sections %+v", got)
	}
}

func TestStepLabel(t *testing.T) {
	cases := map[string]string{
		"## step 02: Hi\n":          "step 02: Hi",
		"## !!steps step 02: Hi\n":  "step 02: Hi",
		"##   step 02: spaced  \n": "step 02: spaced",
	}
	for in, want := range cases {
		if got := stepLabel(in); got != want {
			t.Fatalf("stepLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
