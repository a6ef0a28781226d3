package main

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const defaultTokenModel = "gpt-4"

// docSection is a labelled byte range of the generated document.
type docSection struct {
	Label string
	Start int
	End   int
}

// stepSections cuts doc at every level-2 heading. Text before the first
// heading (diff-files output, say) is labelled "[preamble]".
func stepSections(doc string) []docSection {
	var sections []docSection
	start, label := 0, "[preamble]"
	offset := 0
	for _, line := range strings.SplitAfter(doc, "\n") {
		if strings.HasPrefix(line, "## ") {
			if offset > start {
				sections = append(sections, docSection{Label: label, Start: start, End: offset})
			}
			start = offset
			label = stepLabel(line)
		}
		offset += len(line)
	}
	if offset > start {
		sections = append(sections, docSection{Label: label, Start: start, End: offset})
	}
	return sections
}

func stepLabel(heading string) string {
	label := strings.TrimSpace(strings.TrimPrefix(heading, "## "))
	return strings.TrimSpace(strings.TrimPrefix(label, "!!steps"))
}

// buildTokenReport counts the tokens of the whole document, then of each
// step section on its own.
func buildTokenReport(doc string, model string) (string, error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return "", fmt.Errorf("failed to get tokenizer for model %q: %w", model, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", len(tkm.Encode(doc, nil, nil)))
	fmt.Fprintf(&b, "\nmodel: %s\n", model)

	sections := stepSections(doc)
	if len(sections) == 0 {
		return b.String(), nil
	}
	fmt.Fprintf(&b, "\nsteps:\n")
	for _, s := range sections {
		n := len(tkm.Encode(doc[s.Start:s.End], nil, nil))
		fmt.Fprintf(&b, "%d\t%s\n", n, s.Label)
	}
	return b.String(), nil
}
