package lang

import (
	"fmt"
	"strings"
)

// Style is one of the comment syntaxes a profile can use.
type Style int

const (
	Identity Style = iota
	Hash
	Slash
	Block
	XML
	Custom
)

// Comment wraps a line in the comment syntax of a language. Prefix is only
// used by the Custom style.
type Comment struct {
	Style  Style
	Prefix string
}

// CustomComment builds a comment that prefixes lines with prefix and a space.
func CustomComment(prefix string) Comment {
	return Comment{Style: Custom, Prefix: prefix}
}

// Format renders line as a comment.
func (c Comment) Format(line string) string {
	switch c.Style {
	case Hash:
		return "# " + line
	case Slash:
		return "// " + line
	case Block:
		return "/* " + line + " */"
	case XML:
		return "<!-- " + line + " -->"
	case Custom:
		return c.Prefix + " " + line
	default:
		return line
	}
}

func (c Comment) String() string {
	switch c.Style {
	case Hash:
		return "hash"
	case Slash:
		return "slash"
	case Block:
		return "block"
	case XML:
		return "xml"
	case Custom:
		return fmt.Sprintf("custom(%q)", c.Prefix)
	default:
		return "none"
	}
}

// ParseComment maps a configuration value to a comment. Known style names
// select a built-in syntax; anything else is taken as a custom prefix.
func ParseComment(s string) (Comment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Comment{}, fmt.Errorf("empty comment style")
	case "none", "identity", "text":
		return Comment{Style: Identity}, nil
	case "hash", "#":
		return Comment{Style: Hash}, nil
	case "slash", "//":
		return Comment{Style: Slash}, nil
	case "block", "/*":
		return Comment{Style: Block}, nil
	case "xml", "html", "<!--":
		return Comment{Style: XML}, nil
	}
	return CustomComment(strings.TrimSpace(s)), nil
}
