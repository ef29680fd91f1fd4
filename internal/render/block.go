// Package render turns the loosely formatted text fields of an analysis result
// into ordered blocks and emits them as HTML or plain text.
//
// Every function in this package is pure: the same input always yields the
// same blocks, and malformed input degrades to unlabeled blocks instead of
// failing.
package render

import "strings"

// Grammar selects how a text field is segmented.
type Grammar string

const (
	GrammarList         Grammar = "list"
	GrammarRequirements Grammar = "requirements"
	GrammarParagraphs   Grammar = "paragraphs"
)

// Kind classifies a rendered block.
type Kind string

const (
	KindPlaceholder Kind = "placeholder"
	KindItem        Kind = "item"
	KindRequirement Kind = "requirement"
	KindParagraph   Kind = "paragraph"
)

// Tag distinguishes functional from non-functional requirement lines.
type Tag string

const (
	TagNone Tag = ""
	TagFR   Tag = "fr"
	TagNFR  Tag = "nfr"
)

const (
	NoEntriesMessage      = "No entries available"
	NoRequirementsMessage = "No requirements available"
)

// Segment is one source line of a paragraph. Break marks a forced line break
// before the segment; otherwise it is soft-wrapped onto the previous one.
type Segment struct {
	Text  string `json:"text"`
	Break bool   `json:"break,omitempty"`
}

// Block is a single unit of rendered output.
type Block struct {
	Kind     Kind      `json:"kind"`
	Tag      Tag       `json:"tag,omitempty"`
	Text     string    `json:"text,omitempty"`
	Label    string    `json:"label,omitempty"`
	Rest     string    `json:"rest,omitempty"`
	// HasColon records whether the source line separated Label from Rest.
	HasColon bool      `json:"hasColon,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Placeholder returns a block carrying a fixed message.
func Placeholder(message string) Block {
	return Block{Kind: KindPlaceholder, Text: message}
}

// IsPlaceholder reports whether blocks is exactly one placeholder block.
func IsPlaceholder(blocks []Block) bool {
	return len(blocks) == 1 && blocks[0].Kind == KindPlaceholder
}

// For dispatches to the grammar's segmentation function.
func For(grammar Grammar, text *string) []Block {
	switch grammar {
	case GrammarRequirements:
		return Requirements(text)
	case GrammarParagraphs:
		return Paragraphs(text)
	default:
		return List(text)
	}
}

func deref(text *string) string {
	if text == nil {
		return ""
	}
	return *text
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
