package render

import "strings"

// Text emits blocks as plain text, one line per list item and a blank line
// between paragraphs.
func Text(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	paragraphs := false
	for _, block := range blocks {
		switch block.Kind {
		case KindRequirement:
			if block.HasColon {
				parts = append(parts, block.Label+":"+block.Rest)
			} else {
				parts = append(parts, block.Label)
			}
		case KindParagraph:
			paragraphs = true
			parts = append(parts, block.Text)
		default:
			parts = append(parts, block.Text)
		}
	}
	sep := "\n"
	if paragraphs {
		sep = "\n\n"
	}
	return strings.Join(parts, sep)
}
