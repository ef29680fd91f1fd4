package render

import (
	"regexp"
	"strings"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// tagLinePrefixes mark lines that keep their own line inside a paragraph.
// The bare "T" also matches ordinary prose such as "The ..." and is kept that way.
var tagLinePrefixes = []string{"- ", "* ", "FR-", "NFR-", "RISIKO-", "ANNAHME-", "T", "TS-"}

// Paragraphs renders the paragraph mini-grammar. Absent or blank input yields
// no blocks; callers provide their own fallback.
func Paragraphs(text *string) []Block {
	raw := strings.ReplaceAll(deref(text), "\r\n", "\n")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []Block
	for _, chunk := range paragraphBreak.Split(raw, -1) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		out = append(out, paragraph(chunk))
	}
	return out
}

func paragraph(chunk string) Block {
	var (
		segments []Segment
		buf      strings.Builder
	)
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seg := Segment{Text: line}
		if len(segments) > 0 {
			seg.Break = isTagLine(line)
			if seg.Break {
				buf.WriteString("\n")
			} else {
				buf.WriteString(" ")
			}
		}
		buf.WriteString(line)
		segments = append(segments, seg)
	}
	return Block{Kind: KindParagraph, Text: buf.String(), Segments: segments}
}

func isTagLine(line string) bool {
	for _, prefix := range tagLinePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
