package render

import "strings"

const (
	markerFR  = "FR-"
	markerNFR = "NFR-"
)

// Requirements renders the requirement-line grammar. Lines carrying an FR- or
// NFR- marker are split at the first colon into label and rest; everything
// else is emitted as an unlabeled item.
func Requirements(text *string) []Block {
	lines := nonBlankLines(deref(text))
	if len(lines) == 0 {
		return []Block{Placeholder(NoRequirementsMessage)}
	}
	out := make([]Block, 0, len(lines))
	for _, line := range lines {
		tag := requirementTag(line)
		if tag == TagNone {
			out = append(out, Block{Kind: KindItem, Text: line})
			continue
		}
		label, rest, found := strings.Cut(line, ":")
		out = append(out, Block{Kind: KindRequirement, Tag: tag, Label: label, Rest: rest, HasColon: found})
	}
	return out
}

// requirementTag prefers FR when a line carries both markers. An FR- that is
// only the tail of NFR- does not count as a functional marker.
func requirementTag(line string) Tag {
	if hasFunctionalMarker(line) {
		return TagFR
	}
	if strings.Contains(line, markerNFR) {
		return TagNFR
	}
	return TagNone
}

func hasFunctionalMarker(line string) bool {
	offset := 0
	for {
		idx := strings.Index(line[offset:], markerFR)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		if pos == 0 || line[pos-1] != 'N' {
			return true
		}
		offset = pos + len(markerFR)
	}
}
