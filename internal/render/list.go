package render

// List renders the generic list grammar used by task lists and test ideas:
// one item per non-blank line, in source order.
func List(text *string) []Block {
	lines := nonBlankLines(deref(text))
	if len(lines) == 0 {
		return []Block{Placeholder(NoEntriesMessage)}
	}
	out := make([]Block, 0, len(lines))
	for _, line := range lines {
		out = append(out, Block{Kind: KindItem, Text: line})
	}
	return out
}
