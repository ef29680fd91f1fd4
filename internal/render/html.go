package render

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

// HTML emits blocks as an HTML fragment for the given grammar. Block text is
// escaped and the fragment is passed through an allow-list policy before it
// is trusted as template.HTML.
func HTML(grammar Grammar, blocks []Block) template.HTML {
	var b strings.Builder
	switch {
	case len(blocks) == 0:
	case IsPlaceholder(blocks):
		writePlaceholder(&b, blocks[0].Text)
	case grammar == GrammarParagraphs:
		for _, block := range blocks {
			writeParagraph(&b, block)
		}
	default:
		class := "tasks-list"
		if grammar == GrammarRequirements {
			class = "requirements-list"
		}
		b.WriteString(`<ul class="` + class + `">`)
		for _, block := range blocks {
			writeListItem(&b, block)
		}
		b.WriteString("</ul>")
	}
	return template.HTML(sanitizeFragment(b.String()))
}

func writePlaceholder(b *strings.Builder, message string) {
	b.WriteString(`<p class="placeholder">`)
	b.WriteString(html.EscapeString(message))
	b.WriteString("</p>")
}

func writeParagraph(b *strings.Builder, block Block) {
	if block.Kind == KindPlaceholder {
		writePlaceholder(b, block.Text)
		return
	}
	b.WriteString("<p>")
	if len(block.Segments) == 0 {
		b.WriteString(html.EscapeString(block.Text))
	}
	for i, seg := range block.Segments {
		if i > 0 {
			if seg.Break {
				b.WriteString("<br>")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(html.EscapeString(seg.Text))
	}
	b.WriteString("</p>")
}

func writeListItem(b *strings.Builder, block Block) {
	b.WriteString("<li>")
	if block.Kind == KindRequirement {
		b.WriteString(`<span class="` + string(block.Tag) + `">`)
		b.WriteString(html.EscapeString(block.Label))
		b.WriteString(":</span> ")
		b.WriteString(html.EscapeString(block.Rest))
	} else {
		b.WriteString(html.EscapeString(block.Text))
	}
	b.WriteString("</li>")
}

func sanitizeFragment(raw string) string {
	if raw == "" {
		return ""
	}
	return fragmentSanitizer().Sanitize(raw)
}

func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("ul", "li", "p", "br", "span")
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("ul", "p", "span")
		fragmentPolicy = policy
	})
	return fragmentPolicy
}
