package render

import (
	"strings"

	"github.com/xxxsen/notedown/internal/notion"
)

// RichText converts annotated spans to inline markdown, span by span in
// order. Annotations wrap the span text in a fixed order (bold, italic,
// code, strikethrough, underline) so composed output is deterministic; a
// link wraps last, around the fully annotated text.
func RichText(spans []notion.RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		text := span.PlainText
		if span.Annotations.Bold {
			text = "**" + text + "**"
		}
		if span.Annotations.Italic {
			text = "*" + text + "*"
		}
		if span.Annotations.Code {
			text = "`" + text + "`"
		}
		if span.Annotations.Strikethrough {
			text = "~~" + text + "~~"
		}
		if span.Annotations.Underline {
			text = "<u>" + text + "</u>"
		}
		if span.Href != "" {
			text = "[" + text + "](" + span.Href + ")"
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// PlainText joins span text without any annotation markers. Code blocks use
// this so fences carry the raw source.
func PlainText(spans []notion.RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(span.PlainText)
	}
	return sb.String()
}
