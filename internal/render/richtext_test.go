package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/notedown/internal/notion"
	"github.com/xxxsen/notedown/internal/render"
)

func TestRichTextPlainSpans(t *testing.T) {
	out := render.RichText([]notion.RichText{
		{PlainText: "hello "},
		{PlainText: "world"},
	})
	require.Equal(t, "hello world", out)
}

func TestRichTextEmpty(t *testing.T) {
	require.Equal(t, "", render.RichText(nil))
	require.Equal(t, "", render.RichText([]notion.RichText{}))
}

func TestRichTextSingleAnnotations(t *testing.T) {
	cases := map[string]struct {
		ann  notion.Annotations
		want string
	}{
		"bold":          {notion.Annotations{Bold: true}, "**x**"},
		"italic":        {notion.Annotations{Italic: true}, "*x*"},
		"code":          {notion.Annotations{Code: true}, "`x`"},
		"strikethrough": {notion.Annotations{Strikethrough: true}, "~~x~~"},
		"underline":     {notion.Annotations{Underline: true}, "<u>x</u>"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out := render.RichText([]notion.RichText{{PlainText: "x", Annotations: tc.ann}})
			require.Equal(t, tc.want, out)
		})
	}
}

func TestRichTextComposedAnnotations(t *testing.T) {
	out := render.RichText([]notion.RichText{{
		PlainText:   "x",
		Annotations: notion.Annotations{Bold: true, Italic: true, Code: true},
	}})
	// all three markers wrap the same character and can be stripped
	// independently
	require.Contains(t, out, "x")
	for _, marker := range []string{"**", "*", "`"} {
		require.Contains(t, out, marker)
	}
	stripped := strings.NewReplacer("**", "", "*", "", "`", "").Replace(out)
	require.Equal(t, "x", stripped)
}

func TestRichTextLinkWrapsAnnotatedText(t *testing.T) {
	out := render.RichText([]notion.RichText{{
		PlainText:   "docs",
		Annotations: notion.Annotations{Bold: true},
		Href:        "https://example.com",
	}})
	require.Equal(t, "[**docs**](https://example.com)", out)
}

func TestPlainTextDropsAnnotations(t *testing.T) {
	out := render.PlainText([]notion.RichText{
		{PlainText: "a", Annotations: notion.Annotations{Bold: true}},
		{PlainText: "b", Annotations: notion.Annotations{Code: true}},
	})
	require.Equal(t, "ab", out)
}
