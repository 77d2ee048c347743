package exporter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/notedown/internal/exporter"
	"github.com/xxxsen/notedown/internal/notion"
)

func TestExtractMetadataFullPropertySet(t *testing.T) {
	page := titledPage("p1", "My Post", map[string]notion.Property{
		"Category":       {Type: notion.PropertySelect, Select: &notion.SelectOption{Name: "golang"}},
		"Published Date": {Type: notion.PropertyDate, Date: &notion.DateValue{Start: "2024-03-01"}},
		"Ready":          readyProp(true),
		"Excerpt":        {Type: notion.PropertyRichText, RichText: []notion.RichText{{PlainText: "a teaser"}}},
	})

	meta := exporter.ExtractMetadata(&page)
	require.Equal(t, "p1", meta.ID)
	require.Equal(t, "My Post", meta.Title)
	require.Equal(t, "golang", meta.Category)
	require.Equal(t, "2024-03-01", meta.PublishedDate)
	require.NotNil(t, meta.Published)
	require.True(t, *meta.Published)
	require.True(t, meta.IsReady())
	require.Equal(t, "a teaser", meta.Excerpt)
}

func TestExtractMetadataSubstringMatchesPropertyNames(t *testing.T) {
	page := titledPage("p1", "Post", map[string]notion.Property{
		"Blog Category (main)": {Type: notion.PropertySelect, Select: &notion.SelectOption{Name: "life"}},
		"Is Ready?":            readyProp(true),
		"Short excerpt text":   {Type: notion.PropertyRichText, RichText: []notion.RichText{{PlainText: "short"}}},
	})

	meta := exporter.ExtractMetadata(&page)
	require.Equal(t, "life", meta.Category)
	require.True(t, meta.IsReady())
	require.Equal(t, "short", meta.Excerpt)
}

func TestExtractMetadataTypeMustMatchToo(t *testing.T) {
	// a text property named Ready must not gate anything
	page := titledPage("p1", "Post", map[string]notion.Property{
		"Ready": {Type: notion.PropertyRichText, RichText: []notion.RichText{{PlainText: "soon"}}},
	})
	meta := exporter.ExtractMetadata(&page)
	require.Nil(t, meta.Ready)
	require.False(t, meta.IsReady())
}

func TestExtractMetadataMultiSelectCategory(t *testing.T) {
	page := titledPage("p1", "Post", map[string]notion.Property{
		"Categories": {Type: notion.PropertyMultiSelect, MultiSelect: []notion.SelectOption{{Name: "go"}, {Name: "notes"}}},
	})
	meta := exporter.ExtractMetadata(&page)
	require.Equal(t, []string{"go", "notes"}, meta.Category)
}

func TestExtractMetadataEmptyPublishedDate(t *testing.T) {
	page := titledPage("p1", "Post", map[string]notion.Property{
		"Published": {Type: notion.PropertyDate},
	})
	meta := exporter.ExtractMetadata(&page)
	require.NotNil(t, meta.Published)
	require.False(t, *meta.Published)
	require.Empty(t, meta.PublishedDate)
}

func TestExtractMetadataPublishedDateDoesNotGate(t *testing.T) {
	page := titledPage("p1", "Post", map[string]notion.Property{
		"Published": {Type: notion.PropertyDate, Date: &notion.DateValue{Start: "2024-01-01"}},
		"Ready":     readyProp(false),
	})
	meta := exporter.ExtractMetadata(&page)
	require.True(t, *meta.Published)
	require.False(t, meta.IsReady())
}

func TestExtractMetadataFallsBackToUntitled(t *testing.T) {
	page := notion.Page{ID: "p1", Properties: map[string]notion.Property{}}
	meta := exporter.ExtractMetadata(&page)
	require.Equal(t, "Untitled", meta.Title)
}

func TestSafeFilename(t *testing.T) {
	cases := map[string]struct {
		title string
		want  string
	}{
		"simple":           {"Hello World", "hello-world"},
		"punctuation":      {"What's new, really?!", "whats-new-really"},
		"hyphen runs":      {"a -- b", "a-b"},
		"unicode letters":  {"Héllo Wörld", "héllo-wörld"},
		"emoji only title": {"🎉🎉🎉", "page-12345678"},
		"empty title":      {"", "page-12345678"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, exporter.SafeFilename(tc.title, "12345678-abcd-efgh"))
		})
	}
}
