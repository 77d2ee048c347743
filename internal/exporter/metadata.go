package exporter

import (
	"sort"
	"strings"

	"github.com/xxxsen/notedown/internal/notion"
	"github.com/xxxsen/notedown/internal/render"
)

// PageMetadata is one entry of the exported metadata index. The JSON shape
// matches the articles_metadata.json consumed by the site.
type PageMetadata struct {
	ID             string `json:"id"`
	CreatedTime    string `json:"created_time,omitempty"`
	LastEditedTime string `json:"last_edited_time,omitempty"`
	Title          string `json:"title"`
	// string for a select property, []string for multi_select
	Category      any    `json:"category,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	// informational only; presence of a published date does not gate export
	Published *bool  `json:"published,omitempty"`
	Ready     *bool  `json:"ready,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

// IsReady reports the gating flag; a page without a ready-named checkbox
// property is never exported in database mode.
func (m *PageMetadata) IsReady() bool {
	return m != nil && m.Ready != nil && *m.Ready
}

// ExtractMetadata walks the page's properties. The title-typed property
// supplies the title; category/published/ready/excerpt are matched by
// case-insensitive substring on the property name, so "Ready to Publish"
// and "ready" both bind. Properties are visited in sorted name order so
// repeated runs extract identically.
func ExtractMetadata(page *notion.Page) *PageMetadata {
	meta := &PageMetadata{
		ID:             page.ID,
		CreatedTime:    page.CreatedTime,
		LastEditedTime: page.LastEditedTime,
	}

	names := make([]string, 0, len(page.Properties))
	for name := range page.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := page.Properties[name]
		if prop.Type == notion.PropertyTitle {
			meta.Title = strings.TrimSpace(render.RichText(prop.Title))
			break
		}
	}

	for _, name := range names {
		prop := page.Properties[name]
		lower := strings.ToLower(name)
		switch {
		case strings.Contains(lower, "category") && prop.Type == notion.PropertySelect:
			if prop.Select != nil && prop.Select.Name != "" {
				meta.Category = prop.Select.Name
			}
		case strings.Contains(lower, "category") && prop.Type == notion.PropertyMultiSelect:
			if len(prop.MultiSelect) > 0 {
				values := make([]string, 0, len(prop.MultiSelect))
				for _, option := range prop.MultiSelect {
					values = append(values, option.Name)
				}
				meta.Category = values
			}
		case strings.Contains(lower, "published") && prop.Type == notion.PropertyDate:
			published := prop.Date != nil && prop.Date.Start != ""
			meta.Published = &published
			if published {
				meta.PublishedDate = prop.Date.Start
			}
		case strings.Contains(lower, "ready") && prop.Type == notion.PropertyCheckbox:
			ready := prop.Checkbox
			meta.Ready = &ready
		case strings.Contains(lower, "excerpt") && (prop.Type == notion.PropertyRichText || prop.Type == notion.PropertyText):
			if value := strings.TrimSpace(render.RichText(prop.RichText)); value != "" {
				meta.Excerpt = value
			}
		}
	}

	if meta.Title == "" {
		meta.Title = PageTitle(page)
	}
	return meta
}

// PageTitle derives a display title from the title-typed property, falling
// back to "Untitled".
func PageTitle(page *notion.Page) string {
	for _, prop := range page.Properties {
		if prop.Type == notion.PropertyTitle {
			if title := strings.TrimSpace(render.RichText(prop.Title)); title != "" {
				return title
			}
		}
	}
	return "Untitled"
}
