package exporter_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xxxsen/notedown/internal/notion"
)

// fakeNotion is an in-memory document store behind the real wire protocol.
type fakeNotion struct {
	pages    map[string]notion.Page
	children map[string][]notion.Block
	entries  map[string][]notion.Page // database id → entries
	queryErr bool                     // force database query to fail
	search   []notion.Page
}

func newFakeNotion() *fakeNotion {
	return &fakeNotion{
		pages:    make(map[string]notion.Page),
		children: make(map[string][]notion.Block),
		entries:  make(map[string][]notion.Page),
	}
}

func (f *fakeNotion) addPage(page notion.Page, blocks ...notion.Block) {
	f.pages[page.ID] = page
	f.children[page.ID] = blocks
}

func (f *fakeNotion) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/pages/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/v1/pages/")
		page, ok := f.pages[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"page not found"}`))
			return
		}
		writeJSON(w, page)
	})
	mux.HandleFunc("/v1/blocks/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/v1/blocks/")
		id = strings.TrimSuffix(id, "/children")
		writeJSON(w, notion.BlockList{Results: f.children[id]})
	})
	mux.HandleFunc("/v1/databases/", func(w http.ResponseWriter, r *http.Request) {
		if f.queryErr {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"query not supported"}`))
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/v1/databases/")
		id = strings.TrimSuffix(id, "/query")
		writeJSON(w, notion.PageList{Results: f.entries[id]})
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, notion.PageList{Results: f.search})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func titledPage(id, title string, extra map[string]notion.Property) notion.Page {
	props := map[string]notion.Property{
		"Name": {Type: notion.PropertyTitle, Title: []notion.RichText{{PlainText: title}}},
	}
	for name, prop := range extra {
		props[name] = prop
	}
	return notion.Page{ID: id, CreatedTime: "2024-01-01T00:00:00.000Z", Properties: props}
}

func readyProp(ready bool) notion.Property {
	return notion.Property{Type: notion.PropertyCheckbox, Checkbox: ready}
}

func paragraph(text string) notion.Block {
	return notion.Block{
		Type:      notion.BlockParagraph,
		Paragraph: &notion.TextPayload{RichText: []notion.RichText{{PlainText: text}}},
	}
}
