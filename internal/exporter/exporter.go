package exporter

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notedown/internal/notion"
	"github.com/xxxsen/notedown/internal/render"
)

var (
	// Unicode word characters, whitespace and hyphens survive; everything
	// else (emoji, punctuation) is stripped before slugging.
	nonWordRegex  = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	collapseRegex = regexp.MustCompile(`[-\s]+`)
)

// Exporter writes one page at a time: retrieve record, render blocks in
// document order, synthesize a title heading when needed, write the file.
type Exporter struct {
	client    *notion.Client
	renderer  *render.Renderer
	outputDir string
}

func New(client *notion.Client, renderer *render.Renderer, outputDir string) *Exporter {
	return &Exporter{client: client, renderer: renderer, outputDir: outputDir}
}

// ExportPage exports a single page to <slug>.md in the output directory.
// Returns the written filename and, when requested, extracted metadata. Any
// page-level failure is logged and reported as ("", nil); it must not stop
// the export of other pages.
func (e *Exporter) ExportPage(ctx context.Context, pageID string, extractMeta bool) (string, *PageMetadata) {
	logger := logutil.GetLogger(ctx).With(zap.String("page_id", pageID))

	page, err := e.client.RetrievePage(ctx, pageID)
	if err != nil {
		logger.Error("export page failed", zap.Error(err))
		return "", nil
	}
	title := PageTitle(page)
	logger.Info("exporting page", zap.String("title", title))

	var meta *PageMetadata
	if extractMeta {
		meta = ExtractMetadata(page)
	}

	blocks, err := e.client.ListAllChildren(ctx, pageID)
	if err != nil {
		logger.Error("export page failed", zap.Error(err))
		return "", nil
	}

	var sb strings.Builder
	if len(blocks) > 0 && !isHeading(blocks[0].Type) {
		sb.WriteString("# " + title + "\n\n")
	}
	for i := range blocks {
		sb.WriteString(e.renderer.Block(ctx, &blocks[i], 0))
	}
	body := sb.String()
	// never write a content-free file
	if strings.TrimSpace(body) == "" {
		body = "# " + title + "\n\n"
	}

	filename := SafeFilename(title, pageID) + ".md"
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		logger.Error("create output dir failed", zap.Error(err))
		return "", nil
	}
	if err := os.WriteFile(filepath.Join(e.outputDir, filename), []byte(body), 0o644); err != nil {
		logger.Error("write markdown failed", zap.Error(err))
		return "", nil
	}
	logger.Info("exported page", zap.String("filename", filename))

	if meta != nil {
		meta.Filename = path.Join(filepath.Base(e.outputDir), filename)
	}
	return filename, meta
}

// OutputDir is the directory markdown files land in.
func (e *Exporter) OutputDir() string {
	return e.outputDir
}

// SafeFilename turns a page title into a filesystem-safe slug: strip
// non-word characters, collapse whitespace and hyphen runs to single
// hyphens, lower-case. Titles that sanitize to nothing fall back to a short
// id-derived name so no page can yield an empty or colliding filename.
func SafeFilename(title, pageID string) string {
	slug := nonWordRegex.ReplaceAllString(title, "")
	slug = strings.TrimSpace(slug)
	slug = collapseRegex.ReplaceAllString(slug, "-")
	slug = strings.ToLower(slug)
	if slug == "" {
		id := strings.ReplaceAll(pageID, "-", "")
		if len(id) > 8 {
			id = id[:8]
		}
		slug = "page-" + id
	}
	return slug
}

func isHeading(t notion.BlockType) bool {
	return t == notion.BlockHeading1 || t == notion.BlockHeading2 || t == notion.BlockHeading3
}
