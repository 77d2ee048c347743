package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notedown/internal/render"
)

// Runner composes discovery, per-page export and index persistence into one
// full, idempotent rebuild. Nothing survives in memory between runs; the
// output directory and the index file are the only durable state.
type Runner struct {
	locator      *Locator
	exporter     *Exporter
	metadataFile string
	htmlDir      string
	html         *render.HTMLRenderer
}

func NewRunner(locator *Locator, exporter *Exporter, metadataFile, htmlPreviewDir string) *Runner {
	r := &Runner{
		locator:      locator,
		exporter:     exporter,
		metadataFile: metadataFile,
		htmlDir:      htmlPreviewDir,
	}
	if htmlPreviewDir != "" {
		r.html = render.NewHTMLRenderer()
	}
	return r
}

// Name implements schedule.Job so a runner can be cron-driven as-is.
func (r *Runner) Name() string {
	return "export"
}

// Run performs one export run. Pages and blocks fail individually without
// stopping the run; only configuration problems (caught before a runner
// exists) are fatal. An empty discovery ends the run cleanly with a
// diagnostic.
func (r *Runner) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)

	discovery := r.locator.Discover(ctx)

	if discovery.DatabaseMode {
		// Full rebuild: entries that went unready or vanished from the
		// database must not linger as stale files.
		r.clearArticles(ctx)
	}
	if len(discovery.PageIDs) == 0 {
		logger.Info("no pages found to export; provide comma-separated page ids or a database id")
		return nil
	}
	logger.Info("exporting pages", zap.Int("count", len(discovery.PageIDs)))

	preExtracted := make(map[string]*PageMetadata, len(discovery.Metadata))
	for _, meta := range discovery.Metadata {
		preExtracted[meta.ID] = meta
	}
	// Metadata gathered during discovery wins; export re-extracts only when
	// discovery could not (database mode reached via search fallback paths).
	extractDuringExport := discovery.DatabaseMode && len(preExtracted) == 0

	metas := discovery.Metadata
	var exported []string
	for _, pageID := range discovery.PageIDs {
		filename, meta := r.exporter.ExportPage(ctx, pageID, extractDuringExport)
		if filename == "" {
			continue
		}
		exported = append(exported, filename)
		if pre, ok := preExtracted[pageID]; ok {
			pre.Filename = indexFilename(r.exporter.OutputDir(), filename)
		} else if meta != nil {
			metas = append(metas, meta)
		}
	}

	if err := WriteIndex(r.metadataFile, metas); err != nil {
		// best-effort: written markdown and assets stay in place
		logger.Warn("save metadata index failed", zap.Error(err))
	} else {
		logger.Info("saved metadata index", zap.String("path", r.metadataFile), zap.Int("entries", len(metas)))
	}

	r.renderPreviews(ctx, exported)

	logger.Info("export complete",
		zap.Int("exported", len(exported)),
		zap.String("output_dir", r.exporter.OutputDir()))
	return nil
}

func (r *Runner) clearArticles(ctx context.Context) {
	logger := logutil.GetLogger(ctx)
	files, err := filepath.Glob(filepath.Join(r.exporter.OutputDir(), "*.md"))
	if err != nil || len(files) == 0 {
		logger.Info("no existing articles to remove")
		return
	}
	logger.Info("removing existing articles", zap.Int("count", len(files)))
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			logger.Warn("remove article failed", zap.String("file", file), zap.Error(err))
		}
	}
}

func (r *Runner) renderPreviews(ctx context.Context, exported []string) {
	if r.html == nil || len(exported) == 0 {
		return
	}
	logger := logutil.GetLogger(ctx)
	if err := os.MkdirAll(r.htmlDir, 0o755); err != nil {
		logger.Warn("create html preview dir failed", zap.Error(err))
		return
	}
	for _, filename := range exported {
		data, err := os.ReadFile(filepath.Join(r.exporter.OutputDir(), filename))
		if err != nil {
			logger.Warn("read exported markdown failed", zap.String("file", filename), zap.Error(err))
			continue
		}
		html, err := r.html.Render(string(data))
		if err != nil {
			logger.Warn("html preview failed", zap.String("file", filename), zap.Error(err))
			continue
		}
		target := strings.TrimSuffix(filename, ".md") + ".html"
		if err := os.WriteFile(filepath.Join(r.htmlDir, target), []byte(html), 0o644); err != nil {
			logger.Warn("write html preview failed", zap.String("file", target), zap.Error(err))
		}
	}
	logger.Info("rendered html previews", zap.Int("count", len(exported)), zap.String("dir", r.htmlDir))
}

func indexFilename(outputDir, filename string) string {
	return filepath.ToSlash(filepath.Join(filepath.Base(outputDir), filename))
}
