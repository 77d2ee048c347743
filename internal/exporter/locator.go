package exporter

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notedown/internal/notion"
)

// Discovery is the outcome of page location: the ids to export in order,
// metadata pre-extracted during discovery (database modes only, already
// ready-gated) and whether the run carries database semantics (destructive
// pre-clean, ready filtering).
type Discovery struct {
	PageIDs      []string
	Metadata     []*PageMetadata
	DatabaseMode bool
}

// Locator resolves which pages to export. Strategies run in a fixed
// precedence and the first one that yields a result wins:
//
//  1. explicit database id → query it, keep ready entries
//  2. database embedded in the first supplied page → same as (1)
//  3. several page ids supplied → export them as-is
//  4. one page id → its child_page blocks, else a global search for pages
//     whose parent matches
type Locator struct {
	client     *notion.Client
	databaseID string
	pageIDs    []string
}

func NewLocator(client *notion.Client, databaseID string, pageIDs []string) *Locator {
	return &Locator{client: client, databaseID: databaseID, pageIDs: pageIDs}
}

type strategy func(ctx context.Context) *Discovery

// Discover runs the strategy cascade. A nil-result strategy falls through to
// the next; an exhausted cascade returns an empty discovery, which the
// runner reports as a diagnostic rather than a failure.
func (l *Locator) Discover(ctx context.Context) *Discovery {
	strategies := []strategy{
		l.fromExplicitDatabase,
		l.fromDiscoveredDatabase,
		l.fromExplicitPages,
		l.fromParentPage,
	}
	for _, s := range strategies {
		if d := s(ctx); d != nil {
			return d
		}
	}
	return &Discovery{}
}

func (l *Locator) fromExplicitDatabase(ctx context.Context) *Discovery {
	if l.databaseID == "" {
		return nil
	}
	logutil.GetLogger(ctx).Info("using database", zap.String("database_id", l.databaseID))
	return l.queryReadyEntries(ctx, l.databaseID)
}

func (l *Locator) fromDiscoveredDatabase(ctx context.Context) *Discovery {
	if len(l.pageIDs) == 0 {
		return nil
	}
	parentID := l.pageIDs[0]
	logger := logutil.GetLogger(ctx).With(zap.String("parent_id", parentID))
	logger.Info("searching for database in page")

	blocks, err := l.client.ListAllChildren(ctx, parentID)
	if err != nil {
		logger.Warn("scan for database failed", zap.Error(err))
		return nil
	}
	for i := range blocks {
		if blocks[i].Type != notion.BlockChildDatabase {
			continue
		}
		title := ""
		if blocks[i].ChildDatabase != nil {
			title = blocks[i].ChildDatabase.Title
		}
		logger.Info("found database", zap.String("database_id", blocks[i].ID), zap.String("title", title))
		return l.queryReadyEntries(ctx, blocks[i].ID)
	}
	logger.Info("no database found in page")
	return nil
}

func (l *Locator) fromExplicitPages(ctx context.Context) *Discovery {
	if len(l.pageIDs) < 2 {
		return nil
	}
	logutil.GetLogger(ctx).Info("exporting explicit pages", zap.Int("count", len(l.pageIDs)))
	return &Discovery{PageIDs: l.pageIDs}
}

func (l *Locator) fromParentPage(ctx context.Context) *Discovery {
	if len(l.pageIDs) != 1 {
		return nil
	}
	parentID := l.pageIDs[0]
	logger := logutil.GetLogger(ctx).With(zap.String("parent_id", parentID))
	logger.Info("finding child pages")

	ids := l.childPageBlocks(ctx, parentID)
	if len(ids) == 0 {
		ids = l.searchChildren(ctx, parentID)
	}
	return &Discovery{PageIDs: ids}
}

// queryReadyEntries queries the database (with search fallback) and keeps
// only entries whose ready checkbox is set. Unready entries are logged and
// dropped; a later run picks them up once they flip.
func (l *Locator) queryReadyEntries(ctx context.Context, databaseID string) *Discovery {
	logger := logutil.GetLogger(ctx).With(zap.String("database_id", databaseID))
	pages := l.queryDatabase(ctx, databaseID)

	d := &Discovery{DatabaseMode: true}
	for i := range pages {
		meta := ExtractMetadata(&pages[i])
		if !meta.IsReady() {
			logger.Info("skipping unready entry", zap.String("title", meta.Title))
			continue
		}
		logger.Info("including entry",
			zap.String("title", meta.Title),
			zap.String("published_date", meta.PublishedDate))
		d.PageIDs = append(d.PageIDs, meta.ID)
		d.Metadata = append(d.Metadata, meta)
	}
	logger.Info("ready entries found", zap.Int("count", len(d.PageIDs)))
	return d
}

// queryDatabase prefers the direct paginated query; if that transport path
// errors (the token's capabilities may not include it), it falls back to the
// global search, filtering client-side by parent database identity.
func (l *Locator) queryDatabase(ctx context.Context, databaseID string) []notion.Page {
	logger := logutil.GetLogger(ctx).With(zap.String("database_id", databaseID))
	pages, err := l.client.QueryAllDatabase(ctx, databaseID)
	if err == nil {
		return pages
	}
	logger.Warn("database query failed, falling back to search", zap.Error(err))

	all, err := l.client.SearchAllPages(ctx)
	if err != nil {
		logger.Warn("search fallback failed", zap.Error(err))
		return nil
	}
	var matched []notion.Page
	for _, page := range all {
		if page.Parent != nil && page.Parent.Type == notion.ParentDatabase && page.Parent.DatabaseID == databaseID {
			matched = append(matched, page)
		}
	}
	logger.Info("search fallback matched pages", zap.Int("searched", len(all)), zap.Int("matched", len(matched)))
	return matched
}

func (l *Locator) childPageBlocks(ctx context.Context, parentID string) []string {
	logger := logutil.GetLogger(ctx).With(zap.String("parent_id", parentID))
	blocks, err := l.client.ListAllChildren(ctx, parentID)
	if err != nil {
		logger.Warn("list parent children failed", zap.Error(err))
		return nil
	}
	var ids []string
	for i := range blocks {
		if blocks[i].Type != notion.BlockChildPage || blocks[i].ID == "" {
			continue
		}
		ids = append(ids, blocks[i].ID)
		if page, err := l.client.RetrievePage(ctx, blocks[i].ID); err == nil {
			logger.Info("found child page", zap.String("title", PageTitle(page)))
		} else {
			logger.Info("found child page", zap.String("page_id", blocks[i].ID))
		}
	}
	return ids
}

func (l *Locator) searchChildren(ctx context.Context, parentID string) []string {
	logger := logutil.GetLogger(ctx).With(zap.String("parent_id", parentID))
	logger.Info("searching all pages for children")
	all, err := l.client.SearchAllPages(ctx)
	if err != nil {
		logger.Warn("search for children failed", zap.Error(err))
		return nil
	}
	seen := make(map[string]struct{})
	var ids []string
	for i := range all {
		page := &all[i]
		if page.Parent == nil || page.Parent.Type != notion.ParentPage || page.Parent.PageID != parentID {
			continue
		}
		if _, ok := seen[page.ID]; ok {
			continue
		}
		seen[page.ID] = struct{}{}
		ids = append(ids, page.ID)
		logger.Info("found child page", zap.String("title", PageTitle(page)))
	}
	return ids
}
