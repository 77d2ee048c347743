package render

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notedown/internal/notion"
)

const defaultCalloutIcon = "💡"

// ChildFetcher retrieves the full ordered child list of a block. Injected so
// the renderer can be tested against an in-memory tree.
type ChildFetcher func(ctx context.Context, blockID string) ([]notion.Block, error)

// AssetResolver turns a remote image URL into a local reference, or returns
// the URL unchanged when materialization is impossible.
type AssetResolver interface {
	Materialize(ctx context.Context, sourceURL string) string
}

type Renderer struct {
	fetchChildren ChildFetcher
	assets        AssetResolver
}

// NewRenderer builds a block renderer. assets may be nil, in which case
// image blocks keep their remote URLs.
func NewRenderer(fetchChildren ChildFetcher, assets AssetResolver) *Renderer {
	return &Renderer{fetchChildren: fetchChildren, assets: assets}
}

// Block renders one block and, depth-first and in order, its children. A
// failure inside a single block degrades to an empty fragment so one bad
// block cannot abort the page.
func (r *Renderer) Block(ctx context.Context, block *notion.Block, indent int) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			logutil.GetLogger(ctx).Warn("block rendering failed",
				zap.String("block_id", block.ID),
				zap.String("type", string(block.Type)),
				zap.Any("panic", rec))
			out = ""
		}
	}()

	prefix := strings.Repeat("  ", indent)
	text := RichText(block.RichTextContent())
	content := r.ownContent(ctx, block, prefix, text)

	if block.HasChildren && block.ID != "" {
		children, err := r.fetchChildren(ctx, block.ID)
		if err != nil {
			logutil.GetLogger(ctx).Warn("fetch children failed",
				zap.String("block_id", block.ID),
				zap.String("type", string(block.Type)),
				zap.Error(err))
			return ""
		}
		childIndent := indent
		if block.Type == notion.BlockToggle || block.Type == notion.BlockCallout {
			childIndent = indent + 1
		}
		for i := range children {
			content += r.Block(ctx, &children[i], childIndent)
		}
		if block.Type == notion.BlockToggle {
			content += prefix + "</details>\n\n"
		}
	}
	return content
}

func (r *Renderer) ownContent(ctx context.Context, block *notion.Block, prefix, text string) string {
	switch block.Type {
	case notion.BlockParagraph:
		return prefix + text + "\n\n"
	case notion.BlockHeading1:
		return prefix + "# " + text + "\n\n"
	case notion.BlockHeading2:
		return prefix + "## " + text + "\n\n"
	case notion.BlockHeading3:
		return prefix + "### " + text + "\n\n"
	case notion.BlockBulletedListItem:
		return prefix + "- " + text + "\n"
	case notion.BlockNumberedListItem:
		// Literal marker; markdown renderers renumber, and tracking sibling
		// position across pagination boundaries is not worth it.
		return prefix + "1. " + text + "\n"
	case notion.BlockToDo:
		checkbox := "[ ]"
		if block.ToDo != nil && block.ToDo.Checked {
			checkbox = "[x]"
		}
		return prefix + "- " + checkbox + " " + text + "\n"
	case notion.BlockToggle:
		return prefix + "<details>\n" + prefix + "<summary>" + text + "</summary>\n"
	case notion.BlockCode:
		language := ""
		var raw string
		if block.Code != nil {
			language = block.Code.Language
			raw = PlainText(block.Code.RichText)
		}
		return prefix + "```" + language + "\n" + raw + "\n" + prefix + "```\n\n"
	case notion.BlockQuote:
		return prefix + "> " + text + "\n\n"
	case notion.BlockCallout:
		icon := defaultCalloutIcon
		if block.Callout != nil && block.Callout.Icon != nil && block.Callout.Icon.Emoji != "" {
			icon = block.Callout.Icon.Emoji
		}
		return prefix + "> " + icon + " " + text + "\n\n"
	case notion.BlockDivider:
		return prefix + "---\n\n"
	case notion.BlockImage:
		imageURL := block.Image.URL()
		if imageURL == "" {
			return ""
		}
		caption := ""
		if block.Image != nil {
			caption = RichText(block.Image.Caption)
		}
		ref := imageURL
		if r.assets != nil {
			ref = r.assets.Materialize(ctx, imageURL)
		}
		return prefix + "![" + caption + "](" + ref + ")\n\n"
	case notion.BlockBookmark:
		if block.Bookmark == nil {
			return ""
		}
		label := RichText(block.Bookmark.Caption)
		if label == "" {
			label = block.Bookmark.URL
		}
		return prefix + "[" + label + "](" + block.Bookmark.URL + ")\n\n"
	default:
		// Unsupported kinds degrade to their bare text, if any.
		if text != "" {
			return prefix + text + "\n\n"
		}
		return ""
	}
}
