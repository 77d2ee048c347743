package notion

import "encoding/json"

// RichText is one annotated inline span. Annotations compose freely; the
// renderer applies every active flag to the same text.
type RichText struct {
	PlainText   string      `json:"plain_text"`
	Annotations Annotations `json:"annotations"`
	Href        string      `json:"href,omitempty"`
}

type Annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Code          bool `json:"code"`
	Strikethrough bool `json:"strikethrough"`
	Underline     bool `json:"underline"`
}

type BlockType string

const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockToDo             BlockType = "to_do"
	BlockToggle           BlockType = "toggle"
	BlockCode             BlockType = "code"
	BlockQuote            BlockType = "quote"
	BlockCallout          BlockType = "callout"
	BlockDivider          BlockType = "divider"
	BlockImage            BlockType = "image"
	BlockBookmark         BlockType = "bookmark"
	BlockChildPage        BlockType = "child_page"
	BlockChildDatabase    BlockType = "child_database"
)

// TextPayload covers every text-bearing block kind. Checked is only
// meaningful for to_do, Language for code, Icon for callout.
type TextPayload struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked,omitempty"`
	Language string     `json:"language,omitempty"`
	Icon     *Icon      `json:"icon,omitempty"`
}

type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

type FileRef struct {
	URL string `json:"url"`
}

type ImagePayload struct {
	File     *FileRef   `json:"file,omitempty"`
	External *FileRef   `json:"external,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

// URL picks the file variant first, then external, matching the API's
// one-of-two shape.
func (p *ImagePayload) URL() string {
	if p == nil {
		return ""
	}
	if p.File != nil && p.File.URL != "" {
		return p.File.URL
	}
	if p.External != nil {
		return p.External.URL
	}
	return ""
}

type BookmarkPayload struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption,omitempty"`
}

type ChildDatabasePayload struct {
	Title string `json:"title"`
}

// Block is a closed tagged union over Type. Exactly one payload field is
// populated for known kinds; unknown kinds land in Fallback so that any
// rich_text they carry still degrades to plain rendered text instead of
// disappearing.
type Block struct {
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	HasChildren bool      `json:"has_children"`

	Paragraph        *TextPayload          `json:"paragraph,omitempty"`
	Heading1         *TextPayload          `json:"heading_1,omitempty"`
	Heading2         *TextPayload          `json:"heading_2,omitempty"`
	Heading3         *TextPayload          `json:"heading_3,omitempty"`
	BulletedListItem *TextPayload          `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextPayload          `json:"numbered_list_item,omitempty"`
	ToDo             *TextPayload          `json:"to_do,omitempty"`
	Toggle           *TextPayload          `json:"toggle,omitempty"`
	Code             *TextPayload          `json:"code,omitempty"`
	Quote            *TextPayload          `json:"quote,omitempty"`
	Callout          *TextPayload          `json:"callout,omitempty"`
	Image            *ImagePayload         `json:"image,omitempty"`
	Bookmark         *BookmarkPayload      `json:"bookmark,omitempty"`
	ChildDatabase    *ChildDatabasePayload `json:"child_database,omitempty"`

	Fallback *TextPayload `json:"-"`
}

func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	if err := json.Unmarshal(data, (*alias)(b)); err != nil {
		return err
	}
	if b.textPayload() != nil || b.Image != nil || b.Bookmark != nil || b.ChildDatabase != nil {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if payload, ok := raw[string(b.Type)]; ok {
		var fallback TextPayload
		if err := json.Unmarshal(payload, &fallback); err == nil && len(fallback.RichText) > 0 {
			b.Fallback = &fallback
		}
	}
	return nil
}

func (b *Block) textPayload() *TextPayload {
	switch b.Type {
	case BlockParagraph:
		return b.Paragraph
	case BlockHeading1:
		return b.Heading1
	case BlockHeading2:
		return b.Heading2
	case BlockHeading3:
		return b.Heading3
	case BlockBulletedListItem:
		return b.BulletedListItem
	case BlockNumberedListItem:
		return b.NumberedListItem
	case BlockToDo:
		return b.ToDo
	case BlockToggle:
		return b.Toggle
	case BlockCode:
		return b.Code
	case BlockQuote:
		return b.Quote
	case BlockCallout:
		return b.Callout
	default:
		return nil
	}
}

// RichTextContent returns the inline spans of the block's typed payload, or
// of the fallback payload for unknown kinds.
func (b *Block) RichTextContent() []RichText {
	if payload := b.textPayload(); payload != nil {
		return payload.RichText
	}
	if b.Fallback != nil {
		return b.Fallback.RichText
	}
	return nil
}

type ParentType string

const (
	ParentPage     ParentType = "page_id"
	ParentDatabase ParentType = "database_id"
)

type Parent struct {
	Type       ParentType `json:"type"`
	PageID     string     `json:"page_id,omitempty"`
	DatabaseID string     `json:"database_id,omitempty"`
}

type PropertyType string

const (
	PropertyTitle          PropertyType = "title"
	PropertyRichText       PropertyType = "rich_text"
	PropertyText           PropertyType = "text"
	PropertySelect         PropertyType = "select"
	PropertyMultiSelect    PropertyType = "multi_select"
	PropertyDate           PropertyType = "date"
	PropertyCheckbox       PropertyType = "checkbox"
	PropertyNumber         PropertyType = "number"
	PropertyURL            PropertyType = "url"
	PropertyEmail          PropertyType = "email"
	PropertyCreatedTime    PropertyType = "created_time"
	PropertyLastEditedTime PropertyType = "last_edited_time"
)

type SelectOption struct {
	Name string `json:"name"`
}

type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

type Property struct {
	Type        PropertyType   `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Checkbox    bool           `json:"checkbox,omitempty"`
}

// Page is a page record as returned by retrieve, query and search.
type Page struct {
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	Parent         *Parent             `json:"parent,omitempty"`
	Properties     map[string]Property `json:"properties"`
}

type BlockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

type PageList struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}
