package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://api.notion.com"
	searchPageSize  = 100
	defaultTimeout  = 30 * time.Second
	maxErrorBodyLen = 512
)

type Option func(c *Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithVersion(version string) Option {
	return func(c *Client) {
		c.version = version
	}
}

// Client is a minimal Notion API client covering the four operations the
// exporter needs: retrieve page, list block children, query database and
// search. All listing operations follow continuation cursors sequentially
// and preserve API order.
type Client struct {
	baseURL string
	token   string
	version string
	client  *http.Client
}

func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		version: "2022-06-28",
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token exposes the bearer token for collaborators that fetch Notion-hosted
// assets outside the JSON API.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	endpoint := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, url.PathEscape(pageID))
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	return &page, nil
}

// ListChildren returns one page of a block's children. Use ListAllChildren
// unless the caller drives the cursor itself.
func (c *Client) ListChildren(ctx context.Context, blockID, cursor string) (*BlockList, error) {
	endpoint := fmt.Sprintf("%s/v1/blocks/%s/children?page_size=%d", c.baseURL, url.PathEscape(blockID), searchPageSize)
	if cursor != "" {
		endpoint += "&start_cursor=" + url.QueryEscape(cursor)
	}
	var list BlockList
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, fmt.Errorf("list children of %s: %w", blockID, err)
	}
	return &list, nil
}

// ListAllChildren follows cursors until the API reports no further page and
// returns the full ordered child list. Order is document order and is never
// touched.
func (c *Client) ListAllChildren(ctx context.Context, blockID string) ([]Block, error) {
	var all []Block
	cursor := ""
	for {
		list, err := c.ListChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, list.Results...)
		if !list.HasMore {
			return all, nil
		}
		cursor = list.NextCursor
	}
}

// QueryDatabase returns one page of database entries. May be unavailable
// depending on the integration's capabilities; callers fall back to Search.
func (c *Client) QueryDatabase(ctx context.Context, databaseID, cursor string) (*PageList, error) {
	endpoint := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, url.PathEscape(databaseID))
	payload := map[string]any{}
	if cursor != "" {
		payload["start_cursor"] = cursor
	}
	var list PageList
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &list); err != nil {
		return nil, fmt.Errorf("query database %s: %w", databaseID, err)
	}
	return &list, nil
}

func (c *Client) QueryAllDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	var all []Page
	cursor := ""
	for {
		list, err := c.QueryDatabase(ctx, databaseID, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, list.Results...)
		if !list.HasMore {
			return all, nil
		}
		cursor = list.NextCursor
	}
}

// SearchPages returns one page of the global page search.
func (c *Client) SearchPages(ctx context.Context, cursor string) (*PageList, error) {
	payload := map[string]any{
		"filter":    map[string]string{"property": "object", "value": "page"},
		"page_size": searchPageSize,
	}
	if cursor != "" {
		payload["start_cursor"] = cursor
	}
	var list PageList
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/search", payload, &list); err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	return &list, nil
}

func (c *Client) SearchAllPages(ctx context.Context) ([]Page, error) {
	var all []Page
	cursor := ""
	for {
		list, err := c.SearchPages(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, list.Results...)
		if !list.HasMore {
			return all, nil
		}
		cursor = list.NextCursor
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return fmt.Errorf("notion api %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
