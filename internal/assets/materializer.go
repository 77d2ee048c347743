package assets

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	refPrefix       = "images/"
	defaultImageExt = ".png"
	memoCacheSize   = 512
	downloadTimeout = 30 * time.Second
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var allowedExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".svg":  {},
}

// Materializer downloads remote images into the primary store under a name
// derived from the source URL, so the same URL never produces two files.
// Every failure degrades to returning the remote URL unchanged; an asset
// must never abort a page export.
type Materializer struct {
	primary Store
	mirror  Store
	token   string
	client  *http.Client
	memo    *lru.Cache[string, string]
}

// NewMaterializer builds a materializer over the primary store. token is
// attached when the URL belongs to Notion's asset domains. mirror may be
// nil.
func NewMaterializer(primary Store, mirror Store, token string) *Materializer {
	memo, _ := lru.New[string, string](memoCacheSize)
	return &Materializer{
		primary: primary,
		mirror:  mirror,
		token:   token,
		client:  &http.Client{Timeout: downloadTimeout},
		memo:    memo,
	}
}

// Materialize returns a stable local reference (images/<hash12><ext>) for
// the source URL, downloading at most once per URL within and across runs.
func (m *Materializer) Materialize(ctx context.Context, sourceURL string) string {
	filename := m.filenameFor(sourceURL)
	ref := refPrefix + filename

	if cached, ok := m.memo.Get(filename); ok {
		return cached
	}
	if m.primary.Exists(ctx, filename) {
		m.memo.Add(filename, ref)
		return ref
	}

	logger := logutil.GetLogger(ctx).With(zap.String("url", sourceURL))
	body, ok := m.download(ctx, sourceURL, logger)
	if !ok {
		return sourceURL
	}
	if err := m.primary.Save(ctx, filename, strings.NewReader(body)); err != nil {
		logger.Warn("save image failed", zap.Error(err))
		return sourceURL
	}
	if m.mirror != nil {
		if err := m.mirror.Save(ctx, filename, strings.NewReader(body)); err != nil {
			logger.Warn("mirror image failed", zap.Error(err))
		}
	}
	logger.Info("downloaded image", zap.String("filename", filename))
	m.memo.Add(filename, ref)
	return ref
}

func (m *Materializer) download(ctx context.Context, sourceURL string, logger *zap.Logger) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		logger.Warn("build image request failed", zap.Error(err))
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)
	if m.token != "" && isNotionHosted(sourceURL) {
		// Notion-hosted files accept either header; send both, the API
		// token and the cookie form.
		req.Header.Set("Authorization", "Bearer "+m.token)
		req.Header.Set("Cookie", "token_v2="+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		logger.Warn("download image failed", zap.Error(err))
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Warn("download image failed", zap.String("status", resp.Status))
		return "", false
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		logger.Warn("url did not return an image", zap.String("content_type", contentType))
		return "", false
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, resp.Body); err != nil {
		logger.Warn("read image body failed", zap.Error(err))
		return "", false
	}
	return sb.String(), true
}

func (m *Materializer) filenameFor(sourceURL string) string {
	sum := md5.Sum([]byte(sourceURL))
	stem := hex.EncodeToString(sum[:])[:12]
	return stem + extensionFor(sourceURL)
}

func extensionFor(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return defaultImageExt
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if _, ok := allowedExts[ext]; !ok {
		return defaultImageExt
	}
	return ext
}

func isNotionHosted(sourceURL string) bool {
	return strings.Contains(sourceURL, "notion.so") || strings.Contains(sourceURL, "notion-static.com")
}
