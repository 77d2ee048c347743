package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	commons3 "github.com/xxxsen/common/s3"

	"github.com/xxxsen/notedown/internal/config"
)

type s3Mirror struct {
	client *commons3.S3Client
	prefix string
}

// NewS3Mirror publishes images to a bucket alongside the local copy, so a
// CDN can serve them. It never answers existence probes; dedup is decided
// against the local store only.
func NewS3Mirror(cfg *config.S3MirrorConfig) (Store, error) {
	client, err := commons3.New(
		commons3.WithEndpoint(cfg.Endpoint),
		commons3.WithSecret(cfg.SecretID, cfg.SecretKey),
		commons3.WithBucket(cfg.Bucket),
		commons3.WithRegion(cfg.Region),
		commons3.WithSSL(cfg.UseSSL),
	)
	if err != nil {
		return nil, fmt.Errorf("init s3 mirror: %w", err)
	}
	return &s3Mirror{client: client, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

func (s *s3Mirror) Exists(ctx context.Context, key string) bool {
	_ = ctx
	_ = key
	return false
}

func (s *s3Mirror) Save(ctx context.Context, key string, r io.Reader) error {
	objectKey := key
	if s.prefix != "" {
		objectKey = path.Join(s.prefix, key)
	}
	// The upload API wants a seekable body with a known size.
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if _, err := s.client.Upload(ctx, objectKey, bytes.NewReader(data), int64(len(data))); err != nil {
		return err
	}
	return nil
}
