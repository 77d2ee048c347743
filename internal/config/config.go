package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"

	appErr "github.com/xxxsen/notedown/internal/pkg/errors"
)

type Config struct {
	Token          string           `json:"token"`
	DatabaseID     string           `json:"database_id"`
	PageIDs        []string         `json:"page_ids"`
	NotionVersion  string           `json:"notion_version"`
	OutputDir      string           `json:"output_dir"`
	ImagesDir      string           `json:"images_dir"`
	MetadataFile   string           `json:"metadata_file"`
	HTMLPreviewDir string           `json:"html_preview_dir"`
	Schedule       string           `json:"schedule"`
	ListenAddr     string           `json:"listen_addr"`
	AssetMirror    *S3MirrorConfig  `json:"asset_mirror"`
	LogConfig      logger.LogConfig `json:"log_config"`
}

// S3MirrorConfig publishes downloaded images to a bucket in addition to the
// local images directory. The local copy stays authoritative.
type S3MirrorConfig struct {
	Endpoint  string `json:"endpoint"`
	SecretID  string `json:"secret_id"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Prefix    string `json:"prefix"`
	UseSSL    bool   `json:"use_ssl"`
}

// Load reads the optional JSON config file, applies environment overrides
// (NOTION_TOKEN, DATABASE_ID, PAGE_ID) and fills defaults. The config file
// may be absent; the exporter can run from environment variables alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("open config: %w", err)
			}
		} else {
			defer file.Close()
			if err := json.NewDecoder(file).Decode(cfg); err != nil {
				return nil, fmt.Errorf("decode config: %w", err)
			}
		}
	}

	if token := os.Getenv("NOTION_TOKEN"); token != "" {
		cfg.Token = token
	}
	if dbID := os.Getenv("DATABASE_ID"); dbID != "" {
		cfg.DatabaseID = strings.TrimSpace(dbID)
	}
	if pageIDs := os.Getenv("PAGE_ID"); pageIDs != "" {
		cfg.PageIDs = splitIDs(pageIDs)
	}

	if cfg.NotionVersion == "" {
		cfg.NotionVersion = "2022-06-28"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "articles"
	}
	if cfg.ImagesDir == "" {
		cfg.ImagesDir = "images"
	}
	if cfg.MetadataFile == "" {
		cfg.MetadataFile = "data/articles_metadata.json"
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 * * * *"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:8400"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
		cfg.LogConfig.Console = true
	}
	if cfg.AssetMirror != nil && cfg.AssetMirror.Region == "" {
		cfg.AssetMirror.Region = "auto"
	}
	return cfg, nil
}

// Validate checks the settings an export run cannot start without. These are
// the only errors that abort the process before any I/O.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return appErr.ErrTokenRequired
	}
	if c.DatabaseID == "" && len(c.PageIDs) == 0 {
		return appErr.ErrTargetRequired
	}
	if c.AssetMirror != nil {
		m := c.AssetMirror
		if m.Endpoint == "" || m.Bucket == "" || m.SecretID == "" || m.SecretKey == "" {
			return fmt.Errorf("asset_mirror endpoint/bucket/secret_id/secret_key are required")
		}
	}
	return nil
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
