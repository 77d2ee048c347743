package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/notedown/internal/config"
	appErr "github.com/xxxsen/notedown/internal/pkg/errors"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")
	t.Setenv("DATABASE_ID", "")
	t.Setenv("PAGE_ID", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, "articles", cfg.OutputDir)
	require.Equal(t, "images", cfg.ImagesDir)
	require.Equal(t, "data/articles_metadata.json", cfg.MetadataFile)
	require.Equal(t, "2022-06-28", cfg.NotionVersion)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"from-file","database_id":"db-file"}`), 0o644))

	t.Setenv("NOTION_TOKEN", "from-env")
	t.Setenv("DATABASE_ID", "db-env")
	t.Setenv("PAGE_ID", " p1 , p2 ,,p3 ")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Token)
	require.Equal(t, "db-env", cfg.DatabaseID)
	require.Equal(t, []string{"p1", "p2", "p3"}, cfg.PageIDs)
}

func TestValidateRequiresTokenAndTarget(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")
	t.Setenv("DATABASE_ID", "")
	t.Setenv("PAGE_ID", "")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.ErrorIs(t, cfg.Validate(), appErr.ErrTokenRequired)

	cfg.Token = "tok"
	require.ErrorIs(t, cfg.Validate(), appErr.ErrTargetRequired)

	cfg.DatabaseID = "db1"
	require.NoError(t, cfg.Validate())
}
