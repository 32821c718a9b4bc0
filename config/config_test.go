package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "GroceryInventory", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "grocery_inventory", cfg.Database.Name)
	assert.Equal(t, int64(8<<20), cfg.Web.MaxUploadBytes)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "grocery.yml")
	content := `
web:
  port: 9090
database:
  uri: mongodb://db.example.com:27017
  name: grocery_test
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "mongodb://db.example.com:27017", cfg.Database.URI)
	assert.Equal(t, "grocery_test", cfg.Database.Name)
	// untouched sections keep defaults
	assert.Equal(t, "GroceryInventory", cfg.System.Appid)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Run("environment wins over defaults", func(t *testing.T) {
		t.Setenv("GROCERY_MONGO_URI", "mongodb://env-host:27017")
		t.Setenv("GROCERY_WEB_PORT", "8088")
		t.Setenv("GROCERY_DEBUG", "true")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "mongodb://env-host:27017", cfg.Database.URI)
		assert.Equal(t, 8088, cfg.Web.Port)
		assert.True(t, cfg.System.Debug)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		dir := t.TempDir()
		cfile := filepath.Join(dir, "grocery.yml")
		require.NoError(t, os.WriteFile(cfile, []byte("web:\n  port: 9090\n"), 0o644))
		t.Setenv("GROCERY_WEB_PORT", "8088")

		cfg, err := LoadConfig(cfile)
		require.NoError(t, err)
		assert.Equal(t, 8088, cfg.Web.Port)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("bad port rejected", func(t *testing.T) {
		t.Setenv("GROCERY_WEB_PORT", "0")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("bad logger mode rejected", func(t *testing.T) {
		t.Setenv("GROCERY_LOGGER_MODE", "verbose")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("missing file surfaces", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})
}

func TestPublicImageDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.System.Workdir = "/srv/grocery"
	cfg.Web.ImageDir = "public/images"
	assert.Equal(t, filepath.Join("/srv/grocery", "public/images"), cfg.PublicImageDir())

	cfg.Web.ImageDir = "/var/images"
	assert.Equal(t, "/var/images", cfg.PublicImageDir())
}
