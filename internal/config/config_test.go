package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"logviewer/internal/config"
	"logviewer/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary config file
func createTestConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const (
	validYAML = `
viewer:
  max_readable_size: 2048
  external_viewer: "less"
log:
  file: "/tmp/viewer-trace.log"
  debug: false
watch:
  enabled: true
  ignore: ["trace.log", "*.swp"]
highlight:
  enabled: true
  engine: chroma
validate:
  report: last
`
	validTOML = `
[viewer]
max_readable_size = 4096
external_viewer = "more"

[validate]
report = "all"

[tree]
exclude = ["*.bak"]
`
	invalidSyntaxYAML = `
viewer:
  max_readable_size: "not a number
`
	invalidReportYAML = `
validate:
  report: "first"
`
	invalidGlobYAML = `
watch:
  ignore: ["[unclosed"]
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid yaml", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestConfig(t, "config.yaml", validYAML))
		require.NoError(t, err)

		assert.Equal(t, int64(2048), cfg.Viewer.MaxReadableSize)
		assert.Equal(t, "less", cfg.Viewer.ExternalViewer)
		assert.Equal(t, "/tmp/viewer-trace.log", cfg.Log.File)
		assert.False(t, cfg.Log.Debug)
		assert.True(t, cfg.Watch.Enabled)
		assert.Equal(t, []string{"trace.log", "*.swp"}, cfg.Watch.Ignore)
		assert.True(t, cfg.Highlight.Enabled)
		assert.Equal(t, config.EngineChroma, cfg.Highlight.Engine)
		assert.Equal(t, config.ReportLast, cfg.Validation.Report)
		// Unset keys keep defaults
		assert.Equal(t, "monokai", cfg.Highlight.Style)
		assert.Equal(t, "default", cfg.Theme.Name)
	})

	t.Run("load valid toml", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestConfig(t, "config.toml", validTOML))
		require.NoError(t, err)

		assert.Equal(t, int64(4096), cfg.Viewer.MaxReadableSize)
		assert.Equal(t, "more", cfg.Viewer.ExternalViewer)
		assert.Equal(t, []string{"*.bak"}, cfg.Tree.Exclude)
		assert.Equal(t, "trace.log", cfg.Log.File)
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultMaxReadableSize, cfg.Viewer.MaxReadableSize)
		assert.Equal(t, "uex", cfg.Viewer.ExternalViewer)
		assert.Equal(t, config.ReportAll, cfg.Validation.Report)
		assert.Equal(t, config.EngineRules, cfg.Highlight.Engine)
		assert.Equal(t, []string{"trace.log"}, cfg.Watch.Ignore)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestConfig(t, "config.yaml", invalidSyntaxYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("invalid report mode", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestConfig(t, "config.yaml", invalidReportYAML))
		require.Error(t, err)
		var ce *errors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "validate.report", ce.Param())
	})

	t.Run("invalid glob", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestConfig(t, "config.yaml", invalidGlobYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "watch.ignore")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"zero ceiling", func(c *config.Config) { c.Viewer.MaxReadableSize = 0 }, "viewer.max_readable_size"},
		{"unknown engine", func(c *config.Config) { c.Highlight.Engine = "pygments" }, "highlight.engine"},
		{"missing default dir", func(c *config.Config) { c.Viewer.DefaultDirectory = "/definitely/not/here" }, "viewer.default_directory"},
		{"default dir is file", func(c *config.Config) {
			f := filepath.Join(t.TempDir(), "file")
			_ = os.WriteFile(f, nil, 0644)
			c.Viewer.DefaultDirectory = f
		}, "viewer.default_directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.New()
	cfg.Viewer.ExternalViewer = "vim"
	cfg.Validation.Report = config.ReportLast

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vim", loaded.Viewer.ExternalViewer)
	assert.Equal(t, config.ReportLast, loaded.Validation.Report)
}

func TestThemes(t *testing.T) {
	cfg := config.New()
	for _, name := range config.ListThemes() {
		cfg.ApplyTheme(name)
		assert.Equal(t, name, cfg.Theme.Name)
		assert.NotEmpty(t, cfg.Theme.Emphasis)
	}
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("nonexistent"))
}
