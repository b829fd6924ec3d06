package check

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		expected Config
		wantErr  bool
	}{
		{
			name:     "missing file uses defaults",
			file:     "absent.yaml",
			expected: DefaultConfig(),
		},
		{
			name:     "empty yaml uses defaults",
			file:     "empty.yaml",
			content:  "",
			expected: DefaultConfig(),
		},
		{
			name: "yaml overrides",
			file: "custom.yaml",
			content: `name: project
extensions: [conf, ".ENV"]
ignore_paths:
  - vendor
cache:
  enabled: true
  dir: /tmp/lc
  max_age: 1h
`,
			expected: Config{
				Name:        "project",
				Extensions:  []string{".conf", ".env"},
				IgnorePaths: []string{"vendor"},
				Cache:       CacheConfig{Enabled: true, Dir: "/tmp/lc", MaxAge: time.Hour},
			},
		},
		{
			name: "toml overrides",
			file: "custom.toml",
			content: `name = "project"
extensions = [".cfg"]

[cache]
enabled = true
max_age = "30m"
`,
			expected: Config{
				Name:       "project",
				Extensions: []string{".cfg"},
				Cache:      CacheConfig{Enabled: true, Dir: ".lineconf-cache", MaxAge: 30 * time.Minute},
			},
		},
		{
			name:    "invalid yaml",
			file:    "broken.yaml",
			content: "name: [unclosed\n",
			wantErr: true,
		},
		{
			name:    "invalid toml",
			file:    "broken.toml",
			content: "name = \n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			if tc.content != "" || tc.file == "empty.yaml" {
				require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
			}

			config, err := LoadConfig(path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, config)
		})
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	require.NoError(t, WriteConfig(path, DefaultConfig()))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestWriteConfigRoundTrip_TOML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".lineconf.toml")

	config := DefaultConfig()
	config.IgnorePaths = []string{"vendor"}
	require.NoError(t, WriteConfig(path, config))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestConfig_Matcher(t *testing.T) {
	t.Parallel()
	match := Config{Extensions: []string{"conf", ".LineConf"}}.Matcher()
	assert.True(t, match("a/b.conf"))
	assert.True(t, match("x.lineconf"))
	assert.True(t, match("X.CONF"))
	assert.False(t, match("a.yaml"))
	assert.False(t, match("conf"))
}

func TestNew_WithCache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	configPath := filepath.Join(dir, DefaultConfigFile)
	cacheDir := filepath.Join(dir, "cache")

	config := DefaultConfig()
	config.Cache.Enabled = true
	config.Cache.Dir = cacheDir
	config.IgnorePaths = []string{"vendor"}
	require.NoError(t, WriteConfig(configPath, config))

	engine, loaded, err := New(configPath, nil)
	require.NoError(t, err)
	require.NotNil(t, engine)
	assert.Equal(t, cacheDir, loaded.Cache.Dir)

	_, err = os.Stat(cacheDir)
	assert.NoError(t, err)
}
