package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MMCONV_CONFIG", "MMCONV_OUT_DIR", "MMCONV_LOG_LEVEL", "MMCONV_JSON_LOG"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.OutputDir))
	assert.Equal(t, "MultipleMaids Converter", filepath.Base(cfg.OutputDir))
	assert.Equal(t, "MultipleMaids.ini", cfg.RegistryName)
	assert.Equal(t, ".png", cfg.ContainerExt)
	assert.Equal(t, 100, cfg.SceneRound)
	assert.Equal(t, 10, cfg.AmbientRound)
	assert.Equal(t, 20, cfg.AmbientMin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.JSONLog)

	assert.Equal(t, filepath.Join(cfg.OutputDir, "scene"), cfg.SceneOutputDir())
	assert.Equal(t, filepath.Join(cfg.OutputDir, "kankyo"), cfg.AmbientOutputDir())
	assert.Equal(t, filepath.Join(cfg.OutputDir, "MultipleMaids.ini"), cfg.RegistryPath())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mmconvert.toml")

	content := `
output_dir = "` + filepath.ToSlash(filepath.Join(dir, "out")) + `"
container_ext = "PNG"
scene_round = 50
log_level = "DEBUG"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.Equal(t, ".png", cfg.ContainerExt)
	assert.Equal(t, 50, cfg.SceneRound)
	assert.Equal(t, 10, cfg.AmbientRound, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mmconvert.toml")
	require.NoError(t, os.WriteFile(path, []byte("ambient_min = 30\n"), 0o644))

	t.Setenv("MMCONV_CONFIG", path)
	t.Setenv("MMCONV_OUT_DIR", filepath.Join(dir, "env-out"))
	t.Setenv("MMCONV_LOG_LEVEL", "warn")
	t.Setenv("MMCONV_JSON_LOG", "1")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.AmbientMin)
	assert.Equal(t, filepath.Join(dir, "env-out"), cfg.OutputDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.JSONLog)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour = \"blue\"\n"},
		{"bad toml", "scene_round = = 1\n"},
		{"zero rounding", "scene_round = 0\n"},
		{"same dirs", "scene_dir = \"x\"\nambient_dir = \"x\"\n"},
		{"bad level", "log_level = \"loud\"\n"},
		{"nested registry", "registry_name = \"a/b.ini\"\n"},
		{"negative floor", "ambient_min = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
