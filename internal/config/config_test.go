package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "vocab_hebrew.json", filepath.Base(cfg.VocabFile))
	assert.Equal(t, "history.db", filepath.Base(cfg.HistoryDB))
	assert.Equal(t, 7, cfg.Drill.MaxExposures)
	assert.Equal(t, 7, cfg.Drill.Rounds)
	assert.Equal(t, 3*time.Second, cfg.Drill.RevealDelay)
	assert.False(t, cfg.StrictPersistence)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
vocab_file: /tmp/words.json
strict_persistence: true
log:
  verbose: true
drill:
  rounds: 3
  reveal_delay: 500ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/words.json", cfg.VocabFile)
	assert.True(t, cfg.StrictPersistence)
	assert.True(t, cfg.Log.Verbose)
	assert.Equal(t, 3, cfg.Drill.Rounds)
	assert.Equal(t, 7, cfg.Drill.MaxExposures)
	assert.Equal(t, 500*time.Millisecond, cfg.Policy().RevealDelay)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "drill:\n  rounds: 3\n")
	t.Setenv("VOCAB_DRILL_ROUNDS", "5")
	t.Setenv("VOCAB_VOCAB_FILE", "/tmp/env.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Drill.Rounds)
	assert.Equal(t, "/tmp/env.json", cfg.VocabFile)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(writeConfig(t, "vocab_file: ~/words.json\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "words.json"), cfg.VocabFile)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero rounds":    "drill:\n  rounds: 0\n",
		"negative delay": "drill:\n  reveal_delay: -1s\n",
		"blank file":     "vocab_file: \"  \"\n",
		"broken yaml":    "drill: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestWriteValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteValue(path, "drill.rounds", "4"))
	require.NoError(t, WriteValue(path, "Drill.Reveal_Delay", "2s"))
	require.NoError(t, WriteValue(path, "menu.plain", "true"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Drill.Rounds)
	assert.Equal(t, 2*time.Second, cfg.Drill.RevealDelay)
	assert.True(t, cfg.Menu.Plain)
}

func TestWriteValue_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	assert.Error(t, WriteValue(path, "nope", "1"))
	assert.Error(t, WriteValue(path, "drill.rounds", "many"))
	assert.Error(t, WriteValue(path, "drill.rounds", "0"))
	assert.Error(t, WriteValue(path, "drill.reveal_delay", "-3s"))
	assert.Error(t, WriteValue(path, "log.json", "maybe"))
	assert.Error(t, WriteValue(path, "vocab_file", " "))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "rejected values must not create the file")
}

func TestDrillConfig_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(DefaultConfig().Drill)
	require.NoError(t, err)
	assert.Equal(t, "max_exposures: 7\nrounds: 7\nreveal_delay: 3s\n", string(out))
}
