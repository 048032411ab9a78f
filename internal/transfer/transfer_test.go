package transfer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/vocab/internal/observe"
	"github.com/felixgeelhaar/vocab/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *vocab.Store {
	t.Helper()
	s, err := vocab.Open(filepath.Join(t.TempDir(), "vocab.json"), vocab.WithObserver(observe.Discard()))
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func seeded(t *testing.T) *vocab.Store {
	t.Helper()
	s := newStore(t)
	require.NoError(t, s.AddWord("unit1", "shalom", "hello"))
	require.NoError(t, s.AddWord("unit1", "ken", "yes"))
	require.NoError(t, s.AddWord("unit2", "lo", "no"))
	require.NoError(t, s.IncrementRepeatCount("unit1", "ken"))
	return s
}

func TestExport_JSONMatchesStoreFile(t *testing.T) {
	s := seeded(t)
	path := filepath.Join(t.TempDir(), "out", "export.json")

	require.NoError(t, Export(s.Snapshot(), path))

	exported, err := os.ReadFile(path)
	require.NoError(t, err)
	stored, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, string(stored), string(exported))
}

func TestExport_YAML(t *testing.T) {
	s := seeded(t)
	path := filepath.Join(t.TempDir(), "export.yaml")

	require.NoError(t, Export(s.Snapshot(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `unit1:
  shalom:
    meaning: hello
    repeat_count: 0
  ken:
    meaning: "yes"
    repeat_count: 1
unit2:
  lo:
    meaning: "no"
    repeat_count: 0
`
	assert.Equal(t, want, string(data))
}

func TestExport_UnsupportedFormat(t *testing.T) {
	err := Export(vocab.NewVocabulary(), filepath.Join(t.TempDir(), "out.txt"))
	assert.Error(t, err)
}

func TestLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"export.json", "export.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Export(seeded(t).Snapshot(), path))

			records, res, err := Load(path)
			require.NoError(t, err)
			assert.True(t, res.Valid)
			assert.Empty(t, res.Warnings)
			assert.Equal(t, []Record{
				{Unit: "unit1", Word: "shalom", Meaning: "hello"},
				{Unit: "unit1", Word: "ken", Meaning: "yes", RepeatCount: 1},
				{Unit: "unit2", Word: "lo", Meaning: "no"},
			}, records)
		})
	}
}

func TestLoad_YAMLShapes(t *testing.T) {
	path := writeFile(t, "words.yaml", `
Greetings:
  Shalom: hello
  boker tov:
    meaning: good morning
    repeat_count: -3
  ShaLom: duplicate
  empty:
    repeat_count: 2
Legacy:
  - word: Ken
    meaning: "yes"
  - just a string
  - word: ""
    meaning: blank
scalar: 5
`)

	records, res, err := Load(path)
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Equal(t, []Record{
		{Unit: "greetings", Word: "shalom", Meaning: "hello"},
		{Unit: "greetings", Word: "boker tov", Meaning: "good morning"},
		{Unit: "legacy", Word: "ken", Meaning: "yes"},
	}, records)
	assert.Len(t, res.Warnings, 5)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		_, res, err := Load(writeFile(t, "empty.yaml", ""))
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.NotEmpty(t, res.Errors)
	})

	t.Run("top level list", func(t *testing.T) {
		_, _, err := Load(writeFile(t, "list.yaml", "- a\n- b\n"))
		assert.Error(t, err)
	})

	t.Run("corrupt json", func(t *testing.T) {
		_, _, err := Load(writeFile(t, "bad.json", `{"unit1": `))
		assert.ErrorIs(t, err, vocab.ErrCorruptData)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, _, err := Load(writeFile(t, "words.txt", "shalom"))
		assert.Error(t, err)
	})
}

func TestApply(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddWord("unit1", "ken", "yes"))

	added, skipped, err := Apply(s, []Record{
		{Unit: "unit1", Word: "shalom", Meaning: "hello"},
		{Unit: "unit1", Word: "ken", Meaning: "changed"},
		{Unit: "unit2", Word: "lo", Meaning: "no"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, added)
	assert.Equal(t, 1, skipped)
	entry, ok := s.Lookup("unit1", "ken")
	require.True(t, ok)
	assert.Equal(t, "yes", entry.Meaning)
	assert.Equal(t, []string{"unit1", "unit2"}, s.Units())
}
