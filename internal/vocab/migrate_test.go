package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/vocab/internal/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVocabFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadVocabulary_LegacyList(t *testing.T) {
	path := writeVocabFile(t, `{"legacy": [{"word": "Ken", "meaning": "Yes"}, {"word": "ken", "meaning": "dup"}]}`)

	v, report, err := ReadVocabulary(path)
	require.NoError(t, err)

	assert.True(t, report.Existed)
	assert.Equal(t, []string{"legacy"}, report.Converted)
	assert.True(t, report.Changed())
	u, ok := v.Unit("legacy")
	require.True(t, ok)
	assert.Equal(t, []Word{{Word: "ken", Meaning: "Yes", RepeatCount: 0}}, u.Words())

	// ReadVocabulary never writes.
	assert.Equal(t, `{"legacy": [{"word": "Ken", "meaning": "Yes"}, {"word": "ken", "meaning": "dup"}]}`, readFile(t, path))
}

func TestLoadAndMigrate_RewritesLegacyList(t *testing.T) {
	path := writeVocabFile(t, `{"legacy": [{"word": "Ken", "meaning": "Yes"}, {"word": "ken", "meaning": "dup"}]}`)

	s, err := Open(path, WithObserver(observe.Discard()))
	require.NoError(t, err)

	entry, ok := s.Lookup("legacy", "ken")
	require.True(t, ok)
	assert.Equal(t, WordEntry{Meaning: "Yes"}, entry)

	want := "{\n    \"legacy\": {\n        \"ken\": {\n            \"meaning\": \"Yes\",\n            \"repeat_count\": 0\n        }\n    }\n}\n"
	assert.Equal(t, want, readFile(t, path))

	_, report, err := ReadVocabulary(path)
	require.NoError(t, err)
	assert.False(t, report.Changed(), "second load must see the migrated layout")
}

func TestReadVocabulary_LegacyInvalidItems(t *testing.T) {
	path := writeVocabFile(t, `{"legacy": [
		{"word": "ken"},
		{"meaning": "orphan"},
		"just a string",
		{"word": 7, "meaning": "number"},
		{"word": "  ", "meaning": "blank"},
		{"word": "Lo", "meaning": "No"}
	]}`)

	v, report, err := ReadVocabulary(path)
	require.NoError(t, err)

	u, ok := v.Unit("legacy")
	require.True(t, ok)
	assert.Equal(t, []Word{{Word: "lo", Meaning: "No"}}, u.Words())
	assert.GreaterOrEqual(t, len(report.Warnings), 5)
}

func TestReadVocabulary_MapRepairs(t *testing.T) {
	path := writeVocabFile(t, `{
		"Unit1": {
			"Shalom": {"meaning": "hello"},
			"ken": {"meaning": "yes", "repeat_count": 4},
			"lo": {"meaning": "no", "repeat_count": -2},
			"broken": "not an entry",
			"nomeaning": {"repeat_count": 1},
			"todah": {"meaning": "thanks", "repeat_count": 2.0},
			"bevakasha": {"meaning": "please", "repeat_count": "3"},
			"boker": {"meaning": "morning", "repeat_count": 1e2},
			"erev": {"meaning": "evening", "repeat_count": 1.5},
			"layla": {"meaning": "night", "repeat_count": null}
		},
		"scalar": 42,
		"nothing": null,
		"empty": {},
		"emptylist": []
	}`)

	v, report, err := ReadVocabulary(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"unit1"}, v.Units())
	u, _ := v.Unit("unit1")
	assert.Equal(t, []Word{
		{Word: "shalom", Meaning: "hello", RepeatCount: 0},
		{Word: "ken", Meaning: "yes", RepeatCount: 4},
		{Word: "lo", Meaning: "no", RepeatCount: 0},
		{Word: "todah", Meaning: "thanks", RepeatCount: 2},
		{Word: "bevakasha", Meaning: "please", RepeatCount: 0},
		{Word: "boker", Meaning: "morning", RepeatCount: 100},
		{Word: "erev", Meaning: "evening", RepeatCount: 0},
		{Word: "layla", Meaning: "night", RepeatCount: 0},
	}, u.Words())
	assert.Equal(t, 2, report.DefaultedCounts)
	assert.ElementsMatch(t, []string{"scalar", "nothing", "empty", "emptylist"}, report.Dropped)
	assert.Equal(t, []string{"emptylist"}, report.Converted)
}

func TestLoadAndMigrate_KeepsWordsWithOddCounts(t *testing.T) {
	path := writeVocabFile(t, `{"unit1": {
		"shalom": {"meaning": "hello", "repeat_count": 2.0},
		"ken": {"meaning": "yes", "repeat_count": "3"},
		"lo": {"meaning": "no", "repeat_count": 1}
	}}`)

	s, err := Open(path, WithObserver(observe.Discard()))
	require.NoError(t, err)

	assert.Equal(t, []Word{
		{Word: "shalom", Meaning: "hello", RepeatCount: 2},
		{Word: "ken", Meaning: "yes", RepeatCount: 0},
		{Word: "lo", Meaning: "no", RepeatCount: 1},
	}, s.GetWords("unit1"))

	saved := readFile(t, path)
	for _, word := range []string{`"shalom"`, `"ken"`, `"lo"`} {
		assert.Contains(t, saved, word)
	}
}

func TestReadVocabulary_MergesCollidingUnits(t *testing.T) {
	path := writeVocabFile(t, `{
		"Unit1": {"shalom": {"meaning": "hello", "repeat_count": 1}},
		"unit1 ": {"shalom": {"meaning": "other", "repeat_count": 5}, "ken": {"meaning": "yes", "repeat_count": 2}},
		" UNIT1": [{"word": "lo", "meaning": "no"}]
	}`)

	v, report, err := ReadVocabulary(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"unit1"}, v.Units())
	u, _ := v.Unit("unit1")
	assert.Equal(t, []Word{
		{Word: "shalom", Meaning: "hello", RepeatCount: 1},
		{Word: "ken", Meaning: "yes", RepeatCount: 2},
		{Word: "lo", Meaning: "no", RepeatCount: 0},
	}, u.Words())
	assert.Empty(t, report.Dropped)
	assert.Contains(t, report.Warnings, "Unit 'unit1 ' merged into 'unit1'.")
}

func TestReadVocabulary_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"unit1": {`,
		"array":         `[1, 2, 3]`,
		"null":          `null`,
		"empty":         ``,
		"invalid utf-8": "{\"unit1\": \"\xff\xfe\"}",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeVocabFile(t, content)
			_, _, err := ReadVocabulary(path)
			assert.ErrorIs(t, err, ErrCorruptData)
		})
	}
}

func TestLoadAndMigrate_CorruptFileIsReset(t *testing.T) {
	path := writeVocabFile(t, `{"unit1": {"shalom": `)

	s, err := Open(path, WithObserver(observe.Discard()))
	require.NoError(t, err)

	assert.Empty(t, s.Units())
	assert.Equal(t, "{}\n", readFile(t, path))
}

func TestLoadAndMigrate_Reload(t *testing.T) {
	path := writeVocabFile(t, `{"unit1": {"shalom": {"meaning": "hello", "repeat_count": 1}}}`)
	s, err := Open(path, WithObserver(observe.Discard()))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"unit2": {"ken": {"meaning": "yes", "repeat_count": 0}}}`), 0600))
	require.NoError(t, s.LoadAndMigrate())

	assert.Equal(t, []string{"unit2"}, s.Units())
}
