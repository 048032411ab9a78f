package vocab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MigrationReport describes what ReadVocabulary changed while repairing the file.
type MigrationReport struct {
	// Existed is false when there was no file to read.
	Existed bool
	// Converted lists units that were stored in the legacy list layout.
	Converted []string
	// Dropped lists units removed because their value had an unusable shape or
	// no valid words.
	Dropped []string
	// DefaultedCounts is the number of entries that had no repeat_count.
	DefaultedCounts int
	// Warnings holds one line per skipped item, duplicate or normalized key.
	Warnings []string
}

// Changed reports whether repair altered the stored structure.
func (r MigrationReport) Changed() bool {
	return len(r.Converted) > 0 || len(r.Dropped) > 0 || r.DefaultedCounts > 0 || len(r.Warnings) > 0
}

func (r *MigrationReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ReadVocabulary reads and repairs the vocabulary file at path without writing
// anything back. A missing file yields an empty vocabulary. Content that is
// not UTF-8 or not a JSON object yields an error wrapping ErrCorruptData.
func ReadVocabulary(path string) (*Vocabulary, MigrationReport, error) {
	var report MigrationReport
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewVocabulary(), report, nil
		}
		return nil, report, fmt.Errorf("read vocabulary file: %w", err)
	}
	report.Existed = true

	v, err := decodeVocabulary(data, &report)
	if err != nil {
		return nil, report, err
	}
	return v, report, nil
}

type storedEntry struct {
	Meaning     *string         `json:"meaning"`
	RepeatCount json.RawMessage `json:"repeat_count"`
}

type legacyItem struct {
	Word    *string `json:"word"`
	Meaning *string `json:"meaning"`
}

func decodeVocabulary(data []byte, report *MigrationReport) (*Vocabulary, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: file is not valid UTF-8", ErrCorruptData)
	}
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: file is not valid JSON", ErrCorruptData)
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top level is not an object", ErrCorruptData)
	}

	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	v := NewVocabulary()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		name := Normalize(pair.Key)
		if name == "" {
			report.Dropped = append(report.Dropped, pair.Key)
			report.warnf("Unit with blank name removed.")
			continue
		}
		if name != pair.Key {
			report.warnf("Unit '%s' renamed to '%s'.", pair.Key, name)
		}

		var unit *Unit
		switch firstByte(pair.Value) {
		case '{':
			unit = decodeUnit(name, pair.Value, report)
		case '[':
			report.Converted = append(report.Converted, name)
			report.warnf("Unit '%s' is a list. Converting to dictionary format.", name)
			unit = convertLegacyUnit(name, pair.Value, report)
		default:
			report.Dropped = append(report.Dropped, name)
			report.warnf("Unit '%s' is invalid (expected an object), removed.", name)
			continue
		}

		if existing, ok := v.units.Get(name); ok {
			mergeUnit(existing, unit, pair.Key, name, report)
			continue
		}
		if unit.Len() == 0 {
			report.Dropped = append(report.Dropped, name)
			report.warnf("Unit '%s' has no words, removed.", name)
			continue
		}
		v.units.Set(name, unit)
	}
	return v, nil
}

func decodeUnit(name string, data json.RawMessage, report *MigrationReport) *Unit {
	unit := newUnit()
	words := orderedmap.New[string, json.RawMessage]()
	if err := words.UnmarshalJSON(data); err != nil {
		report.warnf("Unit '%s' could not be decoded: %v", name, err)
		return unit
	}
	for pair := words.Oldest(); pair != nil; pair = pair.Next() {
		word := Normalize(pair.Key)
		if word == "" {
			report.warnf("Skipping blank word in unit '%s'.", name)
			continue
		}
		if _, exists := unit.get(word); exists {
			report.warnf("Skipping duplicate word '%s' in unit '%s'.", word, name)
			continue
		}

		var entry storedEntry
		if firstByte(pair.Value) != '{' || json.Unmarshal(pair.Value, &entry) != nil || entry.Meaning == nil {
			report.warnf("Skipping invalid entry '%s' in unit '%s'.", pair.Key, name)
			continue
		}
		if word != pair.Key {
			report.warnf("Word '%s' in unit '%s' renamed to '%s'.", pair.Key, name, word)
		}

		count := decodeRepeatCount(entry.RepeatCount, word, name, report)
		unit.words.Set(word, &WordEntry{Meaning: *entry.Meaning, RepeatCount: count})
	}
	return unit
}

// decodeRepeatCount accepts any whole JSON number. Missing or null counts
// default to 0; negative, fractional or non-numeric counts reset to 0.
func decodeRepeatCount(raw json.RawMessage, word, unit string, report *MigrationReport) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		report.DefaultedCounts++
		return 0
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil || f != math.Trunc(f) || f > math.MaxInt32 {
		report.warnf("Invalid repeat count for '%s' in unit '%s' reset to 0.", word, unit)
		return 0
	}
	if f < 0 {
		report.warnf("Negative repeat count for '%s' in unit '%s' reset to 0.", word, unit)
		return 0
	}
	return int(f)
}

// mergeUnit folds a unit whose name collided after normalization into the one
// already loaded. Words present in both keep the earlier entry.
func mergeUnit(dst, src *Unit, key, name string, report *MigrationReport) {
	report.warnf("Unit '%s' merged into '%s'.", key, name)
	for pair := src.words.Oldest(); pair != nil; pair = pair.Next() {
		if _, exists := dst.get(pair.Key); exists {
			report.warnf("Skipping duplicate word '%s' in unit '%s'.", pair.Key, name)
			continue
		}
		dst.words.Set(pair.Key, pair.Value)
	}
}

func convertLegacyUnit(name string, data json.RawMessage, report *MigrationReport) *Unit {
	unit := newUnit()
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		report.warnf("Unit '%s' could not be decoded: %v", name, err)
		return unit
	}
	for _, raw := range items {
		var item legacyItem
		if firstByte(raw) != '{' || json.Unmarshal(raw, &item) != nil || item.Word == nil || item.Meaning == nil {
			report.warnf("Skipping invalid item in unit '%s': %s", name, string(raw))
			continue
		}
		word := Normalize(*item.Word)
		if word == "" {
			report.warnf("Skipping invalid item in unit '%s': %s", name, string(raw))
			continue
		}
		if _, exists := unit.get(word); exists {
			report.warnf("Skipping duplicate word '%s' in unit '%s'.", word, name)
			continue
		}
		unit.words.Set(word, &WordEntry{Meaning: *item.Meaning})
	}
	return unit
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
