// Package transfer moves vocabulary between the store and standalone JSON or
// YAML files.
package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/vocab/internal/vocab"
	"gopkg.in/yaml.v3"
)

// Record is a single imported word.
type Record struct {
	Unit        string
	Word        string
	Meaning     string
	RepeatCount int
}

// ValidationResult represents the outcome of reading an import file.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

func (r *ValidationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported format: %s (use .json or .yaml)", ext)
	}
}

// Export writes v to path. A .json file uses the store's own layout, a
// .yaml or .yml file the same units and words as an ordered mapping.
func Export(v *vocab.Vocabulary, path string) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatJSON:
		data, err = v.Encode()
	case formatYAML:
		data, err = encodeYAML(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func encodeYAML(v *vocab.Vocabulary) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range v.Units() {
		unit, _ := v.Unit(name)
		words := &yaml.Node{Kind: yaml.MappingNode}
		for _, w := range unit.Words() {
			entry := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
				scalar("meaning"), scalar(w.Meaning),
				scalar("repeat_count"), {Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(w.RepeatCount)},
			}}
			words.Content = append(words.Content, scalar(w.Word), entry)
		}
		root.Content = append(root.Content, scalar(name), words)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads an import file into ordered records. Units may map words to
// entries, map words directly to meanings, or list {word, meaning} items.
// Unusable items are reported as warnings and skipped; the result is only
// invalid when the file holds no usable word at all.
func Load(path string) ([]Record, ValidationResult, error) {
	res := ValidationResult{Warnings: []string{}, Errors: []string{}}

	f, err := formatOf(path)
	if err != nil {
		return nil, res, err
	}

	var records []Record
	switch f {
	case formatJSON:
		records, err = loadJSON(path, &res)
	case formatYAML:
		records, err = loadYAML(path, &res)
	}
	if err != nil {
		return nil, res, err
	}

	if len(records) == 0 {
		res.Errors = append(res.Errors, "No words found in import file")
	}
	res.Valid = len(res.Errors) == 0
	return records, res, nil
}

func loadJSON(path string, res *ValidationResult) ([]Record, error) {
	v, report, err := vocab.ReadVocabulary(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	if !report.Existed {
		return nil, fmt.Errorf("failed to read import file: %w", os.ErrNotExist)
	}
	res.Warnings = append(res.Warnings, report.Warnings...)

	var records []Record
	for _, name := range v.Units() {
		unit, _ := v.Unit(name)
		for _, w := range unit.Words() {
			records = append(records, Record{Unit: name, Word: w.Word, Meaning: w.Meaning, RepeatCount: w.RepeatCount})
		}
	}
	return records, nil
}

type yamlEntry struct {
	Word        string `yaml:"word"`
	Meaning     string `yaml:"meaning"`
	RepeatCount int    `yaml:"repeat_count"`
}

func loadYAML(path string, res *ValidationResult) ([]Record, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML import: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("import file must map unit names to words")
	}

	seen := make(map[[2]string]bool)
	var records []Record
	add := func(unit string, e yamlEntry, line int) {
		word := vocab.Normalize(e.Word)
		switch {
		case word == "":
			res.warnf("line %d: word in %s is empty, skipped", line, unit)
			return
		case strings.TrimSpace(e.Meaning) == "":
			res.warnf("line %d: '%s' in %s has no meaning, skipped", line, word, unit)
			return
		case seen[[2]string{unit, word}]:
			res.warnf("line %d: duplicate word '%s' in %s, skipped", line, word, unit)
			return
		}
		if e.RepeatCount < 0 {
			e.RepeatCount = 0
		}
		seen[[2]string{unit, word}] = true
		records = append(records, Record{Unit: unit, Word: word, Meaning: e.Meaning, RepeatCount: e.RepeatCount})
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, body := root.Content[i], root.Content[i+1]
		unit := vocab.Normalize(keyNode.Value)
		if unit == "" {
			res.warnf("line %d: empty unit name, skipped", keyNode.Line)
			continue
		}

		switch body.Kind {
		case yaml.MappingNode:
			for j := 0; j+1 < len(body.Content); j += 2 {
				wordNode, value := body.Content[j], body.Content[j+1]
				e := yamlEntry{Word: wordNode.Value}
				switch value.Kind {
				case yaml.ScalarNode:
					e.Meaning = value.Value
				case yaml.MappingNode:
					if err := value.Decode(&e); err != nil {
						res.warnf("line %d: invalid entry for '%s': %v", value.Line, wordNode.Value, err)
						continue
					}
					e.Word = wordNode.Value
				default:
					res.warnf("line %d: invalid entry for '%s', skipped", value.Line, wordNode.Value)
					continue
				}
				add(unit, e, wordNode.Line)
			}
		case yaml.SequenceNode:
			for _, item := range body.Content {
				var e yamlEntry
				if item.Kind != yaml.MappingNode || item.Decode(&e) != nil {
					res.warnf("line %d: list items in %s must have word and meaning, skipped", item.Line, unit)
					continue
				}
				add(unit, e, item.Line)
			}
		default:
			res.warnf("line %d: unit %s is not a mapping or list, skipped", body.Line, unit)
		}
	}
	return records, nil
}

// Apply adds records to s in order. Words that already exist are counted as
// skipped and left untouched; any other failure stops the import.
func Apply(s *vocab.Store, records []Record) (added, skipped int, err error) {
	for _, r := range records {
		if err := s.AddWord(r.Unit, r.Word, r.Meaning); err != nil {
			if errors.Is(err, vocab.ErrConflict) || errors.Is(err, vocab.ErrValidation) {
				skipped++
				continue
			}
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}
