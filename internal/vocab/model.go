// Package vocab implements the vocabulary store: units of word/meaning pairs
// kept in memory, persisted to a single JSON file after every mutation, and
// repaired when the file holds an older or malformed layout.
package vocab

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// WordEntry is the stored state of a single word.
type WordEntry struct {
	Meaning     string `json:"meaning"`
	RepeatCount int    `json:"repeat_count"`
}

// Word is a WordEntry together with its key, as returned by queries.
type Word struct {
	Word        string
	Meaning     string
	RepeatCount int
}

// Unit is an insertion-ordered set of words.
type Unit struct {
	words *orderedmap.OrderedMap[string, *WordEntry]
}

func newUnit() *Unit {
	return &Unit{words: orderedmap.New[string, *WordEntry]()}
}

// Len returns the number of words in the unit.
func (u *Unit) Len() int {
	return u.words.Len()
}

// Words returns a copy of the unit's entries in insertion order.
func (u *Unit) Words() []Word {
	out := make([]Word, 0, u.words.Len())
	for pair := u.words.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Word{
			Word:        pair.Key,
			Meaning:     pair.Value.Meaning,
			RepeatCount: pair.Value.RepeatCount,
		})
	}
	return out
}

func (u *Unit) get(word string) (*WordEntry, bool) {
	return u.words.Get(word)
}

// MarshalJSON writes the unit as a JSON object keyed by word, in insertion order.
func (u *Unit) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := u.words.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := appendJSON(&buf, pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := appendJSON(&buf, pair.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Vocabulary maps unit names to units, preserving insertion order.
type Vocabulary struct {
	units *orderedmap.OrderedMap[string, *Unit]
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{units: orderedmap.New[string, *Unit]()}
}

// Units returns unit names in insertion order.
func (v *Vocabulary) Units() []string {
	names := make([]string, 0, v.units.Len())
	for pair := v.units.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Unit returns the named unit. The name is normalized first.
func (v *Vocabulary) Unit(name string) (*Unit, bool) {
	return v.units.Get(Normalize(name))
}

// Len returns the number of units.
func (v *Vocabulary) Len() int {
	return v.units.Len()
}

// MarshalJSON writes the vocabulary as a JSON object keyed by unit name.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := v.units.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := appendJSON(&buf, pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		raw, err := pair.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders the vocabulary in its on-disk form: indented with four
// spaces, non-ASCII and HTML characters written verbatim, newline terminated.
func (v *Vocabulary) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Field is an optional update: either Unchanged or SetTo a new value.
type Field struct {
	value string
	set   bool
}

// Unchanged leaves the current value in place.
func Unchanged() Field {
	return Field{}
}

// SetTo replaces the current value with v.
func SetTo(v string) Field {
	return Field{value: v, set: true}
}

// Value returns the new value and whether one was provided.
func (f Field) Value() (string, bool) {
	return f.value, f.set
}
