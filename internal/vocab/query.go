package vocab

import (
	"fmt"
	"io"

	"github.com/bmatcuk/doublestar/v4"
)

// Units returns every unit name in insertion order.
func (s *Store) Units() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vocab.Units()
}

// GetWords returns the words of unit in insertion order, or nil when the unit
// does not exist.
func (s *Store) GetWords(unit string) []Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.vocab.Unit(unit)
	if !ok {
		return nil
	}
	return u.Words()
}

// Lookup returns the entry for word in unit.
func (s *Store) Lookup(unit, word string) (WordEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.vocab.Unit(unit)
	if !ok {
		return WordEntry{}, false
	}
	entry, ok := u.get(Normalize(word))
	if !ok {
		return WordEntry{}, false
	}
	return *entry, true
}

// ListWords writes every word of unit with its meaning and repeat count.
func (s *Store) ListWords(unit string, w io.Writer) error {
	unit = Normalize(unit)
	if unit == "" {
		return fmt.Errorf("%w: unit cannot be empty", ErrValidation)
	}
	words := s.GetWords(unit)
	if words == nil {
		return fmt.Errorf("%w: unit '%s' does not exist", ErrNotFound, unit)
	}

	fmt.Fprintf(w, "\nWords in %s:\n", unit)
	for _, word := range words {
		fmt.Fprintf(w, "%s: %s (Repeated: %d times)\n", word.Word, word.Meaning, word.RepeatCount)
	}
	return nil
}

// MatchUnits returns the unit names matching a doublestar glob, in insertion
// order. An empty pattern matches everything.
func (s *Store) MatchUnits(pattern string) ([]string, error) {
	pattern = Normalize(pattern)
	units := s.Units()
	if pattern == "" {
		return units, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: invalid unit pattern %q", ErrValidation, pattern)
	}

	var matched []string
	for _, name := range units {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("match unit %q: %w", name, err)
		}
		if ok {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

// Snapshot returns a deep copy of the current vocabulary.
func (s *Store) Snapshot() *Vocabulary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := NewVocabulary()
	for pair := s.vocab.units.Oldest(); pair != nil; pair = pair.Next() {
		u := newUnit()
		for w := pair.Value.words.Oldest(); w != nil; w = w.Next() {
			entry := *w.Value
			u.words.Set(w.Key, &entry)
		}
		out.units.Set(pair.Key, u)
	}
	return out
}
