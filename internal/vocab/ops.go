package vocab

import "fmt"

// Confirmer asks the user to approve a destructive change.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// AssumeYes approves every prompt.
var AssumeYes Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

// AddWord inserts word with meaning into unit, creating the unit if needed.
func (s *Store) AddWord(unit, word, meaning string) error {
	unit, word, meaning = Normalize(unit), Normalize(word), Normalize(meaning)
	if unit == "" || word == "" || meaning == "" {
		return fmt.Errorf("%w: unit, word, and meaning cannot be empty", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.vocab.units.Get(unit)
	if ok {
		if _, exists := u.get(word); exists {
			return fmt.Errorf("%w: word '%s' already exists in %s", ErrConflict, word, unit)
		}
	} else {
		u = newUnit()
		s.vocab.units.Set(unit, u)
	}
	u.words.Set(word, &WordEntry{Meaning: meaning})
	return s.persist()
}

// DeleteWord removes word from unit once c approves it. A unit left without
// words is removed as well. Declining returns ErrCanceled.
func (s *Store) DeleteWord(unit, word string, c Confirmer) error {
	unit, word = Normalize(unit), Normalize(word)
	if unit == "" || word == "" {
		return fmt.Errorf("%w: unit and word cannot be empty", ErrValidation)
	}

	s.mu.Lock()
	_, err := s.lookupLocked(unit, word)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	// The lock is not held while confirming; c may read the store.
	if c == nil {
		c = AssumeYes
	}
	ok, err := c.Confirm(fmt.Sprintf("Delete '%s' from %s? (y/n): ", word, unit))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("deletion %w", ErrCanceled)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.lookupLocked(unit, word)
	if err != nil {
		return err
	}
	u.words.Delete(word)
	if u.Len() == 0 {
		s.vocab.units.Delete(unit)
	}
	return s.persist()
}

// UpdateWord renames oldWord and/or replaces its meaning. A rename keeps the
// repeat count and moves the entry to the end of the unit. Renaming onto a
// different existing word fails with ErrConflict and changes nothing.
func (s *Store) UpdateWord(unit, oldWord string, newWord, newMeaning Field) error {
	unit, oldWord = Normalize(unit), Normalize(oldWord)
	if unit == "" || oldWord == "" {
		return fmt.Errorf("%w: unit and word cannot be empty", ErrValidation)
	}
	renameTo, rename := newWord.Value()
	if rename {
		renameTo = Normalize(renameTo)
		if renameTo == "" {
			return fmt.Errorf("%w: new word cannot be empty", ErrValidation)
		}
	}
	meaning, replace := newMeaning.Value()
	if replace {
		meaning = Normalize(meaning)
		if meaning == "" {
			return fmt.Errorf("%w: new meaning cannot be empty", ErrValidation)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.lookupLocked(unit, oldWord)
	if err != nil {
		return err
	}
	if rename && renameTo != oldWord {
		if _, exists := u.get(renameTo); exists {
			return fmt.Errorf("%w: word '%s' already exists in %s", ErrConflict, renameTo, unit)
		}
	}

	key := oldWord
	if rename && renameTo != oldWord {
		entry, _ := u.words.Delete(oldWord)
		u.words.Set(renameTo, entry)
		key = renameTo
	}
	if replace {
		entry, _ := u.get(key)
		entry.Meaning = meaning
	}
	return s.persist()
}

// IncrementRepeatCount adds one to the repeat count of word. Missing units or
// words yield ErrNotFound and nothing is created.
func (s *Store) IncrementRepeatCount(unit, word string) error {
	unit, word = Normalize(unit), Normalize(word)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.vocab.units.Get(unit)
	if !ok {
		return fmt.Errorf("%w: unit '%s'", ErrNotFound, unit)
	}
	entry, ok := u.get(word)
	if !ok {
		return fmt.Errorf("%w: word '%s' in %s", ErrNotFound, word, unit)
	}
	entry.RepeatCount++
	return s.persist()
}

func (s *Store) lookupLocked(unit, word string) (*Unit, error) {
	u, ok := s.vocab.units.Get(unit)
	if !ok {
		return nil, fmt.Errorf("%w: unit '%s' does not exist", ErrNotFound, unit)
	}
	if _, ok := u.get(word); !ok {
		return nil, fmt.Errorf("%w: word '%s' not found in %s", ErrNotFound, word, unit)
	}
	return u, nil
}
