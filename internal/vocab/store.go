package vocab

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/vocab/internal/observe"
)

// Store owns the vocabulary and the file it is persisted to. Every mutating
// method writes the whole vocabulary back before returning.
type Store struct {
	mu     sync.Mutex
	path   string
	vocab  *Vocabulary
	obs    *observe.Observer
	strict bool
}

// Option configures a Store.
type Option func(*Store)

// WithObserver routes repair warnings and save failures to o.
func WithObserver(o *observe.Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.obs = o
		}
	}
}

// WithStrictPersistence makes mutations fail with ErrPersistence when the file
// cannot be written. By default save failures are logged and the mutation
// still succeeds.
func WithStrictPersistence(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// New returns a Store for path holding an empty vocabulary. Nothing is read
// until LoadAndMigrate is called; most callers want Open.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:  path,
		vocab: NewVocabulary(),
		obs:   observe.New(os.Stderr, false),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Store for path and loads it, repairing and rewriting the
// file when needed.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(path, opts...)
	if err := s.LoadAndMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the vocabulary file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAndMigrate replaces the in-memory vocabulary with the repaired content
// of the file and persists the repaired form. Undecodable content is
// discarded: the store resets to empty and overwrites the file.
func (s *Store) LoadAndMigrate() error {
	_, span := s.obs.StartSpan(context.Background(), "vocab.LoadAndMigrate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	v, report, err := ReadVocabulary(s.path)
	if errors.Is(err, ErrCorruptData) {
		s.obs.Log().Error().Err(err).Str("file", s.path).Msg("Error reading vocab file. Resetting to empty vocabulary.")
		s.vocab = NewVocabulary()
		return s.persist()
	}
	if err != nil {
		return err
	}

	s.vocab = v
	if !report.Existed {
		return nil
	}
	for _, w := range report.Warnings {
		s.obs.Log().Warn().Str("file", s.path).Msg(w)
	}
	if report.Changed() {
		s.obs.Log().Info().
			Int("converted", len(report.Converted)).
			Int("dropped", len(report.Dropped)).
			Int("defaulted", report.DefaultedCounts).
			Msg("vocabulary repaired")
	}
	return s.persist()
}

// Save writes the vocabulary to disk. Unlike the implicit saves performed by
// mutations, the error is always returned.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(); err != nil {
		s.obs.Log().Error().Err(err).Str("file", s.path).Msg("Error saving vocab file")
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// persist is called with mu held after every mutation.
func (s *Store) persist() error {
	err := s.write()
	if err == nil {
		return nil
	}
	s.obs.Log().Error().Err(err).Str("file", s.path).Msg("Error saving vocab file")
	if s.strict {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// write replaces the file through a temp file and rename so a crash never
// leaves a half-written vocabulary behind.
func (s *Store) write() error {
	_, span := s.obs.StartSpan(context.Background(), "vocab.save")
	defer span.End()

	data, err := s.vocab.Encode()
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create vocabulary directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace vocabulary file: %w", err)
	}
	return nil
}
