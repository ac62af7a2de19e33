// Package mathstore holds extracted display math keyed by identifier.
//
// A Store is append-only: AppendDisplayMath always succeeds and hands out
// an identifier that has not been used in the store before. A Store has a
// single owner and is not safe for concurrent use.
package mathstore

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

// ErrUnknownID is returned when an identifier has no record.
var ErrUnknownID = errors.New("unknown math identifier")

// Record is one extracted display math expression.
type Record struct {
	// ID is the identifier embedded in the placeholder token.
	ID string `json:"id" yaml:"id"`

	// Source is the raw math text, delimiters included.
	Source string `json:"source" yaml:"source"`
}

// IDGenerator returns a new identifier on every call.
type IDGenerator func() string

// UUIDGenerator returns time-ordered UUIDv7 identifiers.
func UUIDGenerator() IDGenerator {
	return func() string {
		id, err := uuid.NewV7()
		if err != nil {
			// Only fails if the random source fails; fall back to v4.
			return uuid.NewString()
		}
		return id.String()
	}
}

// SequentialGenerator returns prefix0, prefix1, ... for reproducible output.
func SequentialGenerator(prefix string) IDGenerator {
	next := 0
	return func() string {
		id := prefix + strconv.Itoa(next)
		next++
		return id
	}
}

// Store is an append-only table from identifier to math source.
type Store struct {
	generate IDGenerator
	records  []Record
	index    map[string]int
}

// Option configures a Store.
type Option func(*Store)

// WithGenerator sets the identifier generator.
func WithGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.generate = gen
		}
	}
}

// New creates an empty store. Identifiers default to UUIDv7.
func New(opts ...Option) *Store {
	s := &Store{
		generate: UUIDGenerator(),
		index:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppendDisplayMath records source under a fresh identifier and returns it.
func (s *Store) AppendDisplayMath(source string) string {
	id := s.generate()
	if !ValidID(id) {
		id = "m" + strconv.Itoa(len(s.records))
	}
	for base, n := id, 1; s.has(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}

	s.index[id] = len(s.records)
	s.records = append(s.records, Record{ID: id, Source: source})
	return id
}

// Lookup returns the record for id.
func (s *Store) Lookup(id string) (Record, bool) {
	idx, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.records[idx], true
}

// Source returns the math source for id, or ErrUnknownID.
func (s *Store) Source(id string) (string, error) {
	rec, ok := s.Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	return rec.Source, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in the order they were appended.
func (s *Store) Records() []Record {
	return slices.Clone(s.records)
}

// Clone returns an independent copy that shares the identifier generator.
// Identifiers issued by the clone never collide with records already
// present in s.
func (s *Store) Clone() *Store {
	c := &Store{
		generate: s.generate,
		records:  slices.Clone(s.records),
		index:    make(map[string]int, len(s.index)),
	}
	for id, idx := range s.index {
		c.index[id] = idx
	}
	return c
}

func (s *Store) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// add inserts a decoded record, rejecting duplicates and malformed ids.
func (s *Store) add(rec Record) error {
	if !ValidID(rec.ID) {
		return fmt.Errorf("invalid math identifier %q", rec.ID)
	}
	if s.has(rec.ID) {
		return fmt.Errorf("duplicate math identifier %q", rec.ID)
	}
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}
