package constants

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Reader is the read-only view handed to consumers of the table.
type Reader interface {
	Get() (Table, error)
}

// Store owns one Table and publishes it exactly once.
// Init is serialized; Get never blocks.
type Store struct {
	schema Schema
	mu     sync.Mutex
	table  atomic.Pointer[Table]
}

// NewStore returns an uninitialized store that resolves values with schema.
func NewStore(schema Schema) *Store {
	return &Store{schema: schema}
}

// Schema returns the schema the store resolves with.
func (s *Store) Schema() Schema {
	out := make(Schema, len(s.schema))
	copy(out, s.schema)
	return out
}

// Init resolves every constant from src and publishes the table.
// Every problem found is reported in the returned error; on failure nothing
// is published and Init may be called again. Once the store is ready,
// further calls fail with ErrAlreadyInitialized.
func (s *Store) Init(src Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table.Load() != nil {
		return ErrAlreadyInitialized
	}
	t, err := Resolve(s.schema, src)
	if err != nil {
		return err
	}
	s.table.Store(&t)
	return nil
}

// Get returns a copy of the published table, or ErrNotInitialized.
func (s *Store) Get() (Table, error) {
	t := s.table.Load()
	if t == nil {
		return Table{}, ErrNotInitialized
	}
	return *t, nil
}

// MustGet is Get for callers whose startup already guarantees Init ran.
// It panics when the store is not ready.
func (s *Store) MustGet() Table {
	t, err := s.Get()
	if err != nil {
		panic(err)
	}
	return t
}

// Ready reports whether Init has succeeded.
func (s *Store) Ready() bool {
	return s.table.Load() != nil
}

// Resolve builds a table from src, falling back to schema defaults.
func Resolve(schema Schema, src Source) (Table, error) {
	if err := schema.Validate(); err != nil {
		return Table{}, err
	}
	if src == nil {
		src = Values(nil)
	}

	var (
		t    Table
		errs []error
	)
	for _, name := range names {
		f, _ := schema.Lookup(name)
		raw, ok := src.Lookup(name)
		if !ok {
			if !f.HasDefault {
				errs = append(errs, missing(name))
				continue
			}
			t.set(name, f.Default)
			continue
		}
		v, err := toFloat(raw)
		if err == nil {
			err = checkValue(v)
		}
		if err != nil {
			errs = append(errs, invalid(name, raw, err))
			continue
		}
		t.set(name, v)
	}
	if len(errs) > 0 {
		return Table{}, errors.Join(errs...)
	}
	return t, nil
}

var process = NewStore(DefaultSchema())

// Default returns the process-wide store.
func Default() *Store { return process }

// Init initializes the process-wide store.
func Init(src Source) error { return process.Init(src) }

// Get reads the process-wide table.
func Get() (Table, error) { return process.Get() }

// MustGet reads the process-wide table and panics if it is not ready.
func MustGet() Table { return process.MustGet() }

// Ready reports whether the process-wide store has been initialized.
func Ready() bool { return process.Ready() }
