package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/binfmt"
	ioutils "github.com/handiism/concert-manager/internal/io"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("not found")

// ID is the constraint for entity identifiers.
type ID interface {
	~int
}

// Codec adapts an entity type to the store.
type Codec[T any, K ID] interface {
	// Kind names the entity type in the file header.
	Kind() string

	// Version is the schema version written to new files.
	Version() uint16

	// ID returns the identifier of e.
	ID(e *T) K

	// SetID assigns the identifier of e.
	SetID(e *T, id K)

	// Encode writes every persisted field of e.
	Encode(enc *binfmt.Encoder, e *T)

	// Decode reads one record written with the given schema version.
	Decode(dec *binfmt.Decoder, version uint16) (*T, error)
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Store is an in-memory collection of records backed by one file.
type Store[T any, K ID] struct {
	path   string
	codec  Codec[T, K]
	logger *zap.Logger
	items  []*T
}

// Open creates a Store for path and loads its records.
//
// A file that cannot be opened yields an empty store; the first mutation
// creates it. A file that opens but cannot be decoded is an error.
func Open[T any, K ID](path string, codec Codec[T, K], opts ...Option) (*Store[T, K], error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[T, K]{
		path:   path,
		codec:  codec,
		logger: o.logger.With(zap.String("kind", codec.Kind()), zap.String("path", path)),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store[T, K]) Path() string {
	return s.path
}

// Len returns the number of records.
func (s *Store[T, K]) Len() int {
	return len(s.items)
}

// Get returns the record with the given ID.
func (s *Store[T, K]) Get(id K) (*T, error) {
	for _, e := range s.items {
		if s.codec.ID(e) == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s %d: %w", s.codec.Kind(), id, ErrNotFound)
}

// All returns every record in insertion order. The slice is a copy; the
// records are shared with the store.
func (s *Store[T, K]) All() []*T {
	return slices.Clone(s.items)
}

// Find returns the records matching pred, in insertion order.
func (s *Store[T, K]) Find(pred func(*T) bool) []*T {
	var out []*T
	for _, e := range s.items {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// NextID returns one more than the largest ID in the store, or 1 when empty.
func (s *Store[T, K]) NextID() K {
	var maxID K
	for _, e := range s.items {
		maxID = max(maxID, s.codec.ID(e))
	}
	return maxID + 1
}

// Create assigns e the next ID, appends it and persists the store.
// On a save failure the record is removed again and its ID cleared.
func (s *Store[T, K]) Create(e *T) (K, error) {
	id := s.NextID()
	s.codec.SetID(e, id)
	s.items = append(s.items, e)

	if err := s.save(); err != nil {
		s.items = s.items[:len(s.items)-1]
		s.codec.SetID(e, 0)
		return 0, err
	}

	s.logger.Debug("created", zap.Int("id", int(id)))
	return id, nil
}

// Update applies fn to the record with the given ID and persists the store.
//
// If fn returns an error, or the save fails, the record is restored to its
// previous value. The restore is shallow: fn should replace slices rather than
// modify their elements in place. fn cannot change the ID.
func (s *Store[T, K]) Update(id K, fn func(*T) error) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}

	old := *e
	if err := fn(e); err != nil {
		*e = old
		return err
	}
	s.codec.SetID(e, id)

	if err := s.save(); err != nil {
		*e = old
		return err
	}

	s.logger.Debug("updated", zap.Int("id", int(id)))
	return nil
}

// Delete removes the record with the given ID and persists the store.
// It reports whether a record was found and removed.
func (s *Store[T, K]) Delete(id K) (bool, error) {
	idx := slices.IndexFunc(s.items, func(e *T) bool { return s.codec.ID(e) == id })
	if idx < 0 {
		return false, nil
	}

	removed := s.items[idx]
	s.items = slices.Delete(s.items, idx, idx+1)

	if err := s.save(); err != nil {
		s.items = slices.Insert(s.items, idx, removed)
		return false, err
	}

	s.logger.Debug("deleted", zap.Int("id", int(id)))
	return true, nil
}

// Reload replaces the in-memory records with the contents of the file.
func (s *Store[T, K]) Reload() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no data file yet")
		} else {
			s.logger.Warn("cannot open data file, starting empty", zap.Error(err))
		}
		s.items = nil
		return nil
	}
	defer f.Close()

	items, err := s.decode(bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("load %s: %w", s.path, err)
	}

	s.items = items
	s.logger.Debug("loaded", zap.Int("count", len(items)))
	return nil
}

func (s *Store[T, K]) decode(r io.Reader) ([]*T, error) {
	h, err := binfmt.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if h.Kind != s.codec.Kind() {
		return nil, fmt.Errorf("%w: file holds %q, want %q", binfmt.ErrKindMismatch, h.Kind, s.codec.Kind())
	}
	if h.SchemaVersion > s.codec.Version() {
		return nil, fmt.Errorf("%w: schema %d, newest known %d", binfmt.ErrUnsupportedVersion, h.SchemaVersion, s.codec.Version())
	}

	items := make([]*T, 0, min(int(h.Count), 1024))
	for i := uint32(0); i < h.Count; i++ {
		payload, err := binfmt.ReadRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		dec := binfmt.NewDecoder(payload)
		e, err := s.codec.Decode(dec, h.SchemaVersion)
		if err == nil {
			err = dec.Err()
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, e)
	}
	return items, nil
}

func (s *Store[T, K]) save() error {
	err := ioutils.WriteFileAtomic(s.path, func(w io.Writer) error {
		h := binfmt.Header{
			Kind:          s.codec.Kind(),
			SchemaVersion: s.codec.Version(),
			Count:         uint32(len(s.items)),
		}
		if err := binfmt.WriteHeader(w, h); err != nil {
			return err
		}
		for _, e := range s.items {
			enc := binfmt.NewEncoder()
			s.codec.Encode(enc, e)
			if err := binfmt.WriteRecord(w, enc.Bytes()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("save failed", zap.Error(err))
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	return nil
}
