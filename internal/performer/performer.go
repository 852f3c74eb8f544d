// Package performer manages the artists that play concerts.
package performer

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/audio"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/search"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding performers.
const FileName = "performers.dat"

// ErrInvalid is returned when a performer is missing required fields.
var ErrInvalid = errors.New("invalid performer")

// Module stores performers.
type Module struct {
	store  *store.Store[model.Performer, model.PerformerID]
	logger *zap.Logger
}

// Open loads the performers stored at path.
func Open(path string, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.Performer, model.PerformerID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{store: s, logger: logger.Named("performer")}, nil
}

// Create validates and stores a new performer.
func (m *Module) Create(p *model.Performer) (model.PerformerID, error) {
	if err := check(p); err != nil {
		return 0, err
	}
	id, err := m.store.Create(p)
	if err != nil {
		return 0, err
	}
	m.logger.Info("performer created", zap.Int("id", int(id)), zap.String("name", p.Name))
	return id, nil
}

// ImportFromAudio creates a performer from the ID3 tag of a sample track.
// The artist becomes the name, falling back to the file name without its
// extension; the track is kept as the performer's sample.
func (m *Module) ImportFromAudio(path string) (*model.Performer, error) {
	info, err := audio.ReadTrackInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := info.Artist
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	p := &model.Performer{
		Name:                  name,
		Genre:                 info.Genre,
		SampleTrackPath:       path,
		SampleDurationSeconds: int(info.Duration.Seconds()),
	}
	if info.Title != "" {
		p.Bio = fmt.Sprintf("Sample track: %s", info.Title)
	}

	if _, err := m.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the performer with the given ID.
func (m *Module) Get(id model.PerformerID) (*model.Performer, error) {
	return m.store.Get(id)
}

// All returns every performer in insertion order.
func (m *Module) All() []*model.Performer {
	return m.store.All()
}

// Update applies fn to a performer and saves it.
func (m *Module) Update(id model.PerformerID, fn func(*model.Performer)) error {
	return m.store.Update(id, func(p *model.Performer) error {
		fn(p)
		return check(p)
	})
}

// Delete removes a performer. It reports whether the performer existed.
func (m *Module) Delete(id model.PerformerID) (bool, error) {
	return m.store.Delete(id)
}

// SearchByName returns performers whose name contains query, ignoring case.
func (m *Module) SearchByName(query string) []*model.Performer {
	return m.store.Find(func(p *model.Performer) bool {
		return search.Contains(p.Name, query)
	})
}

// FindByGenre returns performers of a genre, ignoring case.
func (m *Module) FindByGenre(genre string) []*model.Performer {
	return m.store.Find(func(p *model.Performer) bool {
		return search.Equal(p.Genre, genre)
	})
}

// FindByConcert returns performers assigned to a concert.
func (m *Module) FindByConcert(id model.ConcertID) []*model.Performer {
	return m.store.Find(func(p *model.Performer) bool {
		return model.ContainsID(p.ConcertIDs, id)
	})
}

// AssignToConcert records that a performer plays a concert.
func (m *Module) AssignToConcert(id model.PerformerID, concert model.ConcertID) error {
	return m.store.Update(id, func(p *model.Performer) error {
		if !model.ContainsID(p.ConcertIDs, concert) {
			p.ConcertIDs = append(slices.Clip(p.ConcertIDs), concert)
		}
		return nil
	})
}

// UnassignFromConcert removes a concert from a performer and reports whether
// it was assigned.
func (m *Module) UnassignFromConcert(id model.PerformerID, concert model.ConcertID) (bool, error) {
	var removed bool
	err := m.store.Update(id, func(p *model.Performer) error {
		p.ConcertIDs, removed = model.RemoveID(p.ConcertIDs, concert)
		return nil
	})
	return removed, err
}

func check(p *model.Performer) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if p.FeeCents < 0 {
		return fmt.Errorf("%w: negative fee", ErrInvalid)
	}
	return nil
}
