package venue

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/search"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding venues.
const FileName = "venues.dat"

// ErrInvalid is returned when a venue is missing required fields.
var ErrInvalid = errors.New("invalid venue")

// Module stores venues.
type Module struct {
	store  *store.Store[model.Venue, model.VenueID]
	logger *zap.Logger
}

// Open loads the venues stored at path.
func Open(path string, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.Venue, model.VenueID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{store: s, logger: logger.Named("venue")}, nil
}

// Create validates and stores a new venue, returning its ID.
func (m *Module) Create(v *model.Venue) (model.VenueID, error) {
	if err := check(v); err != nil {
		return 0, err
	}
	id, err := m.store.Create(v)
	if err != nil {
		return 0, err
	}
	m.logger.Info("venue created", zap.Int("id", int(id)), zap.String("name", v.Name))
	return id, nil
}

// Get returns the venue with the given ID.
func (m *Module) Get(id model.VenueID) (*model.Venue, error) {
	return m.store.Get(id)
}

// All returns every venue in insertion order.
func (m *Module) All() []*model.Venue {
	return m.store.All()
}

// Update applies fn to a venue and saves it. The change is discarded if the
// result is invalid.
func (m *Module) Update(id model.VenueID, fn func(*model.Venue)) error {
	return m.store.Update(id, func(v *model.Venue) error {
		fn(v)
		return check(v)
	})
}

// Delete removes a venue. It reports whether the venue existed.
func (m *Module) Delete(id model.VenueID) (bool, error) {
	return m.store.Delete(id)
}

// SearchByName returns venues whose name contains query, ignoring case.
func (m *Module) SearchByName(query string) []*model.Venue {
	return m.store.Find(func(v *model.Venue) bool {
		return search.Contains(v.Name, query)
	})
}

// FindByCity returns venues in the given city, ignoring case.
func (m *Module) FindByCity(city string) []*model.Venue {
	return m.store.Find(func(v *model.Venue) bool {
		return search.Equal(v.City, city)
	})
}

// FindByMinCapacity returns venues holding at least capacity people.
func (m *Module) FindByMinCapacity(capacity int) []*model.Venue {
	return m.store.Find(func(v *model.Venue) bool {
		return v.Capacity >= capacity
	})
}

func check(v *model.Venue) error {
	if v.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if v.Capacity < 0 {
		return fmt.Errorf("%w: capacity %d is negative", ErrInvalid, v.Capacity)
	}
	return nil
}
