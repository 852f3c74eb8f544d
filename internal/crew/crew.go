// Package crew manages staff working concerts and their assignments.
package crew

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/search"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding crew members.
const FileName = "crew.dat"

// ErrInvalid is returned when a crew member is missing required fields.
var ErrInvalid = errors.New("invalid crew member")

// Module stores crew members.
type Module struct {
	store  *store.Store[model.Crew, model.CrewID]
	logger *zap.Logger
}

// Open loads the crew stored at path.
func Open(path string, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.Crew, model.CrewID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{store: s, logger: logger.Named("crew")}, nil
}

// Create validates and stores a new crew member.
func (m *Module) Create(c *model.Crew) (model.CrewID, error) {
	if err := check(c); err != nil {
		return 0, err
	}
	id, err := m.store.Create(c)
	if err != nil {
		return 0, err
	}
	m.logger.Info("crew member created", zap.Int("id", int(id)), zap.String("role", c.Role))
	return id, nil
}

// Get returns the crew member with the given ID.
func (m *Module) Get(id model.CrewID) (*model.Crew, error) {
	return m.store.Get(id)
}

// All returns every crew member in insertion order.
func (m *Module) All() []*model.Crew {
	return m.store.All()
}

// Update applies fn to a crew member and saves it.
func (m *Module) Update(id model.CrewID, fn func(*model.Crew)) error {
	return m.store.Update(id, func(c *model.Crew) error {
		fn(c)
		return check(c)
	})
}

// Delete removes a crew member. It reports whether the member existed.
func (m *Module) Delete(id model.CrewID) (bool, error) {
	return m.store.Delete(id)
}

// SearchByName returns crew whose name contains query, ignoring case.
func (m *Module) SearchByName(query string) []*model.Crew {
	return m.store.Find(func(c *model.Crew) bool {
		return search.Contains(c.Name, query)
	})
}

// FindByRole returns crew with the given role, ignoring case.
func (m *Module) FindByRole(role string) []*model.Crew {
	return m.store.Find(func(c *model.Crew) bool {
		return search.Equal(c.Role, role)
	})
}

// FindByConcert returns crew assigned to a concert.
func (m *Module) FindByConcert(id model.ConcertID) []*model.Crew {
	return m.store.Find(func(c *model.Crew) bool {
		return model.ContainsID(c.ConcertIDs, id)
	})
}

// AssignToConcert records that a crew member works a concert.
func (m *Module) AssignToConcert(id model.CrewID, concert model.ConcertID) error {
	return m.store.Update(id, func(c *model.Crew) error {
		if !model.ContainsID(c.ConcertIDs, concert) {
			c.ConcertIDs = append(slices.Clip(c.ConcertIDs), concert)
		}
		return nil
	})
}

// UnassignFromConcert removes a concert from a crew member and reports
// whether it was assigned.
func (m *Module) UnassignFromConcert(id model.CrewID, concert model.ConcertID) (bool, error) {
	var removed bool
	err := m.store.Update(id, func(c *model.Crew) error {
		c.ConcertIDs, removed = model.RemoveID(c.ConcertIDs, concert)
		return nil
	})
	return removed, err
}

// AddDuty appends a duty to a crew member. Blank and repeated duties are
// ignored.
func (m *Module) AddDuty(id model.CrewID, duty string) error {
	duty = strings.TrimSpace(duty)
	return m.store.Update(id, func(c *model.Crew) error {
		if duty == "" || slices.ContainsFunc(c.Duties, func(d string) bool { return search.Equal(d, duty) }) {
			return nil
		}
		c.Duties = append(slices.Clip(c.Duties), duty)
		return nil
	})
}

// LaborCost returns the cost in cents of every crew member assigned to a
// concert working the given number of hours, rounded to the nearest cent.
func (m *Module) LaborCost(concert model.ConcertID, hours float64) int {
	total := 0.0
	for _, c := range m.FindByConcert(concert) {
		total += float64(c.HourlyRateCents) * hours
	}
	return int(math.Round(total))
}

func check(c *model.Crew) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case strings.TrimSpace(c.Role) == "":
		return fmt.Errorf("%w: role is required", ErrInvalid)
	case c.HourlyRateCents < 0:
		return fmt.Errorf("%w: negative hourly rate", ErrInvalid)
	}
	return nil
}
