// Package attendee manages customer accounts.
package attendee

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/search"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding attendees.
const FileName = "attendees.dat"

var (
	// ErrInvalid is returned when an attendee is missing required fields.
	ErrInvalid = errors.New("invalid attendee")

	// ErrDuplicate is returned when a username or email is already in use.
	ErrDuplicate = errors.New("attendee already exists")
)

// Module stores attendees.
type Module struct {
	store  *store.Store[model.Attendee, model.AttendeeID]
	logger *zap.Logger
	now    func() time.Time
}

// Open loads the attendees stored at path.
func Open(path string, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.Attendee, model.AttendeeID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{store: s, logger: logger.Named("attendee"), now: time.Now}, nil
}

// Create stores a new attendee. Usernames and emails are unique, ignoring
// case; empty ones are not checked.
func (m *Module) Create(a *model.Attendee) (model.AttendeeID, error) {
	if err := check(a); err != nil {
		return 0, err
	}
	if err := m.checkUnique(a); err != nil {
		return 0, err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = m.now().UTC()
	}

	id, err := m.store.Create(a)
	if err != nil {
		return 0, err
	}
	m.logger.Info("attendee created", zap.Int("id", int(id)), zap.String("username", a.Username))
	return id, nil
}

// Get returns the attendee with the given ID.
func (m *Module) Get(id model.AttendeeID) (*model.Attendee, error) {
	return m.store.Get(id)
}

// All returns every attendee in insertion order.
func (m *Module) All() []*model.Attendee {
	return m.store.All()
}

// Update applies fn to an attendee and saves it.
func (m *Module) Update(id model.AttendeeID, fn func(*model.Attendee)) error {
	return m.store.Update(id, func(a *model.Attendee) error {
		fn(a)
		if err := check(a); err != nil {
			return err
		}
		return m.checkUnique(a)
	})
}

// Delete removes an attendee. It reports whether the attendee existed.
func (m *Module) Delete(id model.AttendeeID) (bool, error) {
	return m.store.Delete(id)
}

// SearchByName returns attendees whose name contains query, ignoring case.
func (m *Module) SearchByName(query string) []*model.Attendee {
	return m.store.Find(func(a *model.Attendee) bool {
		return search.Contains(a.Name, query)
	})
}

// FindByEmail returns the attendee with the given email, ignoring case.
func (m *Module) FindByEmail(email string) (*model.Attendee, error) {
	return m.findOne("email", email, func(a *model.Attendee) string { return a.Email })
}

// FindByUsername returns the attendee with the given username, ignoring case.
func (m *Module) FindByUsername(username string) (*model.Attendee, error) {
	return m.findOne("username", username, func(a *model.Attendee) string { return a.Username })
}

// FindByType returns attendees of a type.
func (m *Module) FindByType(t model.AttendeeType) []*model.Attendee {
	return m.store.Find(func(a *model.Attendee) bool {
		return a.Type == t
	})
}

// Admins returns attendees with admin rights.
func (m *Module) Admins() []*model.Attendee {
	return m.store.Find(func(a *model.Attendee) bool {
		return a.Admin
	})
}

// AddLoyaltyPoints adds points to an attendee's balance and returns the new
// balance. Negative points redeem; the balance cannot go below zero.
func (m *Module) AddLoyaltyPoints(id model.AttendeeID, points int) (int, error) {
	var balance int
	err := m.store.Update(id, func(a *model.Attendee) error {
		if a.LoyaltyPoints+points < 0 {
			return fmt.Errorf("%w: balance %d cannot cover %d points", ErrInvalid, a.LoyaltyPoints, -points)
		}
		a.LoyaltyPoints += points
		balance = a.LoyaltyPoints
		return nil
	})
	return balance, err
}

func (m *Module) findOne(field, value string, get func(*model.Attendee) string) (*model.Attendee, error) {
	if strings.TrimSpace(value) != "" {
		matches := m.store.Find(func(a *model.Attendee) bool {
			return search.Equal(get(a), value)
		})
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return nil, fmt.Errorf("attendee with %s %q: %w", field, value, store.ErrNotFound)
}

func (m *Module) checkUnique(a *model.Attendee) error {
	for _, other := range m.store.All() {
		if other == a {
			continue
		}
		if a.Username != "" && search.Equal(other.Username, a.Username) {
			return fmt.Errorf("%w: username %q", ErrDuplicate, a.Username)
		}
		if a.Email != "" && search.Equal(other.Email, a.Email) {
			return fmt.Errorf("%w: email %q", ErrDuplicate, a.Email)
		}
	}
	return nil
}

func check(a *model.Attendee) error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case a.LoyaltyPoints < 0:
		return fmt.Errorf("%w: negative loyalty points", ErrInvalid)
	}
	return nil
}
