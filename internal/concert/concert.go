// Package concert manages scheduled concerts, their ticket inventory, lineups
// and promotion codes.
package concert

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/search"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding concerts.
const FileName = "concerts.dat"

var (
	// ErrInvalid is returned when a concert is missing required fields or
	// holds inconsistent values.
	ErrInvalid = errors.New("invalid concert")

	// ErrNotOnSale is returned when selling tickets for a concert whose
	// status does not allow sales.
	ErrNotOnSale = errors.New("concert is not on sale")

	// ErrInsufficientTickets is returned when a sale exceeds the remaining
	// inventory, or a release exceeds the tickets sold.
	ErrInsufficientTickets = errors.New("not enough tickets")

	// Promotion code errors.
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrPromotionExpired  = errors.New("promotion expired")
	ErrDuplicatePromo    = errors.New("promotion code already exists")
)

// Module stores concerts.
type Module struct {
	store  *store.Store[model.Concert, model.ConcertID]
	logger *zap.Logger
	now    func() time.Time
}

// Open loads the concerts stored at path.
func Open(path string, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.Concert, model.ConcertID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{store: s, logger: logger.Named("concert"), now: time.Now}, nil
}

// Create validates and stores a new concert. CreatedAt and UpdatedAt are set
// to the current time.
func (m *Module) Create(c *model.Concert) (model.ConcertID, error) {
	if err := check(c); err != nil {
		return 0, err
	}
	now := m.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	id, err := m.store.Create(c)
	if err != nil {
		return 0, err
	}
	m.logger.Info("concert created",
		zap.Int("id", int(id)),
		zap.String("name", c.Name),
		zap.Int("venue", int(c.VenueID)),
	)
	return id, nil
}

// Get returns the concert with the given ID.
func (m *Module) Get(id model.ConcertID) (*model.Concert, error) {
	return m.store.Get(id)
}

// All returns every concert in insertion order.
func (m *Module) All() []*model.Concert {
	return m.store.All()
}

// Update applies fn to a concert and saves it. Status changes must go through
// ChangeStatus; fn may not change Status.
func (m *Module) Update(id model.ConcertID, fn func(*model.Concert)) error {
	return m.mutate(id, func(c *model.Concert) error {
		status := c.Status
		fn(c)
		if c.Status != status {
			return fmt.Errorf("%w: use ChangeStatus to change status", ErrInvalid)
		}
		return check(c)
	})
}

// Delete removes a concert. It reports whether the concert existed.
func (m *Module) Delete(id model.ConcertID) (bool, error) {
	return m.store.Delete(id)
}

// SearchByName returns concerts whose name contains query, ignoring case.
func (m *Module) SearchByName(query string) []*model.Concert {
	return m.store.Find(func(c *model.Concert) bool {
		return search.Contains(c.Name, query)
	})
}

// FindByVenue returns the concerts held at a venue.
func (m *Module) FindByVenue(id model.VenueID) []*model.Concert {
	return m.store.Find(func(c *model.Concert) bool {
		return c.VenueID == id
	})
}

// FindByStatus returns the concerts in the given status.
func (m *Module) FindByStatus(status model.EventStatus) []*model.Concert {
	return m.store.Find(func(c *model.Concert) bool {
		return c.Status == status
	})
}

// FindByDateRange returns concerts starting between from and to, inclusive.
func (m *Module) FindByDateRange(from, to time.Time) []*model.Concert {
	return m.store.Find(func(c *model.Concert) bool {
		return !c.StartsAt.Before(from) && !c.StartsAt.After(to)
	})
}

// Upcoming returns concerts on sale that start after now, earliest first.
func (m *Module) Upcoming(now time.Time) []*model.Concert {
	out := m.store.Find(func(c *model.Concert) bool {
		return c.StartsAt.After(now) && (c.OnSale() || c.Status == model.EventSoldOut)
	})
	slices.SortStableFunc(out, func(a, b *model.Concert) int {
		return a.StartsAt.Compare(b.StartsAt)
	})
	return out
}

// ChangeStatus moves a concert to next if the transition is allowed.
func (m *Module) ChangeStatus(id model.ConcertID, next model.EventStatus) error {
	err := m.mutate(id, func(c *model.Concert) error {
		status, err := c.Status.Transition(next)
		if err != nil {
			return fmt.Errorf("concert %d: %w", id, err)
		}
		c.Status = status
		return nil
	})
	if err != nil {
		return err
	}
	m.logger.Info("concert status changed", zap.Int("id", int(id)), zap.Stringer("status", next))
	return nil
}

// AddPerformer adds a performer to the lineup. Adding a performer twice is a
// no-op.
func (m *Module) AddPerformer(id model.ConcertID, performer model.PerformerID) error {
	return m.mutate(id, func(c *model.Concert) error {
		if !model.ContainsID(c.PerformerIDs, performer) {
			c.PerformerIDs = append(slices.Clip(c.PerformerIDs), performer)
		}
		return nil
	})
}

// RemovePerformer removes a performer from the lineup and reports whether it
// was listed.
func (m *Module) RemovePerformer(id model.ConcertID, performer model.PerformerID) (bool, error) {
	var removed bool
	err := m.mutate(id, func(c *model.Concert) error {
		c.PerformerIDs, removed = model.RemoveID(c.PerformerIDs, performer)
		return nil
	})
	return removed, err
}

// AddPromotion attaches a promotion code to a concert. Codes are unique per
// concert, ignoring case.
func (m *Module) AddPromotion(id model.ConcertID, p model.Promotion) error {
	if p.Code == "" || p.DiscountPercent <= 0 || p.DiscountPercent > 100 {
		return fmt.Errorf("%w: promotion needs a code and a discount of 1-100%%", ErrInvalid)
	}
	return m.mutate(id, func(c *model.Concert) error {
		if _, ok := c.Promotion(p.Code); ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePromo, p.Code)
		}
		c.Promotions = append(slices.Clip(c.Promotions), p)
		return nil
	})
}

// RemovePromotion removes a promotion code from a concert.
func (m *Module) RemovePromotion(id model.ConcertID, code string) error {
	return m.mutate(id, func(c *model.Concert) error {
		idx := slices.IndexFunc(c.Promotions, func(p model.Promotion) bool {
			return search.Equal(p.Code, code)
		})
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPromotionNotFound, code)
		}
		c.Promotions = slices.Delete(slices.Clone(c.Promotions), idx, idx+1)
		if len(c.Promotions) == 0 {
			c.Promotions = nil
		}
		return nil
	})
}

// ApplyPromotion returns the ticket price of a concert after applying code at
// the given time. An empty code returns the base price.
func (m *Module) ApplyPromotion(id model.ConcertID, code string, at time.Time) (int, error) {
	c, err := m.store.Get(id)
	if err != nil {
		return 0, err
	}
	price := c.Ticket.BasePriceCents
	if code == "" {
		return price, nil
	}

	p, ok := c.Promotion(code)
	if !ok {
		return price, fmt.Errorf("%w: %s", ErrPromotionNotFound, code)
	}
	if !p.ActiveAt(at) {
		return price, fmt.Errorf("%w: %s", ErrPromotionExpired, code)
	}
	return p.Apply(price), nil
}

// RecordSale moves n tickets from available to sold. When the last ticket of
// a scheduled concert is sold the concert becomes SOLDOUT.
func (m *Module) RecordSale(id model.ConcertID, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: quantity %d", ErrInvalid, n)
	}
	return m.mutate(id, func(c *model.Concert) error {
		if !c.OnSale() {
			return fmt.Errorf("concert %d is %s: %w", id, c.Status, ErrNotOnSale)
		}
		if c.Ticket.QuantityAvailable < n {
			return fmt.Errorf("%w: %d requested, %d available", ErrInsufficientTickets, n, c.Ticket.QuantityAvailable)
		}
		c.Ticket.QuantityAvailable -= n
		c.Ticket.QuantitySold += n
		if c.Ticket.QuantityAvailable == 0 && c.Status.CanTransition(model.EventSoldOut) {
			c.Status = model.EventSoldOut
			m.logger.Info("concert sold out", zap.Int("id", int(id)))
		}
		return nil
	})
}

// ReleaseSale returns n sold tickets to the available inventory. A sold out
// concert goes back to SCHEDULED.
func (m *Module) ReleaseSale(id model.ConcertID, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: quantity %d", ErrInvalid, n)
	}
	return m.mutate(id, func(c *model.Concert) error {
		if c.Ticket.QuantitySold < n {
			return fmt.Errorf("%w: releasing %d, %d sold", ErrInsufficientTickets, n, c.Ticket.QuantitySold)
		}
		c.Ticket.QuantitySold -= n
		c.Ticket.QuantityAvailable += n
		if c.Status == model.EventSoldOut {
			c.Status = model.EventScheduled
		}
		return nil
	})
}

// mutate wraps store.Update and stamps UpdatedAt.
func (m *Module) mutate(id model.ConcertID, fn func(*model.Concert) error) error {
	return m.store.Update(id, func(c *model.Concert) error {
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = m.now().UTC()
		return nil
	})
}

func check(c *model.Concert) error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case c.StartsAt.IsZero():
		return fmt.Errorf("%w: start time is required", ErrInvalid)
	case !c.EndsAt.IsZero() && c.EndsAt.Before(c.StartsAt):
		return fmt.Errorf("%w: ends before it starts", ErrInvalid)
	case c.Ticket.BasePriceCents < 0:
		return fmt.Errorf("%w: negative ticket price", ErrInvalid)
	case c.Ticket.QuantityAvailable < 0 || c.Ticket.QuantitySold < 0:
		return fmt.Errorf("%w: negative ticket quantity", ErrInvalid)
	}
	return nil
}
