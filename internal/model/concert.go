package model

import (
	"strings"
	"time"
)

// Concert is a scheduled event at a venue.
type Concert struct {
	ID           ConcertID
	Name         string
	Description  string
	StartsAt     time.Time
	EndsAt       time.Time
	VenueID      VenueID
	Status       EventStatus
	Ticket       ConcertTicket
	PerformerIDs []PerformerID
	Promotions   []Promotion
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ConcertTicket holds the ticket inventory of a concert.
type ConcertTicket struct {
	// BasePriceCents is the undiscounted price of one ticket.
	BasePriceCents int

	// QuantityAvailable is the number of tickets still for sale.
	QuantityAvailable int

	// QuantitySold is the number of tickets sold and not cancelled.
	QuantitySold int
}

// Total returns the full inventory size.
func (t ConcertTicket) Total() int {
	return t.QuantityAvailable + t.QuantitySold
}

// SellThrough returns the sold fraction of the inventory in [0, 1].
func (t ConcertTicket) SellThrough() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.QuantitySold) / float64(total)
}

// Promotion is a discount code attached to a concert.
type Promotion struct {
	Code            string
	Description     string
	DiscountPercent int
	ValidUntil      time.Time
}

// ActiveAt reports whether the promotion can be used at t.
// A zero ValidUntil never expires.
func (p Promotion) ActiveAt(t time.Time) bool {
	return p.ValidUntil.IsZero() || !t.After(p.ValidUntil)
}

// Apply returns price reduced by the discount, rounded down to the cent.
func (p Promotion) Apply(priceCents int) int {
	pct := min(max(p.DiscountPercent, 0), 100)
	return priceCents * (100 - pct) / 100
}

// Promotion looks up a promotion by code, case-insensitively.
func (c *Concert) Promotion(code string) (Promotion, bool) {
	for _, p := range c.Promotions {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	return Promotion{}, false
}

// OnSale reports whether tickets can be sold for the concert.
func (c *Concert) OnSale() bool {
	return c.Status == EventScheduled || c.Status == EventPostponed
}
