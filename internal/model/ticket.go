package model

import "time"

// Ticket is one admission to a concert.
type Ticket struct {
	ID          TicketID
	ConcertID   ConcertID
	AttendeeID  AttendeeID
	PaymentID   PaymentID
	Status      TicketStatus
	PriceCents  int
	Code        string
	QRCode      string
	PurchasedAt time.Time
	CheckedInAt time.Time
}

// Active reports whether the ticket still grants admission.
func (t *Ticket) Active() bool {
	return t.Status == TicketSold
}
