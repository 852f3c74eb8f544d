package model

import "time"

// Payment records money received from an attendee for one or more tickets.
type Payment struct {
	ID            PaymentID
	AttendeeID    AttendeeID
	ConcertID     ConcertID
	TicketIDs     []TicketID
	AmountCents   int
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string
	CardLast4     string
	PromoCode     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
