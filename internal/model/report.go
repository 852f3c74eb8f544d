package model

import "time"

// ConcertReport is a point-in-time summary of a concert's sales and reception.
type ConcertReport struct {
	ID               ReportID
	ConcertID        ConcertID
	GeneratedAt      time.Time
	TicketsSold      int
	TicketsCheckedIn int
	TicketsCancelled int
	RevenueCents     int
	RefundedCents    int
	FeedbackCount    int
	AverageRating    float64
	VenueCapacity    int
	PerformerCount   int
	CrewCount        int
	Summary          string
}

// Occupancy returns checked-in attendance as a fraction of venue capacity.
func (r *ConcertReport) Occupancy() float64 {
	if r.VenueCapacity <= 0 {
		return 0
	}
	return float64(r.TicketsCheckedIn) / float64(r.VenueCapacity)
}
