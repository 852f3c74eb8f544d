package model

// Typed IDs keep references between stores from being mixed up.
type (
	VenueID         int
	ConcertID       int
	PerformerID     int
	CrewID          int
	AttendeeID      int
	TicketID        int
	PaymentID       int
	FeedbackID      int
	CommunicationID int
	ReportID        int
)

// ContainsID reports whether ids holds id.
func ContainsID[K ~int](ids []K, id K) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveID returns ids without any occurrence of id, and whether one was removed.
func RemoveID[K ~int](ids []K, id K) ([]K, bool) {
	var out []K
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}
