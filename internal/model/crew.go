package model

// Crew is a staff member working concerts (stage hands, security, sound).
type Crew struct {
	ID              CrewID
	Name            string
	Role            string
	Email           string
	Phone           string
	HourlyRateCents int
	Duties          []string
	ConcertIDs      []ConcertID
}
