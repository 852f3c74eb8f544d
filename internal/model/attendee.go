package model

import "time"

// Attendee is a customer account. Attendees log in with Username and a password
// whose bcrypt hash is kept in PasswordHash.
type Attendee struct {
	ID            AttendeeID
	Name          string
	Email         string
	Phone         string
	Address       string
	Type          AttendeeType
	Username      string
	PasswordHash  string
	Admin         bool
	LoyaltyPoints int
	CreatedAt     time.Time
}
