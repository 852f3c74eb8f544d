package model

// Venue is a place where concerts are held.
type Venue struct {
	ID          VenueID
	Name        string
	Address     string
	City        string
	State       string
	ZipCode     string
	Country     string
	Capacity    int
	Description string
	ContactInfo string
}

// Location returns a one-line postal location for display.
func (v *Venue) Location() string {
	loc := v.City
	if v.State != "" {
		loc += ", " + v.State
	}
	if v.Country != "" {
		loc += ", " + v.Country
	}
	return loc
}
