// Package venue manages the places concerts are held.
//
// Venues are persisted to venues.dat through a store.Store:
//
//	venues, err := venue.Open(filepath.Join(dataDir, venue.FileName), logger)
//	id, err := venues.Create(&model.Venue{Name: "Hall", Capacity: 500})
//	halls := venues.SearchByName("hall")
//
// Deleting a venue does not touch concerts that reference it; lookups through
// a dangling VenueID simply report store.ErrNotFound.
package venue
