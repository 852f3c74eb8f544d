// Package store provides the generic entity store every domain module is built on.
//
// A Store keeps all records of one entity type in memory, in insertion order, and
// mirrors them to a single file in the binfmt format. Queries are linear scans.
// Every mutation rewrites the whole file atomically.
//
//	venues, err := store.Open("data/venues.dat", venueCodec{}, store.WithLogger(logger))
//	id, err := venues.Create(&model.Venue{Name: "Hall", Capacity: 500})
//	v, err := venues.Get(id)
//	big := venues.Find(func(v *model.Venue) bool { return v.Capacity > 1000 })
//
// The Codec supplies the entity-specific parts: how to read and set the ID and how
// to encode and decode a record.
//
// A Store is not safe for concurrent use.
package store
