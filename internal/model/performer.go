package model

// Performer is an artist or band that can play at concerts.
type Performer struct {
	ID          PerformerID
	Name        string
	Genre       string
	ContactInfo string
	Bio         string
	FeeCents    int

	// SampleTrackPath points at an audio file used for lineup playlists.
	SampleTrackPath string

	// SampleDurationSeconds is the length of the sample track.
	SampleDurationSeconds int

	ConcertIDs []ConcertID
}
