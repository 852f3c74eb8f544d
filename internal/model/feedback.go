package model

import "time"

// MinRating and MaxRating bound Feedback.Rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is an attendee's rating of a concert.
type Feedback struct {
	ID          FeedbackID
	ConcertID   ConcertID
	AttendeeID  AttendeeID
	Rating      int
	Comment     string
	SubmittedAt time.Time
}
