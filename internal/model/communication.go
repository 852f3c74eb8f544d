package model

import "time"

// CommunicationLog is a message or notification sent to attendees.
// ConcertID is zero for messages not tied to a concert, such as chat.
type CommunicationLog struct {
	ID           CommunicationID
	ConcertID    ConcertID
	SenderID     AttendeeID
	RecipientIDs []AttendeeID
	Channel      Channel
	Subject      string
	Message      string
	SentAt       time.Time

	// ReadBy lists the recipients who have opened the message.
	ReadBy []AttendeeID
}

// ReadByRecipient reports whether id has opened the message.
func (l *CommunicationLog) ReadByRecipient(id AttendeeID) bool {
	return ContainsID(l.ReadBy, id)
}
