// Package model defines the records managed by concert-manager.
//
// Every entity is a flat struct with a typed integer ID. Entities refer to each
// other by ID only; a reference may point at a record that no longer exists and
// lookups through it simply report not-found.
//
// # Entities
//
//	Venue, Concert, Performer, Crew, Attendee,
//	Ticket, Payment, Feedback, CommunicationLog, ConcertReport
//
// # Status lifecycles
//
// EventStatus, TicketStatus and PaymentStatus carry explicit transition tables:
//
//	next, err := model.EventScheduled.Transition(model.EventCancelled)
//	if errors.Is(err, model.ErrInvalidTransition) {
//	    // e.g. COMPLETED -> SCHEDULED
//	}
//
// Times are kept in UTC. On disk they are zero-padded ISO-8601 strings, which sort
// lexicographically in time order.
package model
