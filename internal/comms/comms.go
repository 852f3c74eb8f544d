// Package comms keeps the log of messages and notifications sent to
// attendees, including one-to-one chat.
package comms

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding the communication log.
const FileName = "communications.dat"

var (
	// ErrInvalid is returned for a message without text, recipients or a
	// known channel.
	ErrInvalid = errors.New("invalid message")

	// ErrNoRecipients is returned by Broadcast when a concert has no ticket
	// holders.
	ErrNoRecipients = errors.New("no recipients")
)

// TicketHolders lists the tickets of a concert.
type TicketHolders interface {
	FindByConcert(id model.ConcertID) []*model.Ticket
}

// Module stores the communication log.
type Module struct {
	store  *store.Store[model.CommunicationLog, model.CommunicationID]
	logger *zap.Logger
	now    func() time.Time
}

// Open loads the communication log stored at path.
func Open(path string, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.CommunicationLog, model.CommunicationID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{store: s, logger: logger.Named("comms"), now: time.Now}, nil
}

// Send records a message to its recipients. Duplicate recipients are
// dropped and SentAt is set to the current time.
func (m *Module) Send(l *model.CommunicationLog) (model.CommunicationID, error) {
	l.Subject = strings.TrimSpace(l.Subject)
	l.Message = strings.TrimSpace(l.Message)
	l.RecipientIDs = dedupe(l.RecipientIDs)
	l.ReadBy = nil
	if err := check(l); err != nil {
		return 0, err
	}
	l.SentAt = m.now().UTC()

	id, err := m.store.Create(l)
	if err != nil {
		return 0, err
	}
	m.logger.Info("message sent",
		zap.Int("id", int(id)),
		zap.Stringer("channel", l.Channel),
		zap.Int("recipients", len(l.RecipientIDs)),
	)
	return id, nil
}

// Broadcast sends a notification to everyone holding a sold or used ticket
// for a concert.
func (m *Module) Broadcast(tickets TicketHolders, concertID model.ConcertID, sender model.AttendeeID, subject, message string) (*model.CommunicationLog, error) {
	var recipients []model.AttendeeID
	for _, t := range tickets.FindByConcert(concertID) {
		if t.Status == model.TicketSold || t.Status == model.TicketCheckedIn {
			recipients = append(recipients, t.AttendeeID)
		}
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("concert %d: %w", concertID, ErrNoRecipients)
	}

	l := &model.CommunicationLog{
		ConcertID:    concertID,
		SenderID:     sender,
		RecipientIDs: recipients,
		Channel:      model.ChannelNotification,
		Subject:      subject,
		Message:      message,
	}
	if _, err := m.Send(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get returns the log entry with the given ID.
func (m *Module) Get(id model.CommunicationID) (*model.CommunicationLog, error) {
	return m.store.Get(id)
}

// All returns the whole log in the order it was written.
func (m *Module) All() []*model.CommunicationLog {
	return m.store.All()
}

// Delete removes a log entry.
func (m *Module) Delete(id model.CommunicationID) (bool, error) {
	return m.store.Delete(id)
}

// FindByConcert returns the messages about a concert.
func (m *Module) FindByConcert(id model.ConcertID) []*model.CommunicationLog {
	return m.store.Find(func(l *model.CommunicationLog) bool {
		return l.ConcertID == id
	})
}

// Inbox returns the messages sent to an attendee, newest first.
func (m *Module) Inbox(recipient model.AttendeeID) []*model.CommunicationLog {
	found := m.store.Find(func(l *model.CommunicationLog) bool {
		return model.ContainsID(l.RecipientIDs, recipient)
	})
	slices.Reverse(found)
	return found
}

// Unread returns the number of unread messages in an attendee's inbox.
func (m *Module) Unread(recipient model.AttendeeID) int {
	n := 0
	for _, l := range m.Inbox(recipient) {
		if !l.ReadByRecipient(recipient) {
			n++
		}
	}
	return n
}

// Conversation returns the chat messages exchanged between a and b, oldest
// first.
func (m *Module) Conversation(a, b model.AttendeeID) []*model.CommunicationLog {
	thread := m.store.Find(func(l *model.CommunicationLog) bool {
		if l.Channel != model.ChannelChat {
			return false
		}
		return (l.SenderID == a && model.ContainsID(l.RecipientIDs, b)) ||
			(l.SenderID == b && model.ContainsID(l.RecipientIDs, a))
	})
	slices.SortStableFunc(thread, func(x, y *model.CommunicationLog) int {
		return x.SentAt.Compare(y.SentAt)
	})
	return thread
}

// MarkRead records that reader has opened a message. Other recipients
// keep their unread state.
func (m *Module) MarkRead(id model.CommunicationID, reader model.AttendeeID) error {
	return m.store.Update(id, func(l *model.CommunicationLog) error {
		if !model.ContainsID(l.RecipientIDs, reader) {
			return fmt.Errorf("%w: attendee %d is not a recipient", ErrInvalid, reader)
		}
		if !model.ContainsID(l.ReadBy, reader) {
			l.ReadBy = append(slices.Clip(l.ReadBy), reader)
		}
		return nil
	})
}

func dedupe(ids []model.AttendeeID) []model.AttendeeID {
	var out []model.AttendeeID
	for _, id := range ids {
		if !model.ContainsID(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func check(l *model.CommunicationLog) error {
	switch {
	case !l.Channel.Valid():
		return fmt.Errorf("%w: unknown channel %d", ErrInvalid, int(l.Channel))
	case l.Message == "":
		return fmt.Errorf("%w: message is empty", ErrInvalid)
	case len(l.RecipientIDs) == 0:
		return fmt.Errorf("%w: no recipients", ErrInvalid)
	}
	return nil
}
