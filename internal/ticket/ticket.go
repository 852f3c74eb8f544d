// Package ticket issues concert tickets and tracks admission.
//
// Issuing a ticket records the sale on the concert, so the concert's
// inventory and the ticket store move together: a failed issue is undone
// on both sides, and cancelling a ticket returns it to the inventory.
package ticket

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/concert"
	ioutils "github.com/handiism/concert-manager/internal/io"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding tickets.
const FileName = "tickets.dat"

// passMatrixSize is the side of the code matrix drawn on a pass. A SHA-256
// digest fills it exactly.
const passMatrixSize = 16

var (
	// ErrSoldOut is returned when a concert has fewer tickets left than
	// requested.
	ErrSoldOut = errors.New("sold out")

	// ErrInvalid is returned for a malformed issue request.
	ErrInvalid = errors.New("invalid ticket request")
)

// Module stores tickets.
type Module struct {
	store    *store.Store[model.Ticket, model.TicketID]
	concerts *concert.Module
	images   *ioutils.ImageService
	logger   *zap.Logger
	now      func() time.Time
	newCode  func() string
}

// Open loads the tickets stored at path. Sales are recorded on concerts and
// passes are drawn with images.
func Open(path string, concerts *concert.Module, images *ioutils.ImageService, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if images == nil {
		images = ioutils.NewImageService()
	}
	s, err := store.Open[model.Ticket, model.TicketID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{
		store:    s,
		concerts: concerts,
		images:   images,
		logger:   logger.Named("ticket"),
		now:      time.Now,
		newCode:  uuid.NewString,
	}, nil
}

// Issue sells qty tickets of a concert to an attendee at priceCents each.
//
// The concert must be on sale and have qty tickets available; otherwise
// concert.ErrNotOnSale or ErrSoldOut is returned and nothing changes.
func (m *Module) Issue(concertID model.ConcertID, attendeeID model.AttendeeID, qty, priceCents int) ([]*model.Ticket, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity %d", ErrInvalid, qty)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("%w: negative price", ErrInvalid)
	}

	if err := m.concerts.RecordSale(concertID, qty); err != nil {
		if errors.Is(err, concert.ErrInsufficientTickets) {
			return nil, fmt.Errorf("concert %d: %w", concertID, ErrSoldOut)
		}
		return nil, err
	}

	now := m.now().UTC()
	tickets := make([]*model.Ticket, 0, qty)
	for range qty {
		code := m.newCode()
		t := &model.Ticket{
			ConcertID:   concertID,
			AttendeeID:  attendeeID,
			Status:      model.TicketSold,
			PriceCents:  priceCents,
			Code:        code,
			QRCode:      qrPayload(concertID, attendeeID, code),
			PurchasedAt: now,
		}
		if _, err := m.store.Create(t); err != nil {
			m.undoIssue(concertID, qty, tickets)
			return nil, err
		}
		tickets = append(tickets, t)
	}

	m.logger.Info("tickets issued",
		zap.Int("concert", int(concertID)),
		zap.Int("attendee", int(attendeeID)),
		zap.Int("quantity", qty),
	)
	return tickets, nil
}

func (m *Module) undoIssue(concertID model.ConcertID, qty int, created []*model.Ticket) {
	for _, t := range created {
		if _, err := m.store.Delete(t.ID); err != nil {
			m.logger.Error("cannot remove partially issued ticket", zap.Int("id", int(t.ID)), zap.Error(err))
		}
	}
	if err := m.concerts.ReleaseSale(concertID, qty); err != nil {
		m.logger.Error("cannot release inventory", zap.Int("concert", int(concertID)), zap.Error(err))
	}
}

// Get returns the ticket with the given ID.
func (m *Module) Get(id model.TicketID) (*model.Ticket, error) {
	return m.store.Get(id)
}

// All returns every ticket in insertion order.
func (m *Module) All() []*model.Ticket {
	return m.store.All()
}

// Delete removes a ticket record without touching the concert inventory.
func (m *Module) Delete(id model.TicketID) (bool, error) {
	return m.store.Delete(id)
}

// FindByConcert returns the tickets of a concert.
func (m *Module) FindByConcert(id model.ConcertID) []*model.Ticket {
	return m.store.Find(func(t *model.Ticket) bool {
		return t.ConcertID == id
	})
}

// FindByAttendee returns the tickets an attendee holds.
func (m *Module) FindByAttendee(id model.AttendeeID) []*model.Ticket {
	return m.store.Find(func(t *model.Ticket) bool {
		return t.AttendeeID == id
	})
}

// FindByStatus returns the tickets in a status.
func (m *Module) FindByStatus(status model.TicketStatus) []*model.Ticket {
	return m.store.Find(func(t *model.Ticket) bool {
		return t.Status == status
	})
}

// FindByCode returns the ticket with the given code. Codes are compared
// case-insensitively.
func (m *Module) FindByCode(code string) (*model.Ticket, error) {
	code = strings.TrimSpace(code)
	found := m.store.Find(func(t *model.Ticket) bool {
		return code != "" && strings.EqualFold(t.Code, code)
	})
	if len(found) == 0 {
		return nil, fmt.Errorf("ticket %q: %w", code, store.ErrNotFound)
	}
	return found[0], nil
}

// CheckIn admits the holder of the ticket with the given code.
func (m *Module) CheckIn(code string) (*model.Ticket, error) {
	t, err := m.FindByCode(code)
	if err != nil {
		return nil, err
	}
	err = m.store.Update(t.ID, func(t *model.Ticket) error {
		status, err := t.Status.Transition(model.TicketCheckedIn)
		if err != nil {
			return fmt.Errorf("ticket %d: %w", t.ID, err)
		}
		t.Status = status
		t.CheckedInAt = m.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("ticket checked in", zap.Int("id", int(t.ID)), zap.Int("concert", int(t.ConcertID)))
	return t, nil
}

// Cancel cancels a ticket and returns it to the concert's inventory.
func (m *Module) Cancel(id model.TicketID) error {
	var concertID model.ConcertID
	err := m.store.Update(id, func(t *model.Ticket) error {
		status, err := t.Status.Transition(model.TicketCancelled)
		if err != nil {
			return fmt.Errorf("ticket %d: %w", id, err)
		}
		concertID = t.ConcertID
		t.Status = status
		return nil
	})
	if err != nil {
		return err
	}

	if err := m.concerts.ReleaseSale(concertID, 1); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("release ticket %d: %w", id, err)
	}
	m.logger.Info("ticket cancelled", zap.Int("id", int(id)))
	return nil
}

// ExpireForConcert expires every unused ticket of a concert and returns how
// many changed.
func (m *Module) ExpireForConcert(id model.ConcertID) (int, error) {
	n := 0
	for _, t := range m.FindByConcert(id) {
		if !t.Status.CanTransition(model.TicketExpired) {
			continue
		}
		err := m.store.Update(t.ID, func(t *model.Ticket) error {
			t.Status = model.TicketExpired
			return nil
		})
		if err != nil {
			return n, err
		}
		n++
	}
	if n > 0 {
		m.logger.Info("tickets expired", zap.Int("concert", int(id)), zap.Int("count", n))
	}
	return n, nil
}

// AttachPayment records the payment that paid for the tickets.
func (m *Module) AttachPayment(ids []model.TicketID, payment model.PaymentID) error {
	for _, id := range ids {
		err := m.store.Update(id, func(t *model.Ticket) error {
			t.PaymentID = payment
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderPass draws the admission pass of a ticket as a PNG image.
func (m *Module) RenderPass(ctx context.Context, id model.TicketID, scale int) ([]byte, error) {
	t, err := m.store.Get(id)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Concert #%d", t.ConcertID)
	var lines []string
	if c, err := m.concerts.Get(t.ConcertID); err == nil {
		title = c.Name
		lines = append(lines, c.StartsAt.Format("Mon 2 Jan 2006 15:04"))
	}
	lines = append(lines,
		fmt.Sprintf("Ticket #%d  %s", t.ID, t.Status),
		fmt.Sprintf("Holder #%d", t.AttendeeID),
		t.Code,
	)

	sum := sha256.Sum256([]byte(t.QRCode))
	card := ioutils.Card{
		Title:      title,
		Lines:      lines,
		Matrix:     sum[:],
		MatrixSize: passMatrixSize,
	}
	return m.images.RenderCard(ctx, card, scale)
}

func qrPayload(concertID model.ConcertID, attendeeID model.AttendeeID, code string) string {
	return fmt.Sprintf("CM|%d|%d|%s", concertID, attendeeID, code)
}
