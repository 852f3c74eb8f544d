// Package payment records money taken for tickets.
package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
	"github.com/handiism/concert-manager/internal/validate"
)

// FileName is the data file holding payments.
const FileName = "payments.dat"

var (
	// ErrInvalidCard is returned when a card payment has a malformed or
	// expired card. The failed payment is still recorded.
	ErrInvalidCard = errors.New("invalid card")

	// ErrInvalid is returned for a payment request that cannot be recorded.
	ErrInvalid = errors.New("invalid payment")
)

// Request describes a payment to process.
type Request struct {
	AttendeeID  model.AttendeeID
	ConcertID   model.ConcertID
	TicketIDs   []model.TicketID
	AmountCents int
	Method      model.PaymentMethod
	PromoCode   string

	// CardNumber and CardExpiry (MM/YY) are required for card methods and
	// never stored; only the last four digits are kept.
	CardNumber string
	CardExpiry string
}

// Module stores payments.
type Module struct {
	store  *store.Store[model.Payment, model.PaymentID]
	logger *zap.Logger
	now    func() time.Time
}

// Open loads the payments stored at path.
func Open(path string, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.Payment, model.PaymentID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{store: s, logger: logger.Named("payment"), now: time.Now}, nil
}

// Process records a payment. Card payments are checked with the Luhn
// checksum and the expiry date: a bad card is stored as FAILED and
// ErrInvalidCard is returned along with the payment. Otherwise the payment
// moves from PENDING to COMPLETED and gets a transaction ID.
func (m *Module) Process(req Request) (*model.Payment, error) {
	if req.AmountCents < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalid)
	}
	if !req.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown method %d", ErrInvalid, int(req.Method))
	}

	now := m.now().UTC()
	p := &model.Payment{
		AttendeeID:  req.AttendeeID,
		ConcertID:   req.ConcertID,
		TicketIDs:   req.TicketIDs,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Status:      model.PaymentPending,
		PromoCode:   strings.ToUpper(strings.TrimSpace(req.PromoCode)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var cardErr error
	if req.Method.IsCard() {
		cardErr = checkCard(req.CardNumber, req.CardExpiry, now)
		if digits := validate.Digits(req.CardNumber); len(digits) >= 4 {
			p.CardLast4 = digits[len(digits)-4:]
		}
	}

	next := model.PaymentCompleted
	if cardErr != nil {
		next = model.PaymentFailed
	}
	status, err := p.Status.Transition(next)
	if err != nil {
		return nil, err
	}
	p.Status = status
	if status == model.PaymentCompleted {
		p.TransactionID = uuid.NewString()
	}

	id, err := m.store.Create(p)
	if err != nil {
		return nil, err
	}
	m.logger.Info("payment processed",
		zap.Int("id", int(id)),
		zap.Int("attendee", int(p.AttendeeID)),
		zap.Int("amount_cents", p.AmountCents),
		zap.Stringer("method", p.Method),
		zap.Stringer("status", p.Status),
	)
	if cardErr != nil {
		return p, cardErr
	}
	return p, nil
}

// Get returns the payment with the given ID.
func (m *Module) Get(id model.PaymentID) (*model.Payment, error) {
	return m.store.Get(id)
}

// All returns every payment in insertion order.
func (m *Module) All() []*model.Payment {
	return m.store.All()
}

// Delete removes a payment record. It reports whether the payment existed.
func (m *Module) Delete(id model.PaymentID) (bool, error) {
	return m.store.Delete(id)
}

// UpdateStatus moves a payment to next if the transition is allowed. A
// failed payment retried to PENDING gets no new transaction ID until it
// completes.
func (m *Module) UpdateStatus(id model.PaymentID, next model.PaymentStatus) error {
	err := m.store.Update(id, func(p *model.Payment) error {
		status, err := p.Status.Transition(next)
		if err != nil {
			return fmt.Errorf("payment %d: %w", id, err)
		}
		p.Status = status
		p.UpdatedAt = m.now().UTC()
		if status == model.PaymentCompleted && p.TransactionID == "" {
			p.TransactionID = uuid.NewString()
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.logger.Info("payment status changed", zap.Int("id", int(id)), zap.Stringer("status", next))
	return nil
}

// Refund marks a completed payment as refunded.
func (m *Module) Refund(id model.PaymentID) error {
	return m.UpdateStatus(id, model.PaymentRefunded)
}

// FindByAttendee returns an attendee's payments.
func (m *Module) FindByAttendee(id model.AttendeeID) []*model.Payment {
	return m.store.Find(func(p *model.Payment) bool {
		return p.AttendeeID == id
	})
}

// FindByConcert returns the payments for a concert.
func (m *Module) FindByConcert(id model.ConcertID) []*model.Payment {
	return m.store.Find(func(p *model.Payment) bool {
		return p.ConcertID == id
	})
}

// FindByStatus returns the payments in a status.
func (m *Module) FindByStatus(status model.PaymentStatus) []*model.Payment {
	return m.store.Find(func(p *model.Payment) bool {
		return p.Status == status
	})
}

// FindByTransaction returns the payment with a transaction ID.
func (m *Module) FindByTransaction(txID string) (*model.Payment, error) {
	found := m.store.Find(func(p *model.Payment) bool {
		return txID != "" && p.TransactionID == txID
	})
	if len(found) == 0 {
		return nil, fmt.Errorf("payment with transaction %q: %w", txID, store.ErrNotFound)
	}
	return found[0], nil
}

// Totals sums completed and refunded amounts.
type Totals struct {
	CompletedCents int
	RefundedCents  int
}

// TotalRevenue sums the amounts of all payments, or of one concert's
// payments when concert is non-zero.
func (m *Module) TotalRevenue(concert model.ConcertID) Totals {
	var t Totals
	for _, p := range m.store.All() {
		if concert != 0 && p.ConcertID != concert {
			continue
		}
		switch p.Status {
		case model.PaymentCompleted:
			t.CompletedCents += p.AmountCents
		case model.PaymentRefunded:
			t.RefundedCents += p.AmountCents
		}
	}
	return t
}

func checkCard(number, expiry string, now time.Time) error {
	if err := validate.CardNumber("card number", number); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if expiry == "" {
		return nil
	}
	if err := validate.CardExpiry("card expiry", expiry, now); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	return nil
}
