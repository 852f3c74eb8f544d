package app

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/comms"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/payment"
)

// PointsPerUnit is the loyalty points earned per whole currency unit paid.
const PointsPerUnit = 1

// Purchase is an attendee's request to buy tickets.
type Purchase struct {
	AttendeeID model.AttendeeID
	ConcertID  model.ConcertID
	Quantity   int
	PromoCode  string
	Method     model.PaymentMethod
	CardNumber string
	CardExpiry string
}

// Order is a completed purchase.
type Order struct {
	Tickets        []*model.Ticket
	Payment        *model.Payment
	UnitPriceCents int

	// LoyaltyBalance is the attendee's points after the purchase.
	LoyaltyBalance int
}

// BuyTickets prices, issues and pays for tickets in one step.
//
// A promotion code is applied to the base price. If the payment fails the
// tickets are cancelled again, the failed payment stays on record and the
// payment error is returned.
func (a *App) BuyTickets(p Purchase) (*Order, error) {
	if _, err := a.Attendees.Get(p.AttendeeID); err != nil {
		return nil, err
	}
	c, err := a.Concerts.Get(p.ConcertID)
	if err != nil {
		return nil, err
	}

	price := c.Ticket.BasePriceCents
	if code := strings.TrimSpace(p.PromoCode); code != "" {
		price, err = a.Concerts.ApplyPromotion(p.ConcertID, code, a.now())
		if err != nil {
			return nil, err
		}
	}

	tickets, err := a.Tickets.Issue(p.ConcertID, p.AttendeeID, p.Quantity, price)
	if err != nil {
		return nil, err
	}
	ids := make([]model.TicketID, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}

	pay, err := a.Payments.Process(payment.Request{
		AttendeeID:  p.AttendeeID,
		ConcertID:   p.ConcertID,
		TicketIDs:   ids,
		AmountCents: price * p.Quantity,
		Method:      p.Method,
		PromoCode:   p.PromoCode,
		CardNumber:  p.CardNumber,
		CardExpiry:  p.CardExpiry,
	})
	if err != nil {
		a.cancelTickets(ids)
		return nil, err
	}
	if err := a.Tickets.AttachPayment(ids, pay.ID); err != nil {
		return nil, err
	}

	balance, err := a.Attendees.AddLoyaltyPoints(p.AttendeeID, points(pay.AmountCents))
	if err != nil {
		a.Logger.Warn("cannot credit loyalty points", zap.Int("attendee", int(p.AttendeeID)), zap.Error(err))
	}

	a.Logger.Info("order placed",
		zap.Int("attendee", int(p.AttendeeID)),
		zap.Int("concert", int(p.ConcertID)),
		zap.Int("quantity", p.Quantity),
		zap.Int("payment", int(pay.ID)),
	)
	return &Order{
		Tickets:        tickets,
		Payment:        pay,
		UnitPriceCents: price,
		LoyaltyBalance: balance,
	}, nil
}

// RefundPayment refunds a completed payment, cancels the tickets it paid
// for that are still unused and takes back the loyalty points it earned.
func (a *App) RefundPayment(id model.PaymentID) error {
	p, err := a.Payments.Get(id)
	if err != nil {
		return err
	}
	if err := a.Payments.Refund(id); err != nil {
		return err
	}

	var cancel []model.TicketID
	for _, tid := range p.TicketIDs {
		if t, err := a.Tickets.Get(tid); err == nil && t.Status == model.TicketSold {
			cancel = append(cancel, tid)
		}
	}
	a.cancelTickets(cancel)

	if pts := points(p.AmountCents); pts > 0 {
		if _, err := a.Attendees.AddLoyaltyPoints(p.AttendeeID, -pts); err != nil {
			a.Logger.Warn("cannot take back loyalty points", zap.Int("attendee", int(p.AttendeeID)), zap.Error(err))
		}
	}
	return nil
}

// CompleteConcert marks a concert as completed, expires its unused tickets
// and generates its final report.
func (a *App) CompleteConcert(id model.ConcertID) (*model.ConcertReport, error) {
	if err := a.Concerts.ChangeStatus(id, model.EventCompleted); err != nil {
		return nil, err
	}
	if _, err := a.Tickets.ExpireForConcert(id); err != nil {
		return nil, err
	}
	return a.Reports.Generate(id, a.now())
}

// CancelConcert cancels a concert, notifies its ticket holders and refunds
// every completed payment. It returns the number of refunds.
func (a *App) CancelConcert(id model.ConcertID, sender model.AttendeeID) (int, error) {
	c, err := a.Concerts.Get(id)
	if err != nil {
		return 0, err
	}
	if err := a.Concerts.ChangeStatus(id, model.EventCancelled); err != nil {
		return 0, err
	}

	subject := fmt.Sprintf("%s is cancelled", c.Name)
	message := fmt.Sprintf("%s on %s has been cancelled. Your payment will be refunded.", c.Name, c.StartsAt.Format("2 Jan 2006"))
	if _, err := a.Comms.Broadcast(a.Tickets, id, sender, subject, message); err != nil && !errors.Is(err, comms.ErrNoRecipients) {
		return 0, err
	}

	refunds := 0
	for _, p := range a.Payments.FindByConcert(id) {
		if p.Status != model.PaymentCompleted {
			continue
		}
		if err := a.RefundPayment(p.ID); err != nil {
			return refunds, err
		}
		refunds++
	}
	return refunds, nil
}

func (a *App) cancelTickets(ids []model.TicketID) {
	for _, id := range ids {
		if err := a.Tickets.Cancel(id); err != nil {
			a.Logger.Error("cannot cancel ticket", zap.Int("id", int(id)), zap.Error(err))
		}
	}
}

func points(amountCents int) int {
	return amountCents / 100 * PointsPerUnit
}
