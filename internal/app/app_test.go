package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/concert"
	"github.com/handiism/concert-manager/internal/config"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/payment"
	"github.com/handiism/concert-manager/internal/venue"
)

var clock = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

const visa = "4111111111111111"

func openApp(t *testing.T, dir string) *App {
	t.Helper()
	settings := config.DefaultSettings()
	settings.DataDir = dir
	settings.BcryptCost = bcrypt.MinCost

	a, err := Open(context.Background(), settings, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	a.now = func() time.Time { return clock }
	return a
}

func seeded(t *testing.T) (*App, *model.Attendee) {
	t.Helper()
	a := openApp(t, t.TempDir())
	if _, err := a.Seed(); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	demo, err := a.Attendees.FindByUsername(DemoUsername)
	if err != nil {
		t.Fatal(err)
	}
	return a, demo
}

func sold(t *testing.T, a *App, id model.ConcertID) int {
	t.Helper()
	c, err := a.Concerts.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	return c.Ticket.QuantitySold
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	a := openApp(t, dir)

	admin, err := a.Auth.Login("admin", "admin1234")
	if err != nil {
		t.Fatalf("Login() as seeded admin error = %v", err)
	}
	if !admin.Admin {
		t.Error("seeded account is not an admin")
	}

	again := openApp(t, dir)
	if n := len(again.Attendees.Admins()); n != 1 {
		t.Errorf("Admins() after reopen = %d, want 1", n)
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, venue.FileName), []byte("not a store"), 0644); err != nil {
		t.Fatal(err)
	}

	settings := config.DefaultSettings()
	settings.DataDir = dir
	if _, err := Open(context.Background(), settings, nil); !errors.Is(err, binfmt.ErrBadMagic) {
		t.Errorf("Open() with corrupt venues error = %v, want ErrBadMagic", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	settings.DataDir = t.TempDir()
	if _, err := Open(ctx, settings, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Open() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestSeed(t *testing.T) {
	a := openApp(t, t.TempDir())

	created, err := a.Seed()
	if err != nil || !created {
		t.Fatalf("Seed() = %v, %v; want true, nil", created, err)
	}
	if n := len(a.Concerts.All()); n != 3 {
		t.Errorf("concerts = %d, want 3", n)
	}
	if got := a.Performers.FindByConcert(1); len(got) != 2 {
		t.Errorf("performers of concert 1 = %d, want 2", len(got))
	}
	if _, err := a.Auth.Login(DemoUsername, DemoPassword); err != nil {
		t.Errorf("Login() as demo error = %v", err)
	}

	created, err = a.Seed()
	if err != nil || created {
		t.Errorf("second Seed() = %v, %v; want false, nil", created, err)
	}
}

func TestBuyTickets(t *testing.T) {
	a, demo := seeded(t)

	order, err := a.BuyTickets(Purchase{
		AttendeeID: demo.ID,
		ConcertID:  1,
		Quantity:   2,
		PromoCode:  "early",
		Method:     model.MethodCreditCard,
		CardNumber: visa,
	})
	if err != nil {
		t.Fatalf("BuyTickets() error = %v", err)
	}
	if order.UnitPriceCents != 3600 || order.Payment.AmountCents != 7200 {
		t.Errorf("order price = %d x 2 = %d, want 3600 x 2 = 7200", order.UnitPriceCents, order.Payment.AmountCents)
	}
	if order.Payment.Status != model.PaymentCompleted || order.Payment.PromoCode != "EARLY" {
		t.Errorf("payment = %+v", order.Payment)
	}
	for _, tk := range order.Tickets {
		if tk.PaymentID != order.Payment.ID {
			t.Errorf("ticket %d PaymentID = %d, want %d", tk.ID, tk.PaymentID, order.Payment.ID)
		}
	}
	if order.LoyaltyBalance != 72 {
		t.Errorf("LoyaltyBalance = %d, want 72", order.LoyaltyBalance)
	}
	if n := sold(t, a, 1); n != 2 {
		t.Errorf("sold = %d, want 2", n)
	}

	t.Run("bad card", func(t *testing.T) {
		_, err := a.BuyTickets(Purchase{AttendeeID: demo.ID, ConcertID: 1, Quantity: 2, Method: model.MethodDebitCard, CardNumber: "4111111111111112"})
		if !errors.Is(err, payment.ErrInvalidCard) {
			t.Fatalf("BuyTickets() error = %v, want ErrInvalidCard", err)
		}
		if n := sold(t, a, 1); n != 2 {
			t.Errorf("sold = %d after failed payment, want 2", n)
		}
		if got := a.Tickets.FindByStatus(model.TicketCancelled); len(got) != 2 {
			t.Errorf("cancelled tickets = %d, want 2", len(got))
		}
		if got := a.Payments.FindByStatus(model.PaymentFailed); len(got) != 1 {
			t.Errorf("failed payments = %d, want 1", len(got))
		}
	})

	t.Run("unknown promotion", func(t *testing.T) {
		_, err := a.BuyTickets(Purchase{AttendeeID: demo.ID, ConcertID: 1, Quantity: 1, PromoCode: "FREE", Method: model.MethodCash})
		if !errors.Is(err, concert.ErrPromotionNotFound) {
			t.Errorf("BuyTickets() error = %v, want ErrPromotionNotFound", err)
		}
	})

	t.Run("unknown attendee", func(t *testing.T) {
		if _, err := a.BuyTickets(Purchase{AttendeeID: 99, ConcertID: 1, Quantity: 1, Method: model.MethodCash}); err == nil {
			t.Error("BuyTickets() for unknown attendee should fail")
		}
	})
}

func TestRefundPayment(t *testing.T) {
	a, demo := seeded(t)

	order, err := a.BuyTickets(Purchase{AttendeeID: demo.ID, ConcertID: 2, Quantity: 3, Method: model.MethodPayPal})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Tickets.CheckIn(order.Tickets[0].Code); err != nil {
		t.Fatal(err)
	}

	if err := a.RefundPayment(order.Payment.ID); err != nil {
		t.Fatalf("RefundPayment() error = %v", err)
	}
	if p, _ := a.Payments.Get(order.Payment.ID); p.Status != model.PaymentRefunded {
		t.Errorf("payment status = %v, want REFUNDED", p.Status)
	}
	if n := sold(t, a, 2); n != 1 {
		t.Errorf("sold = %d, want 1 (the checked in ticket)", n)
	}
	if got, _ := a.Attendees.Get(demo.ID); got.LoyaltyPoints != 0 {
		t.Errorf("LoyaltyPoints = %d, want 0", got.LoyaltyPoints)
	}

	if err := a.RefundPayment(order.Payment.ID); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("second RefundPayment() error = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelConcert(t *testing.T) {
	a, demo := seeded(t)
	admin, _ := a.Attendees.FindByUsername("admin")

	if _, err := a.BuyTickets(Purchase{AttendeeID: demo.ID, ConcertID: 1, Quantity: 1, Method: model.MethodCash}); err != nil {
		t.Fatal(err)
	}

	refunds, err := a.CancelConcert(1, admin.ID)
	if err != nil {
		t.Fatalf("CancelConcert() error = %v", err)
	}
	if refunds != 1 {
		t.Errorf("refunds = %d, want 1", refunds)
	}
	if c, _ := a.Concerts.Get(1); c.Status != model.EventCancelled || c.Ticket.QuantitySold != 0 {
		t.Errorf("concert = %v with %d sold, want CANCELLED with 0", c.Status, c.Ticket.QuantitySold)
	}
	inbox := a.Comms.Inbox(demo.ID)
	if len(inbox) != 1 || inbox[0].Subject != "Summer Opener is cancelled" {
		t.Errorf("Inbox() = %+v", inbox)
	}

	if _, err := a.CancelConcert(1, admin.ID); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("second CancelConcert() error = %v, want ErrInvalidTransition", err)
	}
}

func TestCompleteConcert(t *testing.T) {
	a, demo := seeded(t)

	order, err := a.BuyTickets(Purchase{AttendeeID: demo.ID, ConcertID: 3, Quantity: 2, Method: model.MethodBankTransfer})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Tickets.CheckIn(order.Tickets[1].Code); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Feedback.Submit(&model.Feedback{ConcertID: 3, AttendeeID: demo.ID, Rating: 4}); err != nil {
		t.Fatal(err)
	}

	r, err := a.CompleteConcert(3)
	if err != nil {
		t.Fatalf("CompleteConcert() error = %v", err)
	}
	if r.TicketsSold != 2 || r.TicketsCheckedIn != 1 || r.RevenueCents != 7000 || r.AverageRating != 4 {
		t.Errorf("report = %+v", r)
	}
	if r.VenueCapacity != 1200 || r.PerformerCount != 1 || r.CrewCount != 1 {
		t.Errorf("report context = %+v", r)
	}
	if got := a.Tickets.FindByStatus(model.TicketExpired); len(got) != 1 {
		t.Errorf("expired tickets = %d, want 1", len(got))
	}
}
