package model

import (
	"errors"
	"testing"
	"time"
)

func TestEventStatus_Transitions(t *testing.T) {
	tests := []struct {
		from EventStatus
		to   EventStatus
		ok   bool
	}{
		{EventScheduled, EventCancelled, true},
		{EventScheduled, EventSoldOut, true},
		{EventPostponed, EventScheduled, true},
		{EventSoldOut, EventScheduled, true},
		{EventCompleted, EventScheduled, false},
		{EventCancelled, EventScheduled, false},
		{EventPostponed, EventCompleted, false},
		{EventScheduled, EventScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if tt.ok {
				if err != nil || got != tt.to {
					t.Errorf("Transition() = %v, %v; want %v, nil", got, err, tt.to)
				}
				return
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Transition() error = %v, want ErrInvalidTransition", err)
			}
			if got != tt.from {
				t.Errorf("Transition() = %v, want unchanged %v", got, tt.from)
			}
		})
	}
}

func TestTicketStatus_Terminal(t *testing.T) {
	for _, s := range []TicketStatus{TicketCheckedIn, TicketCancelled, TicketExpired} {
		for next := TicketAvailable; next <= TicketExpired; next++ {
			if s.CanTransition(next) {
				t.Errorf("%s should not transition to %s", s, next)
			}
		}
	}
	if !TicketSold.CanTransition(TicketCheckedIn) {
		t.Error("SOLD should transition to CHECKED_IN")
	}
}

func TestPaymentStatus_Transitions(t *testing.T) {
	if !PaymentFailed.CanTransition(PaymentPending) {
		t.Error("FAILED should allow a retry back to PENDING")
	}
	if PaymentPending.CanTransition(PaymentRefunded) {
		t.Error("PENDING must not be refunded directly")
	}
	if _, err := PaymentRefunded.Transition(PaymentCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("REFUNDED -> COMPLETED error = %v", err)
	}
}

func TestParseEnums(t *testing.T) {
	if got, err := ParseEventStatus(" soldout "); err != nil || got != EventSoldOut {
		t.Errorf("ParseEventStatus() = %v, %v", got, err)
	}
	if got, err := ParsePaymentMethod("paypal"); err != nil || got != MethodPayPal {
		t.Errorf("ParsePaymentMethod() = %v, %v", got, err)
	}
	if got, err := ParseChannel("Chat"); err != nil || got != ChannelChat {
		t.Errorf("ParseChannel() = %v, %v", got, err)
	}
	if _, err := ParseTicketStatus("RESERVED"); !errors.Is(err, ErrUnknownValue) {
		t.Errorf("ParseTicketStatus(RESERVED) error = %v, want ErrUnknownValue", err)
	}
	if got := EventStatus(42).String(); got != "EventStatus(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestRemoveID(t *testing.T) {
	ids := []PerformerID{1, 2, 3, 2}

	got, removed := RemoveID(ids, 2)
	if !removed || len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("RemoveID() = %v, %v", got, removed)
	}
	if ids[1] != 2 {
		t.Error("RemoveID() must not modify its input")
	}

	got, removed = RemoveID([]PerformerID{5}, 5)
	if !removed || got != nil {
		t.Errorf("RemoveID() of last element = %v, want nil", got)
	}

	if _, removed := RemoveID(ids, 9); removed {
		t.Error("RemoveID() reported removal of a missing ID")
	}
}

func TestPromotion(t *testing.T) {
	until := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := Promotion{Code: "EARLY", DiscountPercent: 15, ValidUntil: until}

	if got := p.Apply(10000); got != 8500 {
		t.Errorf("Apply() = %d, want 8500", got)
	}
	if !p.ActiveAt(until) {
		t.Error("promotion should be active on its last instant")
	}
	if p.ActiveAt(until.Add(time.Second)) {
		t.Error("promotion should expire after ValidUntil")
	}
	if got := (Promotion{DiscountPercent: 150}).Apply(1000); got != 0 {
		t.Errorf("Apply() with >100%% = %d, want 0", got)
	}

	c := &Concert{Promotions: []Promotion{p}}
	if _, ok := c.Promotion("early"); !ok {
		t.Error("Promotion() lookup should ignore case")
	}
}

func TestConcertTicket_SellThrough(t *testing.T) {
	tk := ConcertTicket{QuantityAvailable: 75, QuantitySold: 25}
	if got := tk.SellThrough(); got != 0.25 {
		t.Errorf("SellThrough() = %v, want 0.25", got)
	}
	if got := (ConcertTicket{}).SellThrough(); got != 0 {
		t.Errorf("empty SellThrough() = %v, want 0", got)
	}
}
