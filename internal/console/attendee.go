package console

import (
	"fmt"
	"strings"

	"github.com/handiism/concert-manager/internal/app"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
	"github.com/handiism/concert-manager/internal/validate"
)

func (s *Shell) attendeeMenu() error {
	if n := s.app.Comms.Unread(s.user.ID); n > 0 {
		s.printf("You have %d unread message(s).\n", n)
	}
	return s.loop("Attendee menu", "Logout", []action{
		{"Browse upcoming concerts", s.browse},
		{"Buy tickets", s.buyTickets},
		{"My tickets", s.myTickets},
		{"Cancel ticket", s.cancelTicket},
		{"Check in", s.checkIn},
		{"Leave feedback", s.leaveFeedback},
		{"Inbox", s.inbox},
		{"Send chat message", s.chat},
		{"Change password", s.changePassword},
	})
}

func (s *Shell) browse() error {
	s.concertTable(s.app.Concerts.Upcoming(s.app.Now()))
	return nil
}

// onSaleConcert asks for a concert ID until it names a concert on sale.
func (s *Shell) onSaleConcert() (*model.Concert, error) {
	var c *model.Concert
	_, err := s.askValid("Concert ID: ", func(x string) error {
		id, err := validate.PositiveInt("concert ID", x)
		if err != nil {
			return err
		}
		c, err = s.app.Concerts.Get(model.ConcertID(id))
		if err != nil {
			return err
		}
		if !c.OnSale() {
			return validate.Error{Field: "concert", Message: "not on sale"}
		}
		return nil
	})
	return c, err
}

func (s *Shell) buyTickets() error {
	if err := s.browse(); err != nil {
		return err
	}
	c, err := s.onSaleConcert()
	if err != nil {
		return err
	}

	p := app.Purchase{AttendeeID: s.user.ID, ConcertID: c.ID}
	for {
		if p.Quantity, err = s.askInt("Quantity: ", "quantity", validate.PositiveInt); err != nil {
			return err
		}
		if p.Quantity <= c.Ticket.QuantityAvailable {
			break
		}
		s.printf("Only %d ticket(s) left. Please try again.\n", c.Ticket.QuantityAvailable)
	}

	if p.PromoCode, err = s.ask("Promotion code (optional): "); err != nil {
		return err
	}

	methods := []model.PaymentMethod{
		model.MethodCreditCard, model.MethodDebitCard, model.MethodPayPal,
		model.MethodBankTransfer, model.MethodCash,
	}
	s.println("Payment method: 1. Credit card  2. Debit card  3. PayPal  4. Bank transfer  5. Cash")
	n, err := s.askRange("Method: ", 1, len(methods))
	if err != nil {
		return err
	}
	p.Method = methods[n-1]

	if p.Method.IsCard() {
		if p.CardNumber, err = s.askValid("Card number: ", func(x string) error { return validate.CardNumber("card number", x) }); err != nil {
			return err
		}
		now := s.app.Now()
		if p.CardExpiry, err = s.askValid("Expiry (MM/YY): ", func(x string) error { return validate.CardExpiry("expiry", x, now) }); err != nil {
			return err
		}
	}

	order, err := s.app.BuyTickets(p)
	if err != nil {
		return err
	}

	s.printf("Purchased %d ticket(s) for %s at %s each. Total %s.\n",
		len(order.Tickets), c.Name, s.money(order.UnitPriceCents), s.money(order.Payment.AmountCents))
	s.printf("Transaction: %s\n", order.Payment.TransactionID)
	for _, t := range order.Tickets {
		s.printf("  Ticket %d: %s\n", t.ID, t.Code)
	}
	s.printf("Loyalty points: %d\n", order.LoyaltyBalance)
	return nil
}

func (s *Shell) myTickets() error {
	tickets := s.app.Tickets.FindByAttendee(s.user.ID)
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		name := "-"
		if c, err := s.app.Concerts.Get(t.ConcertID); err == nil {
			name = c.Name
		}
		rows = append(rows, []string{itoa(t.ID), name, t.Status.String(), s.money(t.PriceCents), t.Code})
	}
	s.table([]string{"ID", "Concert", "Status", "Price", "Code"}, rows)
	return nil
}

// ownTicket returns the user's ticket with the given ID. Tickets of other
// attendees are reported as not found.
func (s *Shell) ownTicket(id model.TicketID) (*model.Ticket, error) {
	t, err := s.app.Tickets.Get(id)
	if err != nil {
		return nil, err
	}
	if t.AttendeeID != s.user.ID {
		return nil, fmt.Errorf("ticket %d: %w", id, store.ErrNotFound)
	}
	return t, nil
}

func (s *Shell) cancelTicket() error {
	id, err := s.askID("Ticket ID: ")
	if err != nil {
		return err
	}
	if _, err := s.ownTicket(model.TicketID(id)); err != nil {
		return err
	}
	ok, err := s.askYes("Cancel this ticket?")
	if err != nil || !ok {
		return err
	}
	if err := s.app.Tickets.Cancel(model.TicketID(id)); err != nil {
		return err
	}
	s.println("Ticket cancelled.")
	return nil
}

func (s *Shell) checkIn() error {
	code, err := s.askValid("Ticket code: ", required("code"))
	if err != nil {
		return err
	}
	t, err := s.app.Tickets.FindByCode(code)
	if err != nil {
		return err
	}
	if t.AttendeeID != s.user.ID {
		return store.ErrNotFound
	}
	if _, err := s.app.Tickets.CheckIn(code); err != nil {
		return err
	}
	s.printf("Ticket %d checked in. Enjoy the show!\n", t.ID)
	return nil
}

func (s *Shell) leaveFeedback() error {
	var concert model.ConcertID
	_, err := s.askValid("Concert ID: ", func(x string) error {
		id, err := validate.PositiveInt("concert ID", x)
		if err != nil {
			return err
		}
		concert = model.ConcertID(id)
		for _, t := range s.app.Tickets.FindByAttendee(s.user.ID) {
			if t.ConcertID == concert && t.Status != model.TicketCancelled {
				return nil
			}
		}
		return validate.Error{Field: "concert", Message: "you have no ticket for it"}
	})
	if err != nil {
		return err
	}

	var rating int
	_, err = s.askValid("Rating (1-5): ", func(x string) error {
		var err error
		if rating, err = validate.PositiveInt("rating", x); err != nil {
			return err
		}
		return validate.Rating("rating", rating)
	})
	if err != nil {
		return err
	}
	comment, err := s.ask("Comment (optional): ")
	if err != nil {
		return err
	}

	if _, err := s.app.Feedback.Submit(&model.Feedback{
		ConcertID:  concert,
		AttendeeID: s.user.ID,
		Rating:     rating,
		Comment:    comment,
	}); err != nil {
		return err
	}
	s.println("Thank you for your feedback.")
	return nil
}

func (s *Shell) inbox() error {
	logs := s.app.Comms.Inbox(s.user.ID)
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		from := "-"
		if a, err := s.app.Attendees.Get(l.SenderID); err == nil {
			from = a.Username
		}
		mark := ""
		if !l.ReadByRecipient(s.user.ID) {
			mark = "new"
		}
		text := l.Message
		if l.Subject != "" {
			text = l.Subject + ": " + text
		}
		rows = append(rows, []string{itoa(l.ID), formatTime(l.SentAt), from, l.Channel.String(), mark, text})
	}
	s.table([]string{"ID", "Sent", "From", "Channel", "", "Message"}, rows)

	for _, l := range logs {
		if !l.ReadByRecipient(s.user.ID) {
			if err := s.app.Comms.MarkRead(l.ID, s.user.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Shell) chat() error {
	var peer *model.Attendee
	_, err := s.askValid("To (username): ", func(x string) error {
		var err error
		peer, err = s.app.Attendees.FindByUsername(x)
		if err != nil {
			return validate.Error{Field: "username", Message: "no such user"}
		}
		if peer.ID == s.user.ID {
			return validate.Error{Field: "username", Message: "cannot message yourself"}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, l := range s.app.Comms.Conversation(s.user.ID, peer.ID) {
		from := peer.Username
		if l.SenderID == s.user.ID {
			from = "you"
		}
		s.printf("[%s] %s: %s\n", formatTime(l.SentAt), from, l.Message)
	}

	msg, err := s.ask("Message (empty to cancel): ")
	if err != nil || strings.TrimSpace(msg) == "" {
		return err
	}
	if _, err := s.app.Comms.Send(&model.CommunicationLog{
		SenderID:     s.user.ID,
		RecipientIDs: []model.AttendeeID{peer.ID},
		Channel:      model.ChannelChat,
		Message:      msg,
	}); err != nil {
		return err
	}
	s.println("Message sent.")
	return nil
}

func (s *Shell) changePassword() error {
	current, err := s.ask("Current password: ")
	if err != nil {
		return err
	}
	next, err := s.askValid("New password: ", func(x string) error { return validate.Password("password", x) })
	if err != nil {
		return err
	}
	if err := s.app.Auth.ChangePassword(s.user.ID, current, next); err != nil {
		return err
	}
	s.println("Password changed.")
	return nil
}
