package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/handiism/concert-manager/internal/export"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
	"github.com/handiism/concert-manager/internal/validate"
)

func (s *Shell) adminMenu() error {
	return s.loop("Admin menu", "Logout", []action{
		{"Venues", s.venueMenu},
		{"Concerts", s.concertMenu},
		{"Performers", s.performerMenu},
		{"Crew", s.crewMenu},
		{"Attendees", s.attendeeAdminMenu},
		{"Tickets", s.ticketMenu},
		{"Payments", s.paymentMenu},
		{"Feedback", s.feedbackMenu},
		{"Communication", s.commsMenu},
		{"Reports", s.reportMenu},
		{"Export", s.exportConcerts},
	})
}

// Venues.

func (s *Shell) venueMenu() error {
	return s.loop("Venues", "Back", []action{
		{"List venues", func() error { s.venueTable(s.app.Venues.All()); return nil }},
		{"Add venue", s.addVenue},
		{"Search by name", func() error {
			q, err := s.ask("Name contains: ")
			if err != nil {
				return err
			}
			s.venueTable(s.app.Venues.SearchByName(q))
			return nil
		}},
		{"Find by city", func() error {
			city, err := s.ask("City: ")
			if err != nil {
				return err
			}
			s.venueTable(s.app.Venues.FindByCity(city))
			return nil
		}},
		{"Delete venue", func() error {
			id, err := s.askID("Venue ID: ")
			if err != nil {
				return err
			}
			if n := len(s.app.Concerts.FindByVenue(model.VenueID(id))); n > 0 {
				s.printf("Venue has %d concert(s) and cannot be deleted.\n", n)
				return nil
			}
			return s.deleted(s.app.Venues.Delete(model.VenueID(id)))
		}},
	})
}

func (s *Shell) venueTable(venues []*model.Venue) {
	rows := make([][]string, 0, len(venues))
	for _, v := range venues {
		rows = append(rows, []string{itoa(v.ID), v.Name, v.Location(), s.printer.Sprintf("%d", v.Capacity)})
	}
	s.table([]string{"ID", "Name", "Location", "Capacity"}, rows)
}

func (s *Shell) addVenue() error {
	var v model.Venue
	var err error

	if v.Name, err = s.askValid("Name: ", required("name")); err != nil {
		return err
	}
	if v.Address, err = s.ask("Address: "); err != nil {
		return err
	}
	if v.City, err = s.askValid("City: ", required("city")); err != nil {
		return err
	}
	if v.State, err = s.ask("State: "); err != nil {
		return err
	}
	if v.ZipCode, err = s.askOptional("Postal code: ", func(x string) error { return validate.PostalCode("postal code", x) }); err != nil {
		return err
	}
	if v.Country, err = s.ask("Country: "); err != nil {
		return err
	}
	if v.Capacity, err = s.askInt("Capacity: ", "capacity", validate.PositiveInt); err != nil {
		return err
	}
	if v.ContactInfo, err = s.ask("Contact: "); err != nil {
		return err
	}

	id, err := s.app.Venues.Create(&v)
	if err != nil {
		return err
	}
	s.printf("Venue %d created.\n", id)
	return nil
}

// Concerts.

func (s *Shell) concertMenu() error {
	return s.loop("Concerts", "Back", []action{
		{"List concerts", func() error { s.concertTable(s.app.Concerts.All()); return nil }},
		{"Add concert", s.addConcert},
		{"Search by name", func() error {
			q, err := s.ask("Name contains: ")
			if err != nil {
				return err
			}
			s.concertTable(s.app.Concerts.SearchByName(q))
			return nil
		}},
		{"Show details", s.showConcert},
		{"Change status", s.changeConcertStatus},
		{"Assign performer", s.assignPerformer},
		{"Add promotion", s.addPromotion},
		{"Complete concert", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			r, err := s.app.CompleteConcert(model.ConcertID(id))
			if err != nil {
				return err
			}
			s.println("Concert completed.")
			s.println(r.Summary)
			return nil
		}},
		{"Cancel concert", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			ok, err := s.askYes("Cancel the concert and refund every payment?")
			if err != nil || !ok {
				return err
			}
			n, err := s.app.CancelConcert(model.ConcertID(id), s.user.ID)
			if err != nil {
				return err
			}
			s.printf("Concert cancelled, %d payment(s) refunded.\n", n)
			return nil
		}},
		{"Delete concert", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			if n := len(s.app.Tickets.FindByConcert(model.ConcertID(id))); n > 0 {
				s.printf("Concert has %d ticket(s) and cannot be deleted.\n", n)
				return nil
			}
			return s.deleted(s.app.Concerts.Delete(model.ConcertID(id)))
		}},
		{"Remove performer", s.removePerformer},
	})
}

func (s *Shell) concertTable(concerts []*model.Concert) {
	rows := make([][]string, 0, len(concerts))
	for _, c := range concerts {
		venue := "-"
		if v, err := s.app.Venues.Get(c.VenueID); err == nil {
			venue = v.Name
		}
		rows = append(rows, []string{
			itoa(c.ID), c.Name, formatTime(c.StartsAt), venue, c.Status.String(),
			s.money(c.Ticket.BasePriceCents), s.printer.Sprintf("%d", c.Ticket.QuantityAvailable),
		})
	}
	s.table([]string{"ID", "Name", "Starts", "Venue", "Status", "Price", "Available"}, rows)
}

func (s *Shell) addConcert() error {
	var c model.Concert
	var err error

	if c.Name, err = s.askValid("Name: ", required("name")); err != nil {
		return err
	}
	if c.Description, err = s.ask("Description: "); err != nil {
		return err
	}

	var venue *model.Venue
	_, err = s.askValid("Venue ID: ", func(x string) error {
		id, err := validate.PositiveInt("venue ID", x)
		if err != nil {
			return err
		}
		venue, err = s.app.Venues.Get(model.VenueID(id))
		return err
	})
	if err != nil {
		return err
	}
	c.VenueID = venue.ID

	if c.StartsAt, err = s.askDateTime("Starts (YYYY-MM-DD HH:MM): ", "start", false); err != nil {
		return err
	}
	for {
		if c.EndsAt, err = s.askDateTime("Ends (YYYY-MM-DD HH:MM, optional): ", "end", true); err != nil {
			return err
		}
		if c.EndsAt.IsZero() || c.EndsAt.After(c.StartsAt) {
			break
		}
		s.println("The end must be after the start. Please try again.")
	}

	if c.Ticket.BasePriceCents, err = s.askMoney("Ticket price: ", "price"); err != nil {
		return err
	}
	for {
		if c.Ticket.QuantityAvailable, err = s.askInt("Tickets for sale: ", "quantity", validate.PositiveInt); err != nil {
			return err
		}
		if venue.Capacity <= 0 || c.Ticket.QuantityAvailable <= venue.Capacity {
			break
		}
		s.printf("Ticket quantity exceeds the venue capacity of %d. Please try again.\n", venue.Capacity)
	}

	id, err := s.app.Concerts.Create(&c)
	if err != nil {
		return err
	}
	s.printf("Concert %d created.\n", id)
	return nil
}

func (s *Shell) showConcert() error {
	id, err := s.askID("Concert ID: ")
	if err != nil {
		return err
	}
	c, err := s.app.Concerts.Get(model.ConcertID(id))
	if err != nil {
		return err
	}

	s.printf("%s (%s)\n", c.Name, c.Status)
	if c.Description != "" {
		s.println(c.Description)
	}
	s.printf("Starts:    %s\n", formatTime(c.StartsAt))
	s.printf("Ends:      %s\n", formatTime(c.EndsAt))
	s.printf("Price:     %s\n", s.money(c.Ticket.BasePriceCents))
	s.printf("Sold:      %d of %d (%.0f%%)\n", c.Ticket.QuantitySold, c.Ticket.Total(), c.Ticket.SellThrough()*100)

	var names []string
	for _, p := range s.app.Performers.FindByConcert(c.ID) {
		names = append(names, p.Name)
	}
	if len(names) > 0 {
		s.printf("Lineup:    %s\n", strings.Join(names, ", "))
	}
	for _, p := range c.Promotions {
		until := "no expiry"
		if !p.ValidUntil.IsZero() {
			until = "until " + p.ValidUntil.Format(validate.DateLayout)
		}
		s.printf("Promotion: %s %d%% off, %s\n", p.Code, p.DiscountPercent, until)
	}
	return nil
}

func (s *Shell) changeConcertStatus() error {
	id, err := s.askID("Concert ID: ")
	if err != nil {
		return err
	}
	var next model.EventStatus
	_, err = s.askValid("New status (SCHEDULED, POSTPONED, SOLDOUT): ", func(x string) error {
		var err error
		next, err = model.ParseEventStatus(x)
		if err != nil || next == model.EventCompleted || next == model.EventCancelled {
			return validate.Error{Field: "status", Message: "use SCHEDULED, POSTPONED or SOLDOUT"}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.app.Concerts.ChangeStatus(model.ConcertID(id), next); err != nil {
		return err
	}
	s.printf("Concert %d is now %s.\n", id, next)
	return nil
}

func (s *Shell) assignPerformer() error {
	cid, err := s.askID("Concert ID: ")
	if err != nil {
		return err
	}
	pid, err := s.askID("Performer ID: ")
	if err != nil {
		return err
	}
	if _, err := s.app.Performers.Get(model.PerformerID(pid)); err != nil {
		return err
	}
	if err := s.app.Concerts.AddPerformer(model.ConcertID(cid), model.PerformerID(pid)); err != nil {
		return err
	}
	if err := s.app.Performers.AssignToConcert(model.PerformerID(pid), model.ConcertID(cid)); err != nil {
		return err
	}
	s.println("Performer assigned.")
	return nil
}

// removePerformer takes a performer off a lineup. A performer that has
// since been deleted is still removed from the concert.
func (s *Shell) removePerformer() error {
	cid, err := s.askID("Concert ID: ")
	if err != nil {
		return err
	}
	pid, err := s.askID("Performer ID: ")
	if err != nil {
		return err
	}
	removed, err := s.app.Concerts.RemovePerformer(model.ConcertID(cid), model.PerformerID(pid))
	if err != nil {
		return err
	}
	unassigned, err := s.app.Performers.UnassignFromConcert(model.PerformerID(pid), model.ConcertID(cid))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if !removed && !unassigned {
		s.println("That performer is not on the lineup.")
		return nil
	}
	s.println("Performer removed.")
	return nil
}

func (s *Shell) addPromotion() error {
	id, err := s.askID("Concert ID: ")
	if err != nil {
		return err
	}
	var p model.Promotion
	if p.Code, err = s.askValid("Code: ", required("code")); err != nil {
		return err
	}
	if p.Description, err = s.ask("Description: "); err != nil {
		return err
	}
	if p.DiscountPercent, err = s.askRange("Discount percent: ", 1, 100); err != nil {
		return err
	}
	_, err = s.askValid("Valid until (YYYY-MM-DD, optional): ", func(x string) error {
		if x == "" {
			return nil
		}
		d, err := validate.Date("valid until", x)
		if err != nil {
			return err
		}
		p.ValidUntil = d.Add(24*time.Hour - time.Second)
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.app.Concerts.AddPromotion(model.ConcertID(id), p); err != nil {
		return err
	}
	s.printf("Promotion %s added.\n", strings.ToUpper(p.Code))
	return nil
}

// Performers.

func (s *Shell) performerMenu() error {
	return s.loop("Performers", "Back", []action{
		{"List performers", func() error { s.performerTable(s.app.Performers.All()); return nil }},
		{"Add performer", s.addPerformer},
		{"Import from audio file", func() error {
			path, err := s.askValid("Audio file path: ", required("path"))
			if err != nil {
				return err
			}
			p, err := s.app.Performers.ImportFromAudio(path)
			if err != nil {
				return err
			}
			s.printf("Performer %d created: %s\n", p.ID, p.Name)
			return nil
		}},
		{"Search by name", func() error {
			q, err := s.ask("Name contains: ")
			if err != nil {
				return err
			}
			s.performerTable(s.app.Performers.SearchByName(q))
			return nil
		}},
		{"Find by genre", func() error {
			g, err := s.ask("Genre: ")
			if err != nil {
				return err
			}
			s.performerTable(s.app.Performers.FindByGenre(g))
			return nil
		}},
		{"Delete performer", func() error {
			id, err := s.askID("Performer ID: ")
			if err != nil {
				return err
			}
			return s.deleted(s.app.Performers.Delete(model.PerformerID(id)))
		}},
	})
}

func (s *Shell) performerTable(performers []*model.Performer) {
	rows := make([][]string, 0, len(performers))
	for _, p := range performers {
		rows = append(rows, []string{itoa(p.ID), p.Name, p.Genre, s.money(p.FeeCents), fmt.Sprint(len(p.ConcertIDs))})
	}
	s.table([]string{"ID", "Name", "Genre", "Fee", "Concerts"}, rows)
}

func (s *Shell) addPerformer() error {
	var p model.Performer
	var err error

	if p.Name, err = s.askValid("Name: ", required("name")); err != nil {
		return err
	}
	if p.Genre, err = s.ask("Genre: "); err != nil {
		return err
	}
	if p.ContactInfo, err = s.ask("Contact: "); err != nil {
		return err
	}
	if p.Bio, err = s.ask("Bio: "); err != nil {
		return err
	}
	if p.FeeCents, err = s.askMoney("Fee: ", "fee"); err != nil {
		return err
	}

	id, err := s.app.Performers.Create(&p)
	if err != nil {
		return err
	}
	s.printf("Performer %d created.\n", id)
	return nil
}

// Crew.

func (s *Shell) crewMenu() error {
	return s.loop("Crew", "Back", []action{
		{"List crew", func() error { s.crewTable(s.app.Crew.All()); return nil }},
		{"Add crew member", s.addCrew},
		{"Find by role", func() error {
			role, err := s.ask("Role: ")
			if err != nil {
				return err
			}
			s.crewTable(s.app.Crew.FindByRole(role))
			return nil
		}},
		{"Assign to concert", func() error {
			id, err := s.askID("Crew ID: ")
			if err != nil {
				return err
			}
			cid, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			if _, err := s.app.Concerts.Get(model.ConcertID(cid)); err != nil {
				return err
			}
			if err := s.app.Crew.AssignToConcert(model.CrewID(id), model.ConcertID(cid)); err != nil {
				return err
			}
			s.println("Crew member assigned.")
			return nil
		}},
		{"Add duty", func() error {
			id, err := s.askID("Crew ID: ")
			if err != nil {
				return err
			}
			duty, err := s.askValid("Duty: ", required("duty"))
			if err != nil {
				return err
			}
			return s.app.Crew.AddDuty(model.CrewID(id), duty)
		}},
		{"Labor cost", func() error {
			cid, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			hours, err := s.askInt("Hours: ", "hours", validate.PositiveInt)
			if err != nil {
				return err
			}
			s.printf("Labor cost: %s\n", s.money(s.app.Crew.LaborCost(model.ConcertID(cid), float64(hours))))
			return nil
		}},
		{"Delete crew member", func() error {
			id, err := s.askID("Crew ID: ")
			if err != nil {
				return err
			}
			return s.deleted(s.app.Crew.Delete(model.CrewID(id)))
		}},
	})
}

func (s *Shell) crewTable(crew []*model.Crew) {
	rows := make([][]string, 0, len(crew))
	for _, c := range crew {
		rows = append(rows, []string{itoa(c.ID), c.Name, c.Role, s.money(c.HourlyRateCents) + "/h", strings.Join(c.Duties, ", ")})
	}
	s.table([]string{"ID", "Name", "Role", "Rate", "Duties"}, rows)
}

func (s *Shell) addCrew() error {
	var c model.Crew
	var err error

	if c.Name, err = s.askValid("Name: ", required("name")); err != nil {
		return err
	}
	if c.Role, err = s.askValid("Role: ", required("role")); err != nil {
		return err
	}
	if c.Email, err = s.askOptional("Email: ", func(x string) error { return validate.Email("email", x) }); err != nil {
		return err
	}
	if c.Phone, err = s.askOptional("Phone: ", func(x string) error { return validate.Phone("phone", x) }); err != nil {
		return err
	}
	if c.HourlyRateCents, err = s.askMoney("Hourly rate: ", "rate"); err != nil {
		return err
	}

	id, err := s.app.Crew.Create(&c)
	if err != nil {
		return err
	}
	s.printf("Crew member %d created.\n", id)
	return nil
}

// Attendees.

func (s *Shell) attendeeAdminMenu() error {
	return s.loop("Attendees", "Back", []action{
		{"List attendees", func() error { s.attendeeTable(s.app.Attendees.All()); return nil }},
		{"Search by name", func() error {
			q, err := s.ask("Name contains: ")
			if err != nil {
				return err
			}
			s.attendeeTable(s.app.Attendees.SearchByName(q))
			return nil
		}},
		{"Find by email", func() error {
			email, err := s.askValid("Email: ", func(x string) error { return validate.Email("email", x) })
			if err != nil {
				return err
			}
			a, err := s.app.Attendees.FindByEmail(email)
			if err != nil {
				return err
			}
			s.attendeeTable([]*model.Attendee{a})
			return nil
		}},
		{"Delete attendee", func() error {
			id, err := s.askID("Attendee ID: ")
			if err != nil {
				return err
			}
			if model.AttendeeID(id) == s.user.ID {
				s.println("You cannot delete your own account.")
				return nil
			}
			return s.deleted(s.app.Attendees.Delete(model.AttendeeID(id)))
		}},
	})
}

func (s *Shell) attendeeTable(attendees []*model.Attendee) {
	rows := make([][]string, 0, len(attendees))
	for _, a := range attendees {
		role := a.Type.String()
		if a.Admin {
			role += " (admin)"
		}
		rows = append(rows, []string{itoa(a.ID), a.Name, a.Username, a.Email, role, fmt.Sprint(a.LoyaltyPoints)})
	}
	s.table([]string{"ID", "Name", "Username", "Email", "Type", "Points"}, rows)
}

// Tickets.

func (s *Shell) ticketMenu() error {
	return s.loop("Tickets", "Back", []action{
		{"List by concert", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			s.ticketTable(s.app.Tickets.FindByConcert(model.ConcertID(id)))
			return nil
		}},
		{"List by status", func() error {
			var status model.TicketStatus
			_, err := s.askValid("Status (SOLD, CHECKED_IN, CANCELLED, EXPIRED): ", func(x string) error {
				var err error
				status, err = model.ParseTicketStatus(x)
				return err
			})
			if err != nil {
				return err
			}
			s.ticketTable(s.app.Tickets.FindByStatus(status))
			return nil
		}},
		{"Check in by code", func() error {
			code, err := s.askValid("Ticket code: ", required("code"))
			if err != nil {
				return err
			}
			t, err := s.app.Tickets.CheckIn(code)
			if err != nil {
				return err
			}
			s.printf("Ticket %d checked in.\n", t.ID)
			return nil
		}},
		{"Cancel ticket", func() error {
			id, err := s.askID("Ticket ID: ")
			if err != nil {
				return err
			}
			if err := s.app.Tickets.Cancel(model.TicketID(id)); err != nil {
				return err
			}
			s.println("Ticket cancelled.")
			return nil
		}},
	})
}

func (s *Shell) ticketTable(tickets []*model.Ticket) {
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []string{itoa(t.ID), itoa(t.ConcertID), itoa(t.AttendeeID), t.Status.String(), s.money(t.PriceCents), t.Code})
	}
	s.table([]string{"ID", "Concert", "Attendee", "Status", "Price", "Code"}, rows)
}

// Payments.

func (s *Shell) paymentMenu() error {
	return s.loop("Payments", "Back", []action{
		{"List payments", func() error { s.paymentTable(s.app.Payments.All()); return nil }},
		{"List by concert", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			s.paymentTable(s.app.Payments.FindByConcert(model.ConcertID(id)))
			return nil
		}},
		{"Find by transaction", func() error {
			tx, err := s.askValid("Transaction ID: ", required("transaction ID"))
			if err != nil {
				return err
			}
			p, err := s.app.Payments.FindByTransaction(tx)
			if err != nil {
				return err
			}
			s.paymentTable([]*model.Payment{p})
			return nil
		}},
		{"Refund payment", func() error {
			id, err := s.askID("Payment ID: ")
			if err != nil {
				return err
			}
			if err := s.app.RefundPayment(model.PaymentID(id)); err != nil {
				return err
			}
			s.println("Payment refunded.")
			return nil
		}},
		{"Revenue", func() error {
			id, err := s.askInt("Concert ID (0 for all): ", "concert ID", validate.NonNegativeInt)
			if err != nil {
				return err
			}
			t := s.app.Payments.TotalRevenue(model.ConcertID(id))
			s.printf("Revenue:  %s\nRefunded: %s\n", s.money(t.CompletedCents), s.money(t.RefundedCents))
			return nil
		}},
	})
}

func (s *Shell) paymentTable(payments []*model.Payment) {
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			itoa(p.ID), itoa(p.AttendeeID), itoa(p.ConcertID), s.money(p.AmountCents),
			p.Method.String(), p.Status.String(), p.TransactionID,
		})
	}
	s.table([]string{"ID", "Attendee", "Concert", "Amount", "Method", "Status", "Transaction"}, rows)
}

// Feedback.

func (s *Shell) feedbackMenu() error {
	return s.loop("Feedback", "Back", []action{
		{"List by concert", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			cid := model.ConcertID(id)
			s.feedbackTable(s.app.Feedback.FindByConcert(cid))
			if avg, n := s.app.Feedback.AverageRating(cid); n > 0 {
				s.printf("Average rating: %.2f from %d review(s)\n", avg, n)
			}
			return nil
		}},
		{"List with minimum rating", func() error {
			r, err := s.askRange("Minimum rating (1-5): ", model.MinRating, model.MaxRating)
			if err != nil {
				return err
			}
			s.feedbackTable(s.app.Feedback.FindByMinRating(r))
			return nil
		}},
		{"Delete feedback", func() error {
			id, err := s.askID("Feedback ID: ")
			if err != nil {
				return err
			}
			return s.deleted(s.app.Feedback.Delete(model.FeedbackID(id)))
		}},
	})
}

func (s *Shell) feedbackTable(feedback []*model.Feedback) {
	rows := make([][]string, 0, len(feedback))
	for _, f := range feedback {
		rows = append(rows, []string{itoa(f.ID), itoa(f.ConcertID), itoa(f.AttendeeID), strings.Repeat("*", f.Rating), f.Comment})
	}
	s.table([]string{"ID", "Concert", "Attendee", "Rating", "Comment"}, rows)
}

// Communication.

func (s *Shell) commsMenu() error {
	return s.loop("Communication", "Back", []action{
		{"Send message", s.sendMessage},
		{"Broadcast to ticket holders", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			subject, err := s.ask("Subject: ")
			if err != nil {
				return err
			}
			msg, err := s.askValid("Message: ", required("message"))
			if err != nil {
				return err
			}
			l, err := s.app.Comms.Broadcast(s.app.Tickets, model.ConcertID(id), s.user.ID, subject, msg)
			if err != nil {
				return err
			}
			s.printf("Message sent to %d ticket holder(s).\n", len(l.RecipientIDs))
			return nil
		}},
		{"List by concert", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			s.messageTable(s.app.Comms.FindByConcert(model.ConcertID(id)))
			return nil
		}},
	})
}

func (s *Shell) sendMessage() error {
	channels := []model.Channel{model.ChannelEmail, model.ChannelSMS, model.ChannelNotification}
	s.println("Channel: 1. Email  2. SMS  3. Notification")
	n, err := s.askRange("Channel: ", 1, len(channels))
	if err != nil {
		return err
	}

	var recipients []model.AttendeeID
	_, err = s.askValid("Recipient IDs (comma separated): ", func(x string) error {
		var err error
		recipients, err = parseIDs[model.AttendeeID](x)
		if err != nil {
			return err
		}
		if len(recipients) == 0 {
			return validate.Error{Field: "recipients", Message: "at least one is required"}
		}
		for _, id := range recipients {
			if _, err := s.app.Attendees.Get(id); err != nil {
				return validate.Error{Field: "recipients", Message: fmt.Sprintf("no attendee %d", id)}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	subject, err := s.ask("Subject: ")
	if err != nil {
		return err
	}
	msg, err := s.askValid("Message: ", required("message"))
	if err != nil {
		return err
	}

	if _, err := s.app.Comms.Send(&model.CommunicationLog{
		SenderID:     s.user.ID,
		RecipientIDs: recipients,
		Channel:      channels[n-1],
		Subject:      subject,
		Message:      msg,
	}); err != nil {
		return err
	}
	s.println("Message sent.")
	return nil
}

func (s *Shell) messageTable(logs []*model.CommunicationLog) {
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{itoa(l.ID), formatTime(l.SentAt), l.Channel.String(), fmt.Sprint(len(l.RecipientIDs)), l.Subject})
	}
	s.table([]string{"ID", "Sent", "Channel", "Recipients", "Subject"}, rows)
}

// Reports.

func (s *Shell) reportMenu() error {
	return s.loop("Reports", "Back", []action{
		{"Generate report", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			r, err := s.app.Reports.Generate(model.ConcertID(id), s.app.Now())
			if err != nil {
				return err
			}
			s.println(s.app.Reports.Format(r))
			return nil
		}},
		{"Show latest report", func() error {
			id, err := s.askID("Concert ID: ")
			if err != nil {
				return err
			}
			r, err := s.app.Reports.Latest(model.ConcertID(id))
			if errors.Is(err, store.ErrNotFound) {
				s.println("No report has been generated for that concert.")
				return nil
			}
			if err != nil {
				return err
			}
			s.println(s.app.Reports.Format(r))
			return nil
		}},
		{"List reports", func() error {
			var rows [][]string
			for _, r := range s.app.Reports.All() {
				rows = append(rows, []string{itoa(r.ID), itoa(r.ConcertID), formatTime(r.GeneratedAt), r.Summary})
			}
			s.table([]string{"ID", "Concert", "Generated", "Summary"}, rows)
			return nil
		}},
	})
}

// Export.

func (s *Shell) exportConcerts() error {
	var ids []model.ConcertID
	_, err := s.askValid("Concert IDs (comma separated, empty for all): ", func(x string) error {
		var err error
		ids, err = parseIDs[model.ConcertID](x)
		return err
	})
	if err != nil {
		return err
	}
	dir, err := s.ask(fmt.Sprintf("Output directory [%s]: ", s.ExportDir))
	if err != nil {
		return err
	}
	if dir == "" {
		dir = s.ExportDir
	}

	var mu sync.Mutex
	m := export.NewManager(s.app, func(e export.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		s.println(progressPrefix(e.Level) + e.Message)
	})
	err = m.Export(s.ctx, ids, dir)
	done, total, files := m.Progress()
	s.printf("Exported %d of %d concert(s), %d file(s) written.\n", done, total, files)
	if errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		s.println("Some concerts could not be exported.")
	}
	return nil
}

func progressPrefix(level export.ProgressLevel) string {
	switch level {
	case export.LevelSuccess:
		return "[OK] "
	case export.LevelWarning:
		return "[WARN] "
	case export.LevelError:
		return "[ERR] "
	case export.LevelVerbose:
		return "  "
	default:
		return ""
	}
}

// deleted reports the result of a Delete call.
func (s *Shell) deleted(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	s.println("Deleted.")
	return nil
}
