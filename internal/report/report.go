// Package report builds and keeps point-in-time summaries of concerts.
package report

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/payment"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding reports.
const FileName = "reports.dat"

// The interfaces below are the parts of the other modules a report reads.
type (
	Concerts interface {
		Get(id model.ConcertID) (*model.Concert, error)
	}
	Venues interface {
		Get(id model.VenueID) (*model.Venue, error)
	}
	Tickets interface {
		FindByConcert(id model.ConcertID) []*model.Ticket
	}
	Payments interface {
		TotalRevenue(id model.ConcertID) payment.Totals
	}
	Feedback interface {
		AverageRating(id model.ConcertID) (float64, int)
	}
	Crew interface {
		FindByConcert(id model.ConcertID) []*model.Crew
	}
)

// Sources are the modules a report aggregates.
type Sources struct {
	Concerts Concerts
	Venues   Venues
	Tickets  Tickets
	Payments Payments
	Feedback Feedback
	Crew     Crew
}

// Module stores generated reports.
type Module struct {
	store   *store.Store[model.ConcertReport, model.ReportID]
	src     Sources
	printer *message.Printer
	logger  *zap.Logger
}

// Open loads the reports stored at path.
func Open(path string, src Sources, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.ConcertReport, model.ReportID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{
		store:   s,
		src:     src,
		printer: message.NewPrinter(language.English),
		logger:  logger.Named("report"),
	}, nil
}

// Generate aggregates the current state of a concert into a new report and
// stores it.
func (m *Module) Generate(concertID model.ConcertID, now time.Time) (*model.ConcertReport, error) {
	c, err := m.src.Concerts.Get(concertID)
	if err != nil {
		return nil, err
	}

	r := &model.ConcertReport{
		ConcertID:      concertID,
		GeneratedAt:    now.UTC(),
		PerformerCount: len(c.PerformerIDs),
	}

	for _, t := range m.src.Tickets.FindByConcert(concertID) {
		switch t.Status {
		case model.TicketSold, model.TicketExpired:
			r.TicketsSold++
		case model.TicketCheckedIn:
			r.TicketsSold++
			r.TicketsCheckedIn++
		case model.TicketCancelled:
			r.TicketsCancelled++
		}
	}

	totals := m.src.Payments.TotalRevenue(concertID)
	r.RevenueCents = totals.CompletedCents
	r.RefundedCents = totals.RefundedCents

	r.AverageRating, r.FeedbackCount = m.src.Feedback.AverageRating(concertID)
	r.CrewCount = len(m.src.Crew.FindByConcert(concertID))

	if v, err := m.src.Venues.Get(c.VenueID); err == nil {
		r.VenueCapacity = v.Capacity
	} else {
		m.logger.Warn("report without venue", zap.Int("concert", int(concertID)), zap.Error(err))
	}

	r.Summary = m.summary(c.Name, r)

	id, err := m.store.Create(r)
	if err != nil {
		return nil, err
	}
	m.logger.Info("report generated", zap.Int("id", int(id)), zap.Int("concert", int(concertID)))
	return r, nil
}

func (m *Module) summary(name string, r *model.ConcertReport) string {
	s := m.printer.Sprintf("%s: %d tickets sold, %d checked in, revenue %s",
		name, r.TicketsSold, r.TicketsCheckedIn, m.money(r.RevenueCents))
	if r.FeedbackCount > 0 {
		s += m.printer.Sprintf(", rated %.1f from %d reviews", r.AverageRating, r.FeedbackCount)
	}
	return s
}

// Get returns the report with the given ID.
func (m *Module) Get(id model.ReportID) (*model.ConcertReport, error) {
	return m.store.Get(id)
}

// All returns every report in generation order.
func (m *Module) All() []*model.ConcertReport {
	return m.store.All()
}

// Delete removes a report.
func (m *Module) Delete(id model.ReportID) (bool, error) {
	return m.store.Delete(id)
}

// FindByConcert returns the reports generated for a concert, oldest first.
func (m *Module) FindByConcert(id model.ConcertID) []*model.ConcertReport {
	return m.store.Find(func(r *model.ConcertReport) bool {
		return r.ConcertID == id
	})
}

// Latest returns the most recently generated report of a concert.
func (m *Module) Latest(id model.ConcertID) (*model.ConcertReport, error) {
	var latest *model.ConcertReport
	for _, r := range m.FindByConcert(id) {
		if latest == nil || !r.GeneratedAt.Before(latest.GeneratedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("report for concert %d: %w", id, store.ErrNotFound)
	}
	return latest, nil
}

// Format renders a report as text with grouped thousands.
func (m *Module) Format(r *model.ConcertReport) string {
	p := m.printer
	var b strings.Builder

	fmt.Fprintf(&b, "Concert report #%d\n", r.ID)
	fmt.Fprintf(&b, "%s\n", r.Summary)
	fmt.Fprintf(&b, "Generated:      %s\n", r.GeneratedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Venue capacity: %s\n", p.Sprintf("%d", r.VenueCapacity))
	fmt.Fprintf(&b, "Tickets sold:   %s\n", p.Sprintf("%d", r.TicketsSold))
	fmt.Fprintf(&b, "Checked in:     %s (%.1f%% occupancy)\n", p.Sprintf("%d", r.TicketsCheckedIn), r.Occupancy()*100)
	fmt.Fprintf(&b, "Cancelled:      %s\n", p.Sprintf("%d", r.TicketsCancelled))
	fmt.Fprintf(&b, "Revenue:        %s\n", m.money(r.RevenueCents))
	fmt.Fprintf(&b, "Refunded:       %s\n", m.money(r.RefundedCents))
	fmt.Fprintf(&b, "Net:            %s\n", m.money(r.RevenueCents-r.RefundedCents))
	if r.FeedbackCount > 0 {
		fmt.Fprintf(&b, "Rating:         %.2f (%d reviews)\n", r.AverageRating, r.FeedbackCount)
	} else {
		b.WriteString("Rating:         no reviews\n")
	}
	fmt.Fprintf(&b, "Performers:     %d\n", r.PerformerCount)
	fmt.Fprintf(&b, "Crew:           %d\n", r.CrewCount)
	return b.String()
}

func (m *Module) money(cents int) string {
	return m.printer.Sprintf("$%.2f", float64(cents)/100)
}
