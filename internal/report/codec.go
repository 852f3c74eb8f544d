package report

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

type codec struct{}

func (codec) Kind() string    { return "report" }
func (codec) Version() uint16 { return 1 }

func (codec) ID(r *model.ConcertReport) model.ReportID        { return r.ID }
func (codec) SetID(r *model.ConcertReport, id model.ReportID) { r.ID = id }

func (codec) Encode(enc *binfmt.Encoder, r *model.ConcertReport) {
	enc.Int(int(r.ID))
	enc.Int(int(r.ConcertID))
	enc.Time(r.GeneratedAt)
	enc.Int(r.TicketsSold)
	enc.Int(r.TicketsCheckedIn)
	enc.Int(r.TicketsCancelled)
	enc.Int(r.RevenueCents)
	enc.Int(r.RefundedCents)
	enc.Int(r.FeedbackCount)
	enc.Float64(r.AverageRating)
	enc.Int(r.VenueCapacity)
	enc.Int(r.PerformerCount)
	enc.Int(r.CrewCount)
	enc.String(r.Summary)
}

func (codec) Decode(dec *binfmt.Decoder, _ uint16) (*model.ConcertReport, error) {
	return &model.ConcertReport{
		ID:               model.ReportID(dec.Int()),
		ConcertID:        model.ConcertID(dec.Int()),
		GeneratedAt:      dec.Time(),
		TicketsSold:      dec.Int(),
		TicketsCheckedIn: dec.Int(),
		TicketsCancelled: dec.Int(),
		RevenueCents:     dec.Int(),
		RefundedCents:    dec.Int(),
		FeedbackCount:    dec.Int(),
		AverageRating:    dec.Float64(),
		VenueCapacity:    dec.Int(),
		PerformerCount:   dec.Int(),
		CrewCount:        dec.Int(),
		Summary:          dec.String(),
	}, nil
}
