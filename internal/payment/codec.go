package payment

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

type codec struct{}

func (codec) Kind() string    { return "payment" }
func (codec) Version() uint16 { return 1 }

func (codec) ID(p *model.Payment) model.PaymentID        { return p.ID }
func (codec) SetID(p *model.Payment, id model.PaymentID) { p.ID = id }

func (codec) Encode(enc *binfmt.Encoder, p *model.Payment) {
	enc.Int(int(p.ID))
	enc.Int(int(p.AttendeeID))
	enc.Int(int(p.ConcertID))
	binfmt.Ints(enc, p.TicketIDs)
	enc.Int(p.AmountCents)
	enc.Enum(int(p.Method))
	enc.Enum(int(p.Status))
	enc.String(p.TransactionID)
	enc.String(p.CardLast4)
	enc.String(p.PromoCode)
	enc.Time(p.CreatedAt)
	enc.Time(p.UpdatedAt)
}

func (codec) Decode(dec *binfmt.Decoder, _ uint16) (*model.Payment, error) {
	return &model.Payment{
		ID:            model.PaymentID(dec.Int()),
		AttendeeID:    model.AttendeeID(dec.Int()),
		ConcertID:     model.ConcertID(dec.Int()),
		TicketIDs:     binfmt.ReadInts[model.TicketID](dec),
		AmountCents:   dec.Int(),
		Method:        model.PaymentMethod(dec.Enum()),
		Status:        model.PaymentStatus(dec.Enum()),
		TransactionID: dec.String(),
		CardLast4:     dec.String(),
		PromoCode:     dec.String(),
		CreatedAt:     dec.Time(),
		UpdatedAt:     dec.Time(),
	}, nil
}
