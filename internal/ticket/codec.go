package ticket

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

type codec struct{}

func (codec) Kind() string    { return "ticket" }
func (codec) Version() uint16 { return 1 }

func (codec) ID(t *model.Ticket) model.TicketID        { return t.ID }
func (codec) SetID(t *model.Ticket, id model.TicketID) { t.ID = id }

func (codec) Encode(enc *binfmt.Encoder, t *model.Ticket) {
	enc.Int(int(t.ID))
	enc.Int(int(t.ConcertID))
	enc.Int(int(t.AttendeeID))
	enc.Int(int(t.PaymentID))
	enc.Enum(int(t.Status))
	enc.Int(t.PriceCents)
	enc.String(t.Code)
	enc.String(t.QRCode)
	enc.Time(t.PurchasedAt)
	enc.Time(t.CheckedInAt)
}

func (codec) Decode(dec *binfmt.Decoder, _ uint16) (*model.Ticket, error) {
	return &model.Ticket{
		ID:          model.TicketID(dec.Int()),
		ConcertID:   model.ConcertID(dec.Int()),
		AttendeeID:  model.AttendeeID(dec.Int()),
		PaymentID:   model.PaymentID(dec.Int()),
		Status:      model.TicketStatus(dec.Enum()),
		PriceCents:  dec.Int(),
		Code:        dec.String(),
		QRCode:      dec.String(),
		PurchasedAt: dec.Time(),
		CheckedInAt: dec.Time(),
	}, nil
}
