package concert

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

const schemaVersion = 1

type codec struct{}

func (codec) Kind() string    { return "concert" }
func (codec) Version() uint16 { return schemaVersion }

func (codec) ID(c *model.Concert) model.ConcertID        { return c.ID }
func (codec) SetID(c *model.Concert, id model.ConcertID) { c.ID = id }

func (codec) Encode(enc *binfmt.Encoder, c *model.Concert) {
	enc.Int(int(c.ID))
	enc.String(c.Name)
	enc.String(c.Description)
	enc.Time(c.StartsAt)
	enc.Time(c.EndsAt)
	enc.Int(int(c.VenueID))
	enc.Enum(int(c.Status))
	enc.Int(c.Ticket.BasePriceCents)
	enc.Int(c.Ticket.QuantityAvailable)
	enc.Int(c.Ticket.QuantitySold)
	binfmt.Ints(enc, c.PerformerIDs)
	enc.Count(len(c.Promotions))
	for _, p := range c.Promotions {
		enc.String(p.Code)
		enc.String(p.Description)
		enc.Int(p.DiscountPercent)
		enc.Time(p.ValidUntil)
	}
	enc.Time(c.CreatedAt)
	enc.Time(c.UpdatedAt)
}

func (codec) Decode(dec *binfmt.Decoder, _ uint16) (*model.Concert, error) {
	c := &model.Concert{
		ID:          model.ConcertID(dec.Int()),
		Name:        dec.String(),
		Description: dec.String(),
		StartsAt:    dec.Time(),
		EndsAt:      dec.Time(),
		VenueID:     model.VenueID(dec.Int()),
		Status:      model.EventStatus(dec.Enum()),
		Ticket: model.ConcertTicket{
			BasePriceCents:    dec.Int(),
			QuantityAvailable: dec.Int(),
			QuantitySold:      dec.Int(),
		},
		PerformerIDs: binfmt.ReadInts[model.PerformerID](dec),
	}
	n := dec.Count()
	for i := 0; i < n && dec.Err() == nil; i++ {
		c.Promotions = append(c.Promotions, model.Promotion{
			Code:            dec.String(),
			Description:     dec.String(),
			DiscountPercent: dec.Int(),
			ValidUntil:      dec.Time(),
		})
	}
	c.CreatedAt = dec.Time()
	c.UpdatedAt = dec.Time()
	return c, nil
}
