package crew

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

type codec struct{}

func (codec) Kind() string    { return "crew" }
func (codec) Version() uint16 { return 1 }

func (codec) ID(c *model.Crew) model.CrewID        { return c.ID }
func (codec) SetID(c *model.Crew, id model.CrewID) { c.ID = id }

func (codec) Encode(enc *binfmt.Encoder, c *model.Crew) {
	enc.Int(int(c.ID))
	enc.String(c.Name)
	enc.String(c.Role)
	enc.String(c.Email)
	enc.String(c.Phone)
	enc.Int(c.HourlyRateCents)
	enc.Strings(c.Duties)
	binfmt.Ints(enc, c.ConcertIDs)
}

func (codec) Decode(dec *binfmt.Decoder, _ uint16) (*model.Crew, error) {
	return &model.Crew{
		ID:              model.CrewID(dec.Int()),
		Name:            dec.String(),
		Role:            dec.String(),
		Email:           dec.String(),
		Phone:           dec.String(),
		HourlyRateCents: dec.Int(),
		Duties:          dec.Strings(),
		ConcertIDs:      binfmt.ReadInts[model.ConcertID](dec),
	}, nil
}
