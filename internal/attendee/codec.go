package attendee

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

type codec struct{}

func (codec) Kind() string    { return "attendee" }
func (codec) Version() uint16 { return 1 }

func (codec) ID(a *model.Attendee) model.AttendeeID        { return a.ID }
func (codec) SetID(a *model.Attendee, id model.AttendeeID) { a.ID = id }

func (codec) Encode(enc *binfmt.Encoder, a *model.Attendee) {
	enc.Int(int(a.ID))
	enc.String(a.Name)
	enc.String(a.Email)
	enc.String(a.Phone)
	enc.String(a.Address)
	enc.Enum(int(a.Type))
	enc.String(a.Username)
	enc.String(a.PasswordHash)
	enc.Bool(a.Admin)
	enc.Int(a.LoyaltyPoints)
	enc.Time(a.CreatedAt)
}

func (codec) Decode(dec *binfmt.Decoder, _ uint16) (*model.Attendee, error) {
	return &model.Attendee{
		ID:            model.AttendeeID(dec.Int()),
		Name:          dec.String(),
		Email:         dec.String(),
		Phone:         dec.String(),
		Address:       dec.String(),
		Type:          model.AttendeeType(dec.Enum()),
		Username:      dec.String(),
		PasswordHash:  dec.String(),
		Admin:         dec.Bool(),
		LoyaltyPoints: dec.Int(),
		CreatedAt:     dec.Time(),
	}, nil
}
