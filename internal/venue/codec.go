package venue

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

const schemaVersion = 1

type codec struct{}

func (codec) Kind() string    { return "venue" }
func (codec) Version() uint16 { return schemaVersion }

func (codec) ID(v *model.Venue) model.VenueID        { return v.ID }
func (codec) SetID(v *model.Venue, id model.VenueID) { v.ID = id }

func (codec) Encode(enc *binfmt.Encoder, v *model.Venue) {
	enc.Int(int(v.ID))
	enc.String(v.Name)
	enc.String(v.Address)
	enc.String(v.City)
	enc.String(v.State)
	enc.String(v.ZipCode)
	enc.String(v.Country)
	enc.Int(v.Capacity)
	enc.String(v.Description)
	enc.String(v.ContactInfo)
}

func (codec) Decode(dec *binfmt.Decoder, _ uint16) (*model.Venue, error) {
	return &model.Venue{
		ID:          model.VenueID(dec.Int()),
		Name:        dec.String(),
		Address:     dec.String(),
		City:        dec.String(),
		State:       dec.String(),
		ZipCode:     dec.String(),
		Country:     dec.String(),
		Capacity:    dec.Int(),
		Description: dec.String(),
		ContactInfo: dec.String(),
	}, nil
}
