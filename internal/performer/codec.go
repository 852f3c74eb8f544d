package performer

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

// Version 2 added the sample track fields.
const schemaVersion = 2

type codec struct{}

func (codec) Kind() string    { return "performer" }
func (codec) Version() uint16 { return schemaVersion }

func (codec) ID(p *model.Performer) model.PerformerID        { return p.ID }
func (codec) SetID(p *model.Performer, id model.PerformerID) { p.ID = id }

func (codec) Encode(enc *binfmt.Encoder, p *model.Performer) {
	enc.Int(int(p.ID))
	enc.String(p.Name)
	enc.String(p.Genre)
	enc.String(p.ContactInfo)
	enc.String(p.Bio)
	enc.Int(p.FeeCents)
	binfmt.Ints(enc, p.ConcertIDs)
	enc.String(p.SampleTrackPath)
	enc.Int(p.SampleDurationSeconds)
}

func (codec) Decode(dec *binfmt.Decoder, version uint16) (*model.Performer, error) {
	p := &model.Performer{
		ID:          model.PerformerID(dec.Int()),
		Name:        dec.String(),
		Genre:       dec.String(),
		ContactInfo: dec.String(),
		Bio:         dec.String(),
		FeeCents:    dec.Int(),
		ConcertIDs:  binfmt.ReadInts[model.ConcertID](dec),
	}
	if version >= 2 {
		p.SampleTrackPath = dec.String()
		p.SampleDurationSeconds = dec.Int()
	}
	return p, nil
}
