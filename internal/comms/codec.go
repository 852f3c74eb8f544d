package comms

import (
	"slices"

	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

// Version 2 replaced the shared read flag with a per-recipient list.
const schemaVersion = 2

type codec struct{}

func (codec) Kind() string    { return "communication" }
func (codec) Version() uint16 { return schemaVersion }

func (codec) ID(l *model.CommunicationLog) model.CommunicationID        { return l.ID }
func (codec) SetID(l *model.CommunicationLog, id model.CommunicationID) { l.ID = id }

func (codec) Encode(enc *binfmt.Encoder, l *model.CommunicationLog) {
	enc.Int(int(l.ID))
	enc.Int(int(l.ConcertID))
	enc.Int(int(l.SenderID))
	binfmt.Ints(enc, l.RecipientIDs)
	enc.Enum(int(l.Channel))
	enc.String(l.Subject)
	enc.String(l.Message)
	enc.Time(l.SentAt)
	binfmt.Ints(enc, l.ReadBy)
}

func (codec) Decode(dec *binfmt.Decoder, version uint16) (*model.CommunicationLog, error) {
	l := &model.CommunicationLog{
		ID:           model.CommunicationID(dec.Int()),
		ConcertID:    model.ConcertID(dec.Int()),
		SenderID:     model.AttendeeID(dec.Int()),
		RecipientIDs: binfmt.ReadInts[model.AttendeeID](dec),
		Channel:      model.Channel(dec.Enum()),
		Subject:      dec.String(),
		Message:      dec.String(),
		SentAt:       dec.Time(),
	}
	if version < 2 {
		// The old flag was set by whoever read first; keep it for everyone.
		if dec.Bool() {
			l.ReadBy = slices.Clone(l.RecipientIDs)
		}
		return l, nil
	}
	l.ReadBy = binfmt.ReadInts[model.AttendeeID](dec)
	return l, nil
}
