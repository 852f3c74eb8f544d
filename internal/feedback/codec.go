package feedback

import (
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

type codec struct{}

func (codec) Kind() string    { return "feedback" }
func (codec) Version() uint16 { return 1 }

func (codec) ID(f *model.Feedback) model.FeedbackID        { return f.ID }
func (codec) SetID(f *model.Feedback, id model.FeedbackID) { f.ID = id }

func (codec) Encode(enc *binfmt.Encoder, f *model.Feedback) {
	enc.Int(int(f.ID))
	enc.Int(int(f.ConcertID))
	enc.Int(int(f.AttendeeID))
	enc.Int(f.Rating)
	enc.String(f.Comment)
	enc.Time(f.SubmittedAt)
}

func (codec) Decode(dec *binfmt.Decoder, _ uint16) (*model.Feedback, error) {
	return &model.Feedback{
		ID:          model.FeedbackID(dec.Int()),
		ConcertID:   model.ConcertID(dec.Int()),
		AttendeeID:  model.AttendeeID(dec.Int()),
		Rating:      dec.Int(),
		Comment:     dec.String(),
		SubmittedAt: dec.Time(),
	}, nil
}
