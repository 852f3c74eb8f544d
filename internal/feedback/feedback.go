// Package feedback stores attendee ratings of concerts.
package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
)

// FileName is the data file holding feedback.
const FileName = "feedback.dat"

// ErrInvalid is returned for feedback with an out of range rating or no
// concert.
var ErrInvalid = errors.New("invalid feedback")

// Module stores feedback.
type Module struct {
	store  *store.Store[model.Feedback, model.FeedbackID]
	logger *zap.Logger
	now    func() time.Time
}

// Open loads the feedback stored at path.
func Open(path string, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := store.Open[model.Feedback, model.FeedbackID](path, codec{}, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Module{store: s, logger: logger.Named("feedback"), now: time.Now}, nil
}

// Submit stores a rating. SubmittedAt is set to the current time.
func (m *Module) Submit(f *model.Feedback) (model.FeedbackID, error) {
	f.Comment = strings.TrimSpace(f.Comment)
	if err := check(f); err != nil {
		return 0, err
	}
	f.SubmittedAt = m.now().UTC()

	id, err := m.store.Create(f)
	if err != nil {
		return 0, err
	}
	m.logger.Info("feedback submitted",
		zap.Int("id", int(id)),
		zap.Int("concert", int(f.ConcertID)),
		zap.Int("rating", f.Rating),
	)
	return id, nil
}

// Get returns the feedback with the given ID.
func (m *Module) Get(id model.FeedbackID) (*model.Feedback, error) {
	return m.store.Get(id)
}

// All returns all feedback in submission order.
func (m *Module) All() []*model.Feedback {
	return m.store.All()
}

// Update applies fn to a feedback entry. The change is rejected if it leaves
// the rating out of range.
func (m *Module) Update(id model.FeedbackID, fn func(*model.Feedback)) error {
	return m.store.Update(id, func(f *model.Feedback) error {
		fn(f)
		return check(f)
	})
}

// Delete removes a feedback entry.
func (m *Module) Delete(id model.FeedbackID) (bool, error) {
	return m.store.Delete(id)
}

// FindByConcert returns the feedback left for a concert.
func (m *Module) FindByConcert(id model.ConcertID) []*model.Feedback {
	return m.store.Find(func(f *model.Feedback) bool {
		return f.ConcertID == id
	})
}

// FindByAttendee returns the feedback an attendee left.
func (m *Module) FindByAttendee(id model.AttendeeID) []*model.Feedback {
	return m.store.Find(func(f *model.Feedback) bool {
		return f.AttendeeID == id
	})
}

// FindByMinRating returns feedback rated at least rating.
func (m *Module) FindByMinRating(rating int) []*model.Feedback {
	return m.store.Find(func(f *model.Feedback) bool {
		return f.Rating >= rating
	})
}

// AverageRating returns the mean rating of a concert and the number of
// ratings. It is zero when there are none.
func (m *Module) AverageRating(id model.ConcertID) (float64, int) {
	entries := m.FindByConcert(id)
	if len(entries) == 0 {
		return 0, 0
	}
	sum := 0
	for _, f := range entries {
		sum += f.Rating
	}
	return float64(sum) / float64(len(entries)), len(entries)
}

func check(f *model.Feedback) error {
	if f.ConcertID == 0 {
		return fmt.Errorf("%w: concert is required", ErrInvalid)
	}
	if f.Rating < model.MinRating || f.Rating > model.MaxRating {
		return fmt.Errorf("%w: rating %d not in %d..%d", ErrInvalid, f.Rating, model.MinRating, model.MaxRating)
	}
	return nil
}
