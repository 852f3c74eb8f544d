package feedback

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
)

var clock = time.Date(2025, 7, 2, 9, 30, 0, 0, time.UTC)

func openFeedback(t *testing.T, path string) *Module {
	t.Helper()
	m, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	m.now = func() time.Time { return clock }
	return m
}

func seed(t *testing.T, m *Module) {
	t.Helper()
	for _, f := range []*model.Feedback{
		{ConcertID: 1, AttendeeID: 1, Rating: 5, Comment: "Loved it"},
		{ConcertID: 1, AttendeeID: 2, Rating: 2, Comment: "  Too loud  "},
		{ConcertID: 2, AttendeeID: 1, Rating: 4},
	} {
		if _, err := m.Submit(f); err != nil {
			t.Fatal(err)
		}
	}
}

func TestModule_Submit(t *testing.T) {
	m := openFeedback(t, filepath.Join(t.TempDir(), FileName))

	tests := []struct {
		name    string
		in      model.Feedback
		wantErr error
	}{
		{"lowest", model.Feedback{ConcertID: 1, Rating: 1}, nil},
		{"highest", model.Feedback{ConcertID: 1, Rating: 5}, nil},
		{"zero", model.Feedback{ConcertID: 1, Rating: 0}, ErrInvalid},
		{"six", model.Feedback{ConcertID: 1, Rating: 6}, ErrInvalid},
		{"no concert", model.Feedback{Rating: 3}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.in
			_, err := m.Submit(&f)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && !f.SubmittedAt.Equal(clock) {
				t.Errorf("SubmittedAt = %v, want %v", f.SubmittedAt, clock)
			}
		})
	}

	if n := len(m.All()); n != 2 {
		t.Errorf("len(All()) = %d, want 2", n)
	}
}

func TestModule_Queries(t *testing.T) {
	m := openFeedback(t, filepath.Join(t.TempDir(), FileName))
	seed(t, m)

	if got := m.FindByConcert(1); len(got) != 2 {
		t.Errorf("FindByConcert(1) = %d entries, want 2", len(got))
	}
	if got := m.FindByAttendee(1); len(got) != 2 || got[1].ConcertID != 2 {
		t.Errorf("FindByAttendee(1) = %+v", got)
	}
	if got := m.FindByMinRating(4); len(got) != 2 {
		t.Errorf("FindByMinRating(4) = %d entries, want 2", len(got))
	}
	if f, _ := m.Get(2); f.Comment != "Too loud" {
		t.Errorf("Comment = %q, want trimmed", f.Comment)
	}

	tests := []struct {
		concert model.ConcertID
		avg     float64
		count   int
	}{
		{1, 3.5, 2},
		{2, 4, 1},
		{3, 0, 0},
	}
	for _, tt := range tests {
		avg, n := m.AverageRating(tt.concert)
		if avg != tt.avg || n != tt.count {
			t.Errorf("AverageRating(%d) = %v, %d; want %v, %d", tt.concert, avg, n, tt.avg, tt.count)
		}
	}
}

func TestModule_UpdateDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := openFeedback(t, path)
	seed(t, m)

	if err := m.Update(2, func(f *model.Feedback) { f.Rating = 3 }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := m.Update(2, func(f *model.Feedback) { f.Rating = 9 }); !errors.Is(err, ErrInvalid) {
		t.Errorf("Update() error = %v, want ErrInvalid", err)
	}
	if f, _ := m.Get(2); f.Rating != 3 {
		t.Errorf("Rating = %d, want 3", f.Rating)
	}

	if removed, err := m.Delete(1); err != nil || !removed {
		t.Fatalf("Delete() = %v, %v", removed, err)
	}

	fresh := openFeedback(t, path)
	if !reflect.DeepEqual(fresh.All(), m.All()) {
		t.Errorf("reopened feedback = %+v, want %+v", fresh.All(), m.All())
	}
}

func TestModule_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := openFeedback(t, path)

	tests := []struct {
		name string
		in   model.Feedback
		at   time.Time
	}{
		{"with comment", model.Feedback{ConcertID: 1, AttendeeID: 2, Rating: 5, Comment: "Best set of the summer"}, clock},
		{"no comment", model.Feedback{ConcertID: 3, AttendeeID: 4, Rating: 1}, clock.Add(time.Hour)},
		{"unicode comment", model.Feedback{ConcertID: 2, AttendeeID: 7, Rating: 3, Comment: "Très bien, un peu court"}, clock.Add(48 * time.Hour)},
	}
	ids := make([]model.FeedbackID, len(tests))
	for i, tt := range tests {
		m.now = func() time.Time { return tt.at }
		f := tt.in
		id, err := m.Submit(&f)
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = id
	}

	fresh := openFeedback(t, path)
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fresh.Get(ids[i])
			if err != nil {
				t.Fatalf("Get() after reopen error = %v", err)
			}
			if got.ID != ids[i] || got.ConcertID != tt.in.ConcertID || got.AttendeeID != tt.in.AttendeeID {
				t.Errorf("reopened refs = %+v, want %+v", got, tt.in)
			}
			if got.Rating != tt.in.Rating || got.Comment != tt.in.Comment {
				t.Errorf("reopened rating/comment = %d %q, want %d %q", got.Rating, got.Comment, tt.in.Rating, tt.in.Comment)
			}
			if !got.SubmittedAt.Equal(tt.at) {
				t.Errorf("SubmittedAt = %v, want %v", got.SubmittedAt, tt.at)
			}
		})
	}
}
