package performer

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/audio"
	"github.com/handiism/concert-manager/internal/binfmt"
	"github.com/handiism/concert-manager/internal/model"
)

func openPerformers(t *testing.T, path string) *Module {
	t.Helper()
	m, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return m
}

func TestModule_Queries(t *testing.T) {
	m := openPerformers(t, filepath.Join(t.TempDir(), FileName))
	for _, p := range []*model.Performer{
		{Name: "Miles Ahead", Genre: "Jazz", FeeCents: 250000},
		{Name: "Rock Steady", Genre: "rock"},
		{Name: "Jazzmatazz", Genre: "JAZZ"},
	} {
		if _, err := m.Create(p); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := m.Create(&model.Performer{Name: "  "}); !errors.Is(err, ErrInvalid) {
		t.Errorf("Create() blank name error = %v, want ErrInvalid", err)
	}

	if got := m.SearchByName("JAZZ"); len(got) != 1 || got[0].Name != "Jazzmatazz" {
		t.Errorf("SearchByName() = %+v", got)
	}
	if got := m.FindByGenre("jazz"); len(got) != 2 {
		t.Errorf("FindByGenre() returned %d performers, want 2", len(got))
	}

	if err := m.AssignToConcert(1, 10); err != nil {
		t.Fatal(err)
	}
	if err := m.AssignToConcert(1, 10); err != nil {
		t.Fatal(err)
	}
	if err := m.AssignToConcert(3, 10); err != nil {
		t.Fatal(err)
	}
	if got := m.FindByConcert(10); len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("FindByConcert() = %+v, want performers 1 and 3", got)
	}
	if p, _ := m.Get(1); !reflect.DeepEqual(p.ConcertIDs, []model.ConcertID{10}) {
		t.Errorf("ConcertIDs = %v, want [10]", p.ConcertIDs)
	}

	removed, err := m.UnassignFromConcert(1, 10)
	if err != nil || !removed {
		t.Fatalf("UnassignFromConcert() = %v, %v", removed, err)
	}
	if got := m.FindByConcert(10); len(got) != 1 {
		t.Errorf("FindByConcert() after unassign = %d performers, want 1", len(got))
	}
}

func TestModule_ImportFromAudio(t *testing.T) {
	dir := t.TempDir()
	m := openPerformers(t, filepath.Join(dir, FileName))

	tagged := filepath.Join(dir, "opener.mp3")
	if err := os.WriteFile(tagged, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	err := audio.NewTagger().SaveTags(tagged, audio.TrackInfo{
		Artist:   "The Openers",
		Title:    "Warmup",
		Genre:    "Indie",
		Duration: 215500 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	p, err := m.ImportFromAudio(tagged)
	if err != nil {
		t.Fatalf("ImportFromAudio() error = %v", err)
	}
	want := &model.Performer{
		ID:                    1,
		Name:                  "The Openers",
		Genre:                 "Indie",
		Bio:                   "Sample track: Warmup",
		SampleTrackPath:       tagged,
		SampleDurationSeconds: 215,
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("ImportFromAudio() = %+v, want %+v", p, want)
	}

	untagged := filepath.Join(dir, "Mystery Guest.mp3")
	if err := os.WriteFile(untagged, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err = m.ImportFromAudio(untagged)
	if err != nil {
		t.Fatalf("ImportFromAudio() untagged error = %v", err)
	}
	if p.Name != "Mystery Guest" {
		t.Errorf("Name = %q, want file name fallback", p.Name)
	}

	if _, err := m.ImportFromAudio(filepath.Join(dir, "missing.mp3")); err == nil {
		t.Error("ImportFromAudio() of a missing file should fail")
	}
}

func TestModule_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := openPerformers(t, path)
	for _, p := range []*model.Performer{
		{Name: "Full", Genre: "Pop", ContactInfo: "agent@example.com", Bio: "Bio", FeeCents: 100, SampleTrackPath: "/s/full.mp3", SampleDurationSeconds: 90},
		{Name: "Bare"},
	} {
		if _, err := m.Create(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.AssignToConcert(1, 4); err != nil {
		t.Fatal(err)
	}

	fresh := openPerformers(t, path)
	if !reflect.DeepEqual(fresh.All(), m.All()) {
		t.Errorf("reopened performers = %+v, want %+v", fresh.All(), m.All())
	}
}

func TestOpen_SchemaV1(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := binfmt.WriteHeader(f, binfmt.Header{Kind: "performer", SchemaVersion: 1, Count: 1}); err != nil {
		t.Fatal(err)
	}
	enc := binfmt.NewEncoder()
	enc.Int(7)
	enc.String("Old Timer")
	enc.String("Blues")
	enc.String("")
	enc.String("")
	enc.Int(500)
	binfmt.Ints(enc, []model.ConcertID{2})
	if err := binfmt.WriteRecord(f, enc.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	m := openPerformers(t, path)
	p, err := m.Get(7)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Name != "Old Timer" || p.FeeCents != 500 || p.SampleTrackPath != "" {
		t.Errorf("decoded v1 performer = %+v", p)
	}

	// The next save upgrades the file to the current schema.
	if err := m.Update(7, func(p *model.Performer) { p.SampleTrackPath = "/s/old.mp3" }); err != nil {
		t.Fatal(err)
	}
	if p, _ := openPerformers(t, path).Get(7); p.SampleTrackPath != "/s/old.mp3" {
		t.Errorf("SampleTrackPath after upgrade = %q", p.SampleTrackPath)
	}
}
