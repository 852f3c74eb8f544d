package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTagger_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.mp3")
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatal(err)
	}

	empty, err := ReadTrackInfo(path)
	if err != nil {
		t.Fatalf("ReadTrackInfo() on untagged file error = %v", err)
	}
	if empty != (TrackInfo{}) {
		t.Errorf("ReadTrackInfo() on untagged file = %+v, want empty", empty)
	}

	want := TrackInfo{
		Artist:   "The Openers",
		Title:    "Warmup",
		Genre:    "Indie",
		Album:    "Summer Fest",
		Track:    1,
		Duration: 215 * time.Second,
	}
	if err := NewTagger().SaveTags(path, want); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	got, err := ReadTrackInfo(path)
	if err != nil {
		t.Fatalf("ReadTrackInfo() error = %v", err)
	}
	if got != want {
		t.Errorf("ReadTrackInfo() = %+v, want %+v", got, want)
	}

	// Empty fields leave existing values alone.
	if err := NewTagger().SaveTags(path, TrackInfo{Album: "Winter Fest"}); err != nil {
		t.Fatal(err)
	}
	got, _ = ReadTrackInfo(path)
	if got.Album != "Winter Fest" || got.Artist != "The Openers" {
		t.Errorf("after partial SaveTags() = %+v", got)
	}
}

func TestReadTrackInfo_Missing(t *testing.T) {
	if _, err := ReadTrackInfo(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("ReadTrackInfo() of a missing file should fail")
	}
}
