package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/handiism/concert-manager/internal/app"
	"github.com/handiism/concert-manager/internal/audio"
	"github.com/handiism/concert-manager/internal/config"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
)

func setup(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()

	settings := config.DefaultSettings()
	settings.DataDir = filepath.Join(dir, "data")
	settings.BcryptCost = bcrypt.MinCost
	settings.PassScale = 1

	a, err := app.Open(context.Background(), settings, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Seed(); err != nil {
		t.Fatal(err)
	}

	sample := filepath.Join(dir, "owls.mp3")
	if err := os.WriteFile(sample, []byte("not really audio"), 0644); err != nil {
		t.Fatal(err)
	}
	err = a.Performers.Update(1, func(p *model.Performer) {
		p.SampleTrackPath = sample
		p.SampleDurationSeconds = 200
	})
	if err != nil {
		t.Fatal(err)
	}

	demo, err := a.Attendees.FindByUsername(app.DemoUsername)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.BuyTickets(app.Purchase{AttendeeID: demo.ID, ConcertID: 1, Quantity: 2, Method: model.MethodCash}); err != nil {
		t.Fatal(err)
	}
	return a
}

type recorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recorder) record(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(level ProgressLevel) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}

func TestManager_Export(t *testing.T) {
	a := setup(t)
	out := filepath.Join(t.TempDir(), "exports")
	rec := &recorder{}

	m := NewManager(a, rec.record)
	if err := m.Export(context.Background(), []model.ConcertID{1, 2}, out); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	dir := filepath.Join(out, "1 Summer Opener")
	report, err := os.ReadFile(filepath.Join(dir, ReportFile))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "Tickets sold:   2") {
		t.Errorf("report = %s", report)
	}

	playlist, err := os.ReadFile(filepath.Join(dir, "lineup.m3u"))
	if err != nil {
		t.Fatalf("playlist not written: %v", err)
	}
	if want := "#EXTM3U\n#EXTINF:200,The Night Owls\n01 The Night Owls.mp3\n"; string(playlist) != want {
		t.Errorf("playlist = %q, want %q", playlist, want)
	}

	info, err := audio.ReadTrackInfo(filepath.Join(dir, "01 The Night Owls.mp3"))
	if err != nil {
		t.Fatalf("ReadTrackInfo() error = %v", err)
	}
	if info.Album != "Summer Opener" || info.Artist != "The Night Owls" || info.Track != 1 {
		t.Errorf("sample tags = %+v", info)
	}

	passes, err := filepath.Glob(filepath.Join(dir, PassesDir, "*.png"))
	if err != nil || len(passes) != 2 {
		t.Errorf("passes = %v, %v; want 2 files", passes, err)
	}

	// Concert 2 has no sales and no samples: only the report.
	entries, err := os.ReadDir(filepath.Join(out, "2 Late Jazz Session"))
	if err != nil || len(entries) != 1 || entries[0].Name() != ReportFile {
		t.Errorf("concert 2 export = %v, %v; want only %s", entries, err, ReportFile)
	}

	done, total, files := m.Progress()
	if done != 2 || total != 2 || files != 6 {
		t.Errorf("Progress() = %d/%d, %d files; want 2/2, 6 files", done, total, files)
	}
	if n := rec.count(LevelSuccess); n != 2 {
		t.Errorf("success events = %d, want 2", n)
	}
	if n := len(a.Reports.FindByConcert(1)); n != 1 {
		t.Errorf("stored reports for concert 1 = %d, want 1", n)
	}
}

func TestManager_ExportJPEGPasses(t *testing.T) {
	a := setup(t)
	a.Settings.PassFormat = "jpeg"
	out := t.TempDir()

	if err := NewManager(a, nil).Export(context.Background(), []model.ConcertID{1}, out); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	passes, err := filepath.Glob(filepath.Join(out, "1 Summer Opener", PassesDir, "*.jpg"))
	if err != nil || len(passes) != 2 {
		t.Fatalf("passes = %v, %v; want 2 jpg files", passes, err)
	}
	data, err := os.ReadFile(passes[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Errorf("pass does not start with a JPEG marker: % x", data[:min(len(data), 4)])
	}
}

func TestManager_ExportAll(t *testing.T) {
	a := setup(t)
	out := t.TempDir()

	m := NewManager(a, nil)
	if err := m.Export(context.Background(), nil, out); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if _, total, _ := m.Progress(); total != 3 {
		t.Errorf("total = %d, want every concert", total)
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 3 {
		t.Errorf("export dirs = %d, want 3", len(entries))
	}
}

func TestManager_ExportFailures(t *testing.T) {
	a := setup(t)
	out := t.TempDir()
	rec := &recorder{}

	m := NewManager(a, rec.record)
	err := m.Export(context.Background(), []model.ConcertID{99, 2}, out)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Export() error = %v, want ErrNotFound", err)
	}
	if rec.count(LevelError) != 1 {
		t.Errorf("error events = %d, want 1", rec.count(LevelError))
	}
	if _, err := os.Stat(filepath.Join(out, "2 Late Jazz Session", ReportFile)); err != nil {
		t.Errorf("concert 2 should still be exported: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Export(ctx, []model.ConcertID{1}, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("Export() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestManager_ExportRepeatedIDs(t *testing.T) {
	a := setup(t)
	m := NewManager(a, nil)
	if err := m.Export(context.Background(), []model.ConcertID{1, 1, 1}, t.TempDir()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if done, total, _ := m.Progress(); done != 1 || total != 1 {
		t.Errorf("Progress() = %d/%d, want 1/1", done, total)
	}
	if n := len(a.Reports.FindByConcert(1)); n != 1 {
		t.Errorf("stored reports for concert 1 = %d, want 1", n)
	}
}
