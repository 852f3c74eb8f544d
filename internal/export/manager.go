package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/concert-manager/internal/app"
	"github.com/handiism/concert-manager/internal/audio"
	ioutils "github.com/handiism/concert-manager/internal/io"
	"github.com/handiism/concert-manager/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an export progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// File names inside a concert directory.
const (
	ReportFile  = "report.txt"
	LineupName  = "lineup"
	PassesDir   = "passes"
	passPattern = "ticket-%d%s"
)

// Manager coordinates concert exports.
type Manager struct {
	app      *app.App
	tagger   *audio.Tagger
	playlist *audio.PlaylistCreator

	totalConcerts int32
	doneConcerts  int32
	writtenFiles  int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new export Manager. onProgress may be called from
// several goroutines at once.
func NewManager(a *app.App, onProgress func(ProgressEvent)) *Manager {
	format := audio.ParsePlaylistFormat(a.Settings.PlaylistFormat)
	return &Manager{
		app:        a,
		tagger:     audio.NewTagger(),
		playlist:   audio.NewPlaylistCreator(format, a.Settings.M3UExtended),
		onProgress: onProgress,
	}
}

// Export writes every listed concert below outDir. An empty list exports
// all concerts.
func (m *Manager) Export(ctx context.Context, ids []model.ConcertID, outDir string) error {
	if len(ids) == 0 {
		m.mu.Lock()
		for _, c := range m.app.Concerts.All() {
			ids = append(ids, c.ID)
		}
		m.mu.Unlock()
	}
	ids = unique(ids)
	atomic.StoreInt32(&m.totalConcerts, int32(len(ids)))
	atomic.StoreInt32(&m.doneConcerts, 0)
	atomic.StoreInt32(&m.writtenFiles, 0)

	if err := ioutils.EnsureDir(outDir); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.app.Settings.MaxConcurrentExports, 1))

	var (
		failMu   sync.Mutex
		failures []error
	)
	for _, id := range ids {
		g.Go(func() error {
			err := m.exportConcert(ctx, id, outDir)
			atomic.AddInt32(&m.doneConcerts, 1)
			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error exporting concert %d: %v", id, err), Level: LevelError})
			failMu.Lock()
			failures = append(failures, fmt.Errorf("concert %d: %w", id, err))
			failMu.Unlock()
			return nil // Continue with other concerts
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(failures...)
}

// Progress returns the number of concerts finished, the number requested
// and the files written so far.
func (m *Manager) Progress() (done, total, files int32) {
	return atomic.LoadInt32(&m.doneConcerts), atomic.LoadInt32(&m.totalConcerts), atomic.LoadInt32(&m.writtenFiles)
}

// snapshot is what an export reads from the modules, taken under the lock.
type snapshot struct {
	concert    model.Concert
	report     string
	performers []model.Performer
	tickets    []model.TicketID
}

func (m *Manager) snapshot(id model.ConcertID) (*snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.app.Concerts.Get(id)
	if err != nil {
		return nil, err
	}
	r, err := m.app.Reports.Generate(id, m.app.Now())
	if err != nil {
		return nil, err
	}

	s := &snapshot{concert: *c, report: m.app.Reports.Format(r)}
	for _, pid := range c.PerformerIDs {
		p, err := m.app.Performers.Get(pid)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping missing performer %d", pid), Level: LevelWarning})
			continue
		}
		s.performers = append(s.performers, *p)
	}
	for _, t := range m.app.Tickets.FindByConcert(id) {
		if t.Status == model.TicketSold || t.Status == model.TicketCheckedIn {
			s.tickets = append(s.tickets, t.ID)
		}
	}
	return s, nil
}

func (m *Manager) exportConcert(ctx context.Context, id model.ConcertID, outDir string) error {
	s, err := m.snapshot(id)
	if err != nil {
		return err
	}
	c := &s.concert

	dir := filepath.Join(outDir, ioutils.SanitizeFileName(fmt.Sprintf("%d %s", c.ID, c.Name)))
	if err := os.MkdirAll(dir, 0755); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Exporting %s", c.Name), Level: LevelInfo})

	if err := ioutils.WriteFile(ctx, filepath.Join(dir, ReportFile), []byte(s.report)); err != nil {
		return err
	}
	atomic.AddInt32(&m.writtenFiles, 1)

	if err := m.exportLineup(ctx, c, s.performers, dir); err != nil {
		return err
	}

	if len(s.tickets) > 0 {
		if err := m.exportPasses(ctx, s.tickets, filepath.Join(dir, PassesDir)); err != nil {
			return err
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Exported %s: %d passes", c.Name, len(s.tickets)), Level: LevelSuccess})
	return nil
}

func (m *Manager) exportLineup(ctx context.Context, c *model.Concert, performers []model.Performer, dir string) error {
	var entries []audio.Entry
	for i, p := range performers {
		if p.SampleTrackPath == "" {
			continue
		}

		name := fmt.Sprintf("%02d %s%s", i+1, p.Name, filepath.Ext(p.SampleTrackPath))
		dst := filepath.Join(dir, ioutils.SanitizeFileName(name))
		if err := ioutils.CopyFile(ctx, p.SampleTrackPath, dst); err != nil {
			if ctx.Err() != nil {
				return err
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error copying sample of %s: %v", p.Name, err), Level: LevelWarning})
			continue
		}
		atomic.AddInt32(&m.writtenFiles, 1)

		if m.app.Settings.TagSampleTracks {
			info := audio.TrackInfo{
				Artist:   p.Name,
				Genre:    p.Genre,
				Album:    c.Name,
				Track:    i + 1,
				Duration: time.Duration(p.SampleDurationSeconds) * time.Second,
			}
			if err := m.tagger.SaveTags(dst, info); err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(dst), err), Level: LevelWarning})
			}
		}

		entries = append(entries, audio.Entry{
			Path:            dst,
			Artist:          p.Name,
			DurationSeconds: p.SampleDurationSeconds,
		})
		m.progress(ProgressEvent{Message: fmt.Sprintf("Copied sample: %s", filepath.Base(dst)), Level: LevelVerbose})
	}

	if len(entries) == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("No sample tracks for %s", c.Name), Level: LevelVerbose})
		return nil
	}

	content := m.playlist.CreatePlaylist(entries)
	path := filepath.Join(dir, LineupName+m.playlist.Format().Ext())
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return nil
	}
	atomic.AddInt32(&m.writtenFiles, 1)
	return nil
}

func (m *Manager) exportPasses(ctx context.Context, tickets []model.TicketID, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	jpeg := isJPEG(m.app.Settings.PassFormat)
	ext := ".png"
	if jpeg {
		ext = ".jpg"
	}
	for _, id := range tickets {
		m.mu.Lock()
		data, err := m.app.Tickets.RenderPass(ctx, id, m.app.Settings.PassScale)
		m.mu.Unlock()
		if err != nil {
			return fmt.Errorf("render pass %d: %w", id, err)
		}
		if jpeg {
			if data, err = m.app.Images.ConvertToJPEG(ctx, data); err != nil {
				return fmt.Errorf("convert pass %d: %w", id, err)
			}
		}
		if err := ioutils.WriteFile(ctx, filepath.Join(dir, fmt.Sprintf(passPattern, id, ext)), data); err != nil {
			return err
		}
		atomic.AddInt32(&m.writtenFiles, 1)
	}
	return nil
}

// unique drops repeated IDs so no two workers share a directory.
func unique(ids []model.ConcertID) []model.ConcertID {
	out := make([]model.ConcertID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func isJPEG(format string) bool {
	f := strings.ToLower(format)
	return f == "jpeg" || f == "jpg"
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
