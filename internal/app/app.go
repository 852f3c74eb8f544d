// Package app wires the concert modules together.
//
// An App owns one instance of every module, opened from the data directory
// named in the settings. Callers get the modules from the App instead of
// constructing their own, so all of them share the same stores.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/concert-manager/internal/attendee"
	"github.com/handiism/concert-manager/internal/auth"
	"github.com/handiism/concert-manager/internal/comms"
	"github.com/handiism/concert-manager/internal/concert"
	"github.com/handiism/concert-manager/internal/config"
	"github.com/handiism/concert-manager/internal/crew"
	"github.com/handiism/concert-manager/internal/feedback"
	ioutils "github.com/handiism/concert-manager/internal/io"
	"github.com/handiism/concert-manager/internal/payment"
	"github.com/handiism/concert-manager/internal/performer"
	"github.com/handiism/concert-manager/internal/report"
	"github.com/handiism/concert-manager/internal/ticket"
	"github.com/handiism/concert-manager/internal/venue"
)

// App holds the application modules.
type App struct {
	Settings *config.Settings
	Logger   *zap.Logger
	Images   *ioutils.ImageService

	Venues     *venue.Module
	Concerts   *concert.Module
	Performers *performer.Module
	Crew       *crew.Module
	Attendees  *attendee.Module
	Auth       *auth.Service
	Tickets    *ticket.Module
	Payments   *payment.Module
	Feedback   *feedback.Module
	Comms      *comms.Module
	Reports    *report.Module

	now func() time.Time
}

// Open loads every store from settings.DataDir, creating the directory if
// needed. Independent stores are read in parallel. When settings name an
// admin account and no admin exists yet, one is created.
func Open(ctx context.Context, settings *config.Settings, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ioutils.EnsureDir(settings.DataDir); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	a := &App{
		Settings: settings,
		Logger:   logger,
		Images:   ioutils.NewImageService(),
		now:      time.Now,
	}
	path := func(name string) string {
		return filepath.Join(settings.DataDir, name)
	}

	g, ctx := errgroup.WithContext(ctx)
	load := func(name string, open func(path string) error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := open(path(name)); err != nil {
				return fmt.Errorf("open %s: %w", name, err)
			}
			return nil
		})
	}

	load(venue.FileName, func(p string) (err error) {
		a.Venues, err = venue.Open(p, logger)
		return err
	})
	load(concert.FileName, func(p string) (err error) {
		a.Concerts, err = concert.Open(p, logger)
		return err
	})
	load(performer.FileName, func(p string) (err error) {
		a.Performers, err = performer.Open(p, logger)
		return err
	})
	load(crew.FileName, func(p string) (err error) {
		a.Crew, err = crew.Open(p, logger)
		return err
	})
	load(attendee.FileName, func(p string) (err error) {
		a.Attendees, err = attendee.Open(p, logger)
		return err
	})
	load(payment.FileName, func(p string) (err error) {
		a.Payments, err = payment.Open(p, logger)
		return err
	})
	load(feedback.FileName, func(p string) (err error) {
		a.Feedback, err = feedback.Open(p, logger)
		return err
	})
	load(comms.FileName, func(p string) (err error) {
		a.Comms, err = comms.Open(p, logger)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Tickets and reports read the modules loaded above.
	var err error
	a.Tickets, err = ticket.Open(path(ticket.FileName), a.Concerts, a.Images, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ticket.FileName, err)
	}
	a.Reports, err = report.Open(path(report.FileName), report.Sources{
		Concerts: a.Concerts,
		Venues:   a.Venues,
		Tickets:  a.Tickets,
		Payments: a.Payments,
		Feedback: a.Feedback,
		Crew:     a.Crew,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", report.FileName, err)
	}

	a.Auth = auth.NewService(a.Attendees, settings.BcryptCost, logger)
	if settings.AdminUsername != "" {
		if _, err := a.Auth.EnsureAdmin(settings.AdminUsername, settings.AdminPassword); err != nil {
			return nil, err
		}
	}

	logger.Info("data loaded",
		zap.String("dir", settings.DataDir),
		zap.Int("venues", len(a.Venues.All())),
		zap.Int("concerts", len(a.Concerts.All())),
		zap.Int("attendees", len(a.Attendees.All())),
		zap.Int("tickets", len(a.Tickets.All())),
	)
	return a, nil
}

// Now returns the current time as the app sees it.
func (a *App) Now() time.Time {
	return a.now()
}
