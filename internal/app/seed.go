package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/auth"
	"github.com/handiism/concert-manager/internal/model"
)

// Demo account created by Seed.
const (
	DemoUsername = "demo"
	DemoPassword = "demo1234"
)

// Seed fills empty stores with a small demo data set: two venues, three
// concerts with lineups and crew, and a demo attendee account. It does
// nothing and returns false when any venue or concert exists.
func (a *App) Seed() (bool, error) {
	if len(a.Venues.All()) > 0 || len(a.Concerts.All()) > 0 {
		return false, nil
	}
	now := a.now().UTC().Truncate(time.Hour)

	venues := []*model.Venue{
		{Name: "Riverside Hall", Address: "1 Quay Street", City: "Portsmouth", Country: "UK", ZipCode: "PO1 2AB", Capacity: 1200, ContactInfo: "+44 23 9200 0000"},
		{Name: "The Cellar", Address: "12 Market Lane", City: "Brighton", Country: "UK", ZipCode: "BN1 1AA", Capacity: 180},
	}
	for _, v := range venues {
		if _, err := a.Venues.Create(v); err != nil {
			return false, fmt.Errorf("seed venue: %w", err)
		}
	}

	performers := []*model.Performer{
		{Name: "The Night Owls", Genre: "Indie Rock", Bio: "Four-piece from the south coast.", FeeCents: 250000},
		{Name: "Marta Silva", Genre: "Jazz", Bio: "Pianist and composer.", FeeCents: 120000},
		{Name: "Low Tide", Genre: "Electronic", FeeCents: 80000},
	}
	for _, p := range performers {
		if _, err := a.Performers.Create(p); err != nil {
			return false, fmt.Errorf("seed performer: %w", err)
		}
	}

	concerts := []struct {
		concert    *model.Concert
		performers []*model.Performer
	}{
		{
			concert: &model.Concert{
				Name:        "Summer Opener",
				Description: "Season opening night.",
				StartsAt:    now.Add(30 * 24 * time.Hour),
				EndsAt:      now.Add(30*24*time.Hour + 4*time.Hour),
				VenueID:     venues[0].ID,
				Ticket:      model.ConcertTicket{BasePriceCents: 4500, QuantityAvailable: 1000},
				Promotions: []model.Promotion{
					{Code: "EARLY", Description: "Early bird", DiscountPercent: 20, ValidUntil: now.Add(14 * 24 * time.Hour)},
				},
			},
			performers: []*model.Performer{performers[0], performers[2]},
		},
		{
			concert: &model.Concert{
				Name:     "Late Jazz Session",
				StartsAt: now.Add(45 * 24 * time.Hour),
				EndsAt:   now.Add(45*24*time.Hour + 2*time.Hour),
				VenueID:  venues[1].ID,
				Ticket:   model.ConcertTicket{BasePriceCents: 2000, QuantityAvailable: 150},
				Promotions: []model.Promotion{
					{Code: "STUDENT", Description: "Student discount", DiscountPercent: 50},
				},
			},
			performers: []*model.Performer{performers[1]},
		},
		{
			concert: &model.Concert{
				Name:     "Winter Warehouse",
				StartsAt: now.Add(120 * 24 * time.Hour),
				VenueID:  venues[0].ID,
				Ticket:   model.ConcertTicket{BasePriceCents: 3500, QuantityAvailable: 800},
			},
			performers: []*model.Performer{performers[2]},
		},
	}
	for _, s := range concerts {
		id, err := a.Concerts.Create(s.concert)
		if err != nil {
			return false, fmt.Errorf("seed concert: %w", err)
		}
		for _, p := range s.performers {
			if err := a.Concerts.AddPerformer(id, p.ID); err != nil {
				return false, err
			}
			if err := a.Performers.AssignToConcert(p.ID, id); err != nil {
				return false, err
			}
		}
	}

	crew := []*model.Crew{
		{Name: "Sam Carter", Role: "Sound Engineer", Email: "sam@example.com", HourlyRateCents: 3500, Duties: []string{"Front of house mix"}},
		{Name: "Priya Shah", Role: "Stage Manager", Email: "priya@example.com", HourlyRateCents: 4000},
		{Name: "Tom Reed", Role: "Security", HourlyRateCents: 1800},
	}
	for i, c := range crew {
		if _, err := a.Crew.Create(c); err != nil {
			return false, fmt.Errorf("seed crew: %w", err)
		}
		concertID := concerts[i%len(concerts)].concert.ID
		if err := a.Crew.AssignToConcert(c.ID, concertID); err != nil {
			return false, err
		}
	}

	if _, err := a.Attendees.FindByUsername(DemoUsername); err != nil {
		_, err := a.Auth.Register(auth.Registration{
			Name:     "Demo Attendee",
			Email:    "demo@example.com",
			Type:     model.AttendeeRegular,
			Username: DemoUsername,
			Password: DemoPassword,
		})
		if err != nil {
			return false, fmt.Errorf("seed attendee: %w", err)
		}
	}

	a.Logger.Info("demo data created",
		zap.Int("venues", len(venues)),
		zap.Int("concerts", len(concerts)),
		zap.Int("performers", len(performers)),
	)
	return true, nil
}
