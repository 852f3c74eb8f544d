package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/handiism/concert-manager/internal/app"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/search"
)

var printer = message.NewPrinter(language.English)

// section is one browsable module.
type section struct {
	name    string
	columns []table.Column

	// rows returns the module's entities matching query; an empty query
	// matches everything.
	rows func(a *app.App, query string) []table.Row
}

var sections = []section{
	{
		name: "Concerts",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Name", Width: 24},
			{Title: "Starts", Width: 16},
			{Title: "Status", Width: 10},
			{Title: "Price", Width: 9},
			{Title: "Sold", Width: 7},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, c := range a.Concerts.SearchByName(q) {
				rows = append(rows, table.Row{
					id(c.ID), c.Name, c.StartsAt.Format("2006-01-02 15:04"), c.Status.String(),
					money(c.Ticket.BasePriceCents), fmt.Sprintf("%.0f%%", c.Ticket.SellThrough()*100),
				})
			}
			return rows
		},
	},
	{
		name: "Venues",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Name", Width: 24},
			{Title: "Location", Width: 28},
			{Title: "Capacity", Width: 9},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, v := range a.Venues.SearchByName(q) {
				rows = append(rows, table.Row{id(v.ID), v.Name, v.Location(), printer.Sprintf("%d", v.Capacity)})
			}
			return rows
		},
	},
	{
		name: "Performers",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Name", Width: 24},
			{Title: "Genre", Width: 16},
			{Title: "Fee", Width: 11},
			{Title: "Sample", Width: 6},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, p := range a.Performers.SearchByName(q) {
				sample := ""
				if p.SampleTrackPath != "" {
					sample = "yes"
				}
				rows = append(rows, table.Row{id(p.ID), p.Name, p.Genre, money(p.FeeCents), sample})
			}
			return rows
		},
	},
	{
		name: "Crew",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Name", Width: 24},
			{Title: "Role", Width: 16},
			{Title: "Rate", Width: 9},
			{Title: "Concerts", Width: 8},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, c := range a.Crew.SearchByName(q) {
				rows = append(rows, table.Row{id(c.ID), c.Name, c.Role, money(c.HourlyRateCents), strconv.Itoa(len(c.ConcertIDs))})
			}
			return rows
		},
	},
	{
		name: "Attendees",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Name", Width: 20},
			{Title: "Username", Width: 14},
			{Title: "Type", Width: 8},
			{Title: "Points", Width: 7},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, at := range a.Attendees.SearchByName(q) {
				rows = append(rows, table.Row{id(at.ID), at.Name, at.Username, at.Type.String(), strconv.Itoa(at.LoyaltyPoints)})
			}
			return rows
		},
	},
	{
		name: "Tickets",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Concert", Width: 7},
			{Title: "Attendee", Width: 8},
			{Title: "Status", Width: 10},
			{Title: "Code", Width: 36},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, t := range a.Tickets.All() {
				rows = append(rows, table.Row{id(t.ID), id(t.ConcertID), id(t.AttendeeID), t.Status.String(), t.Code})
			}
			return filterRows(rows, q)
		},
	},
	{
		name: "Payments",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Concert", Width: 7},
			{Title: "Amount", Width: 10},
			{Title: "Method", Width: 13},
			{Title: "Status", Width: 9},
			{Title: "Transaction", Width: 36},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, p := range a.Payments.All() {
				rows = append(rows, table.Row{id(p.ID), id(p.ConcertID), money(p.AmountCents), p.Method.String(), p.Status.String(), p.TransactionID})
			}
			return filterRows(rows, q)
		},
	},
	{
		name: "Feedback",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Concert", Width: 7},
			{Title: "Rating", Width: 6},
			{Title: "Comment", Width: 40},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, f := range a.Feedback.All() {
				rows = append(rows, table.Row{id(f.ID), id(f.ConcertID), strings.Repeat("*", f.Rating), f.Comment})
			}
			return filterRows(rows, q)
		},
	},
	{
		name: "Messages",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Channel", Width: 12},
			{Title: "To", Width: 4},
			{Title: "Subject", Width: 24},
			{Title: "Message", Width: 30},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, l := range a.Comms.All() {
				rows = append(rows, table.Row{id(l.ID), l.Channel.String(), strconv.Itoa(len(l.RecipientIDs)), l.Subject, l.Message})
			}
			return filterRows(rows, q)
		},
	},
	{
		name: "Reports",
		columns: []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Concert", Width: 7},
			{Title: "Generated", Width: 16},
			{Title: "Summary", Width: 50},
		},
		rows: func(a *app.App, q string) []table.Row {
			var rows []table.Row
			for _, r := range a.Reports.All() {
				rows = append(rows, table.Row{id(r.ID), id(r.ConcertID), r.GeneratedAt.Format("2006-01-02 15:04"), r.Summary})
			}
			return filterRows(rows, q)
		},
	},
}

// filterRows keeps rows with a cell containing query.
func filterRows(rows []table.Row, query string) []table.Row {
	if strings.TrimSpace(query) == "" {
		return rows
	}
	var out []table.Row
	for _, r := range rows {
		for _, cell := range r {
			if search.Contains(cell, query) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func id[K ~int](v K) string {
	return strconv.Itoa(int(v))
}

func money(cents int) string {
	return printer.Sprintf("$%.2f", float64(cents)/100)
}

// concertID returns the concert in the first cell of a row.
func concertID(r table.Row) (model.ConcertID, bool) {
	if len(r) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(r[0])
	if err != nil {
		return 0, false
	}
	return model.ConcertID(n), true
}
