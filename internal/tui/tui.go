// Package tui provides a Bubble Tea dashboard for concert-manager.
//
// The dashboard opens the stores behind a spinner, then lets the user pick a
// module, browse its entities in a filterable table, inspect a concert's
// sell-through and export concerts while watching the progress events.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/app"
	"github.com/handiism/concert-manager/internal/config"
	"github.com/handiism/concert-manager/internal/export"
	"github.com/handiism/concert-manager/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateModules
	StateTable
	StateConcert
	StateExporting
	StateExportDone
	StateError
)

const maxLogs = 10

// LogEntry is an export progress message shown in the UI.
type LogEntry struct {
	Message string
	Level   export.ProgressLevel
}

// Options configure the dashboard.
type Options struct {
	Settings *config.Settings
	Logger   *zap.Logger

	// ExportDir is where exports are written.
	ExportDir string
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	filter   textinput.Model
	table    table.Model

	opts Options
	app  *app.App
	err  error

	ctx    context.Context
	cancel context.CancelFunc

	cursor  int
	section int
	concert *model.Concert

	// Export run
	manager      *export.Manager
	events       chan export.ProgressEvent
	exportCancel context.CancelFunc
	logs         []LogEntry
	done         int32
	total        int32
	files        int32

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	if opts.Settings == nil {
		opts.Settings = config.DefaultSettings()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "exports"
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ti := textinput.New()
	ti.Placeholder = "filter by name"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	tbl := table.New(table.WithFocused(true), table.WithHeight(12))
	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#F8B500"))
	tbl.SetStyles(styles)

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		filter:   ti,
		table:    tbl,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadApp(m.ctx, m.opts.Settings, m.opts.Logger))
}

// Message types
type (
	// LoadedMsg is sent when the stores have been opened.
	LoadedMsg struct {
		App *app.App
		Err error
	}

	// ProgressMsg carries one export progress event.
	ProgressMsg struct {
		Event export.ProgressEvent
	}

	// ExportDoneMsg is sent when an export run finishes.
	ExportDoneMsg struct {
		Done  int32
		Total int32
		Files int32
		Err   error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case LoadedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.app = msg.App
		m.state = StateModules

	case ProgressMsg:
		m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}
		if m.events != nil {
			cmds = append(cmds, waitForEvent(m.events))
		}

	case ExportDoneMsg:
		m.done, m.total, m.files = msg.Done, msg.Total, msg.Files
		m.manager = nil
		m.events = nil
		if m.exportCancel != nil {
			m.exportCancel()
			m.exportCancel = nil
		}
		switch {
		case errors.Is(msg.Err, context.Canceled):
			m.err = fmt.Errorf("export cancelled")
		default:
			m.err = msg.Err
		}
		m.state = StateExportDone

	case TickMsg:
		if m.manager != nil && m.state == StateExporting {
			m.done, m.total, m.files = m.manager.Progress()
			var percent float64
			if m.total > 0 {
				percent = float64(m.done) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.state {
	case StateModules:
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(sections)-1 {
				m.cursor++
			}
		case "enter":
			m.openSection(m.cursor)
		case "e":
			return m.startExport(nil)
		case "q", "esc":
			m.cancel()
			return m, tea.Quit
		}

	case StateTable:
		if m.filter.Focused() {
			switch key {
			case "enter", "esc":
				m.filter.Blur()
				m.table.Focus()
				return m, nil
			}
			var cmd tea.Cmd
			before := m.filter.Value()
			m.filter, cmd = m.filter.Update(msg)
			if m.filter.Value() != before {
				m.refreshRows()
			}
			return m, cmd
		}

		switch key {
		case "/":
			m.table.Blur()
			m.filter.Focus()
			return m, textinput.Blink
		case "esc":
			m.state = StateModules
			return m, nil
		case "enter":
			if sections[m.section].name == "Concerts" {
				if id, ok := concertID(m.table.SelectedRow()); ok {
					if c, err := m.app.Concerts.Get(id); err == nil {
						m.concert = c
						m.state = StateConcert
					}
				}
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case StateConcert:
		switch key {
		case "esc":
			m.state = StateTable
		case "x":
			return m.startExport([]model.ConcertID{m.concert.ID})
		}

	case StateExporting:
		if key == "esc" && m.exportCancel != nil {
			m.exportCancel()
		}

	case StateExportDone:
		switch key {
		case "enter", "esc":
			m.state = StateModules
			m.err = nil
		case "q":
			m.cancel()
			return m, tea.Quit
		}

	case StateError:
		if key == "q" || key == "esc" || key == "enter" {
			m.cancel()
			return m, tea.Quit
		}
	}

	return m, nil
}

// openSection shows the table of sections[i] with the filter cleared.
func (m *Model) openSection(i int) {
	m.section = i
	m.filter.SetValue("")
	m.filter.Blur()
	m.table.SetRows(nil)
	m.table.SetColumns(sections[i].columns)
	m.refreshRows()
	m.table.Focus()
	m.state = StateTable
}

func (m *Model) refreshRows() {
	m.table.SetRows(sections[m.section].rows(m.app, m.filter.Value()))
	m.table.SetCursor(0)
}

// startExport begins exporting ids, or every concert when ids is empty.
// Store access moves to the export goroutine until ExportDoneMsg arrives.
func (m Model) startExport(ids []model.ConcertID) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)
	events := make(chan export.ProgressEvent, 256)

	m.manager = export.NewManager(m.app, func(e export.ProgressEvent) {
		select {
		case events <- e:
		case <-ctx.Done():
		}
	})
	m.events = events
	m.exportCancel = cancel
	m.logs = nil
	m.done, m.total, m.files = 0, 0, 0
	m.err = nil
	m.state = StateExporting

	return m, tea.Batch(
		runExport(ctx, m.manager, events, ids, m.opts.ExportDir),
		waitForEvent(events),
		tickProgress(),
	)
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next export event.
func waitForEvent(events <-chan export.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: e}
	}
}

// runExport closes events once the export has returned and no callback can
// run any more.
func runExport(ctx context.Context, manager *export.Manager, events chan export.ProgressEvent, ids []model.ConcertID, dir string) tea.Cmd {
	return func() tea.Msg {
		err := manager.Export(ctx, ids, dir)
		close(events)
		done, total, files := manager.Progress()
		return ExportDoneMsg{Done: done, Total: total, Files: files, Err: err}
	}
}

func loadApp(ctx context.Context, settings *config.Settings, logger *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		a, err := app.Open(ctx, settings, logger)
		return LoadedMsg{App: a, Err: err}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♪ Concert Manager"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Data: %s", m.opts.Settings.DataDir)))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Loading stores..."))
		b.WriteString("\n")
	case StateModules:
		b.WriteString(m.viewModules())
	case StateTable:
		b.WriteString(m.viewTable())
	case StateConcert:
		b.WriteString(m.viewConcert())
	case StateExporting:
		b.WriteString(m.viewExporting())
	case StateExportDone:
		b.WriteString(m.viewExportDone())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewModules() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Modules"))
	b.WriteString("\n\n")
	for i, s := range sections {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› " + s.name))
		} else {
			b.WriteString("  " + s.name)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewTable() string {
	var b strings.Builder

	s := sections[m.section]
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s (%d)", s.name, len(m.table.Rows()))))
	b.WriteString("\n")
	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewConcert() string {
	var b strings.Builder
	c := m.concert

	b.WriteString(subtitleStyle.Render(c.Name))
	b.WriteString("  ")
	b.WriteString(infoStyle.Render(c.Status.String()))
	b.WriteString("\n")
	if c.Description != "" {
		b.WriteString(c.Description)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Starts: %s\n", c.StartsAt.Format("Mon 2 Jan 2006 15:04"))
	if v, err := m.app.Venues.Get(c.VenueID); err == nil {
		fmt.Fprintf(&b, "Venue:  %s, %s\n", v.Name, v.Location())
	}
	fmt.Fprintf(&b, "Price:  %s\n", money(c.Ticket.BasePriceCents))

	var names []string
	for _, p := range m.app.Performers.FindByConcert(c.ID) {
		names = append(names, p.Name)
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, "Lineup: %s\n", strings.Join(names, ", "))
	}
	b.WriteString("\n")

	b.WriteString(m.progress.ViewAs(c.Ticket.SellThrough()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(printer.Sprintf("Sold %d of %d tickets", c.Ticket.QuantitySold, c.Ticket.Total())))
	b.WriteString("\n")
	if avg, n := m.app.Feedback.AverageRating(c.ID); n > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Rated %.1f from %d review(s)", avg, n)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewExporting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Exporting to %s...", m.opts.ExportDir)))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Concerts: %d/%d | Files: %d", m.done, m.total, m.files)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())
	return b.String()
}

func (m Model) viewExportDone() string {
	var b strings.Builder

	title := "✓ Export complete"
	if m.err != nil {
		title = "Export finished with errors"
	}
	b.WriteString(boxStyle.Render(fmt.Sprintf(
		"%s\n\nConcerts: %d/%d\nFiles: %d\nOutput: %s",
		title, m.done, m.total, m.files, m.opts.ExportDir,
	)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.renderLogs())
	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case export.LevelError:
			style = errorStyle
			prefix = "✗"
		case export.LevelWarning:
			style = warningStyle
			prefix = "!"
		case export.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case export.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateModules:
		return "↑/↓: select • enter: open • e: export all • q: quit"
	case StateTable:
		if m.filter.Focused() {
			return "type to filter • enter/esc: done"
		}
		if sections[m.section].name == "Concerts" {
			return "↑/↓: move • /: filter • enter: details • esc: back"
		}
		return "↑/↓: move • /: filter • esc: back"
	case StateConcert:
		return "x: export this concert • esc: back"
	case StateExporting:
		return "esc: cancel"
	case StateExportDone:
		return "enter: back • q: quit"
	case StateError:
		return "q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
