// Package console is the numbered-menu front end of concert-manager.
//
// A Shell reads answers line by line from an io.Reader and writes menus and
// results to an io.Writer. Every prompt is validated and asked again until
// the answer is acceptable; failed operations print a short message and
// return to the menu. The session ends when the user exits or input runs out.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/handiism/concert-manager/internal/app"
	"github.com/handiism/concert-manager/internal/attendee"
	"github.com/handiism/concert-manager/internal/auth"
	"github.com/handiism/concert-manager/internal/comms"
	"github.com/handiism/concert-manager/internal/concert"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/payment"
	"github.com/handiism/concert-manager/internal/store"
	"github.com/handiism/concert-manager/internal/ticket"
	"github.com/handiism/concert-manager/internal/validate"
)

// Shell is an interactive console session.
type Shell struct {
	app     *app.App
	in      *bufio.Scanner
	out     io.Writer
	printer *message.Printer
	ctx     context.Context

	// ExportDir is the default directory offered by the export menu.
	ExportDir string

	user *model.Attendee
}

// New creates a Shell over the given input and output.
func New(a *app.App, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		app:       a,
		in:        bufio.NewScanner(in),
		out:       out,
		printer:   message.NewPrinter(language.English),
		ctx:       context.Background(),
		ExportDir: "exports",
	}
}

// action is one numbered menu entry.
type action struct {
	label string
	run   func() error
}

// Run shows the start menu until the user exits or the input ends.
func (s *Shell) Run(ctx context.Context) error {
	s.ctx = ctx
	s.println("Concert Manager")

	err := s.loop("Main menu", "Exit", []action{
		{"Login", s.login},
		{"Register", s.register},
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	s.println("Goodbye.")
	return nil
}

// loop shows a menu until the user picks 0. Errors from actions are printed
// and the menu is shown again; only end of input and cancellation leave it.
func (s *Shell) loop(title, back string, actions []action) error {
	for {
		if err := s.ctx.Err(); err != nil {
			return err
		}

		s.printf("\n== %s ==\n", title)
		for i, a := range actions {
			s.printf("%d. %s\n", i+1, a.label)
		}
		s.printf("0. %s\n", back)

		n, err := s.askChoice(len(actions))
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		if err := actions[n-1].run(); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return err
			}
			s.println(describe(err))
		}
	}
}

func (s *Shell) login() error {
	username, err := s.ask("Username: ")
	if err != nil {
		return err
	}
	password, err := s.ask("Password: ")
	if err != nil {
		return err
	}

	u, err := s.app.Auth.Login(username, password)
	if err != nil {
		return err
	}
	s.user = u
	defer func() { s.user = nil }()

	s.printf("Welcome, %s!\n", u.Name)
	if u.Admin {
		return s.adminMenu()
	}
	return s.attendeeMenu()
}

func (s *Shell) register() error {
	var r auth.Registration
	var err error

	if r.Name, err = s.askValid("Full name: ", required("name")); err != nil {
		return err
	}
	if r.Email, err = s.askValid("Email: ", func(v string) error { return validate.Email("email", v) }); err != nil {
		return err
	}
	if r.Phone, err = s.askOptional("Phone (optional): ", func(v string) error { return validate.Phone("phone", v) }); err != nil {
		return err
	}
	if r.Address, err = s.ask("Address (optional): "); err != nil {
		return err
	}

	types := []model.AttendeeType{model.AttendeeRegular, model.AttendeeVIP, model.AttendeeStudent}
	s.println("Attendee type: 1. Regular  2. VIP  3. Student")
	n, err := s.askRange("Type: ", 1, len(types))
	if err != nil {
		return err
	}
	r.Type = types[n-1]

	if r.Username, err = s.askValid("Username: ", func(v string) error { return validate.Username("username", v) }); err != nil {
		return err
	}
	if r.Password, err = s.askValid("Password: ", func(v string) error { return validate.Password("password", v) }); err != nil {
		return err
	}

	if _, err := s.app.Auth.Register(r); err != nil {
		return err
	}
	s.println("Account created. You can now log in.")
	return nil
}

// describe maps an error to the message shown to the user.
func describe(err error) string {
	var verr validate.Error
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %s.", verr.Field, verr.Message)
	case errors.Is(err, store.ErrNotFound):
		return "Not found."
	case errors.Is(err, model.ErrInvalidTransition):
		return "That status change is not allowed."
	case errors.Is(err, ticket.ErrSoldOut):
		return "Not enough tickets left."
	case errors.Is(err, concert.ErrNotOnSale):
		return "This concert is not on sale."
	case errors.Is(err, concert.ErrPromotionNotFound):
		return "Unknown promotion code."
	case errors.Is(err, concert.ErrPromotionExpired):
		return "That promotion has expired."
	case errors.Is(err, concert.ErrDuplicatePromo):
		return "That promotion code already exists."
	case errors.Is(err, payment.ErrInvalidCard):
		return "The card was declined. Check the number and expiry date."
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, auth.ErrUsernameTaken):
		return "That username is already taken."
	case errors.Is(err, attendee.ErrDuplicate):
		return "An account with that username or email already exists."
	case errors.Is(err, comms.ErrNoRecipients):
		return "Nobody holds a ticket for that concert."
	default:
		return fmt.Sprintf("Operation failed: %v.", err)
	}
}

// Prompts.

func (s *Shell) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// askValid asks until check accepts the answer.
func (s *Shell) askValid(prompt string, check func(string) error) (string, error) {
	for {
		v, err := s.ask(prompt)
		if err != nil {
			return "", err
		}
		if err := check(v); err != nil {
			s.printf("%s Please try again.\n", describe(err))
			continue
		}
		return v, nil
	}
}

// askOptional is askValid that also accepts an empty answer.
func (s *Shell) askOptional(prompt string, check func(string) error) (string, error) {
	return s.askValid(prompt, func(v string) error {
		if v == "" {
			return nil
		}
		return check(v)
	})
}

func (s *Shell) askChoice(options int) (int, error) {
	for {
		v, err := s.ask("Choice: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 && n <= options {
			return n, nil
		}
		s.println("Invalid choice. Please enter a number from the menu.")
	}
}

func (s *Shell) askRange(prompt string, lo, hi int) (int, error) {
	var n int
	_, err := s.askValid(prompt, func(v string) error {
		var err error
		n, err = strconv.Atoi(v)
		if err != nil || n < lo || n > hi {
			return validate.Error{Field: "number", Message: fmt.Sprintf("must be between %d and %d", lo, hi)}
		}
		return nil
	})
	return n, err
}

func (s *Shell) askInt(prompt, field string, parse func(field, v string) (int, error)) (int, error) {
	var n int
	_, err := s.askValid(prompt, func(v string) error {
		var err error
		n, err = parse(field, v)
		return err
	})
	return n, err
}

func (s *Shell) askID(prompt string) (int, error) {
	return s.askInt(prompt, "ID", validate.PositiveInt)
}

func (s *Shell) askMoney(prompt, field string) (int, error) {
	return s.askInt(prompt, field, validate.Money)
}

func (s *Shell) askDateTime(prompt, field string, optional bool) (time.Time, error) {
	var t time.Time
	_, err := s.askValid(prompt, func(v string) error {
		if v == "" && optional {
			t = time.Time{}
			return nil
		}
		var err error
		t, err = validate.DateTime(field, v)
		return err
	})
	return t, err
}

func (s *Shell) askYes(prompt string) (bool, error) {
	v, err := s.ask(prompt + " (y/N): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "y") || strings.EqualFold(v, "yes"), nil
}

func required(field string) func(string) error {
	return func(v string) error { return validate.Required(field, v) }
}

// Output.

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// table prints rows under headers, or "(none)" when there are no rows.
func (s *Shell) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		s.println("(none)")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	s.println(t.String())
}

func (s *Shell) money(cents int) string {
	return s.printer.Sprintf("$%.2f", float64(cents)/100)
}

func itoa[K ~int](id K) string {
	return strconv.Itoa(int(id))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(validate.DateTimeLayout)
}

// parseIDs parses a comma-separated list of IDs.
func parseIDs[K ~int](v string) ([]K, error) {
	var ids []K
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := validate.PositiveInt("ID", part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, K(n))
	}
	return ids, nil
}
