// Package auth registers attendee accounts and checks their credentials.
//
// Passwords are stored as bcrypt hashes on the attendee record. There are no
// sessions: Login returns the attendee and the caller keeps it for as long as
// the user stays logged in.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/handiism/concert-manager/internal/attendee"
	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
	"github.com/handiism/concert-manager/internal/validate"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong
	// password. The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

// Registration is the data needed to create an account.
type Registration struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Type     model.AttendeeType
	Username string
	Password string
}

// Service authenticates attendees.
type Service struct {
	attendees *attendee.Module
	cost      int
	logger    *zap.Logger
}

// NewService creates a Service hashing with the given bcrypt cost. A cost of
// zero uses bcrypt.DefaultCost.
func NewService(attendees *attendee.Module, cost int, logger *zap.Logger) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{attendees: attendees, cost: cost, logger: logger.Named("auth")}
}

// Register validates r and creates a regular account.
func (s *Service) Register(r Registration) (*model.Attendee, error) {
	return s.register(r, false)
}

// Login returns the attendee whose username and password match.
func (s *Service) Login(username, password string) (*model.Attendee, error) {
	a, err := s.attendees.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Info("login failed", zap.String("username", username), zap.String("reason", "unknown user"))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !verifyPassword(a.PasswordHash, password) {
		s.logger.Info("login failed", zap.String("username", username), zap.String("reason", "wrong password"))
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("login", zap.Int("attendee", int(a.ID)), zap.Bool("admin", a.Admin))
	return a, nil
}

// ChangePassword replaces an attendee's password after checking the current one.
func (s *Service) ChangePassword(id model.AttendeeID, current, next string) error {
	a, err := s.attendees.Get(id)
	if err != nil {
		return err
	}
	if !verifyPassword(a.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if err := validate.Password("new password", next); err != nil {
		return err
	}

	hash, err := hashPassword(next, s.cost)
	if err != nil {
		return err
	}
	return s.attendees.Update(id, func(a *model.Attendee) {
		a.PasswordHash = hash
	})
}

// EnsureAdmin creates an admin account with the given credentials unless an
// admin already exists. It reports whether an account was created.
func (s *Service) EnsureAdmin(username, password string) (bool, error) {
	if len(s.attendees.Admins()) > 0 {
		return false, nil
	}
	_, err := s.register(Registration{
		Name:     "Administrator",
		Type:     model.AttendeeStaff,
		Username: username,
		Password: password,
	}, true)
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	s.logger.Warn("created admin account", zap.String("username", username))
	return true, nil
}

func (s *Service) register(r Registration, admin bool) (*model.Attendee, error) {
	r.Username = strings.TrimSpace(r.Username)
	if err := validate.Username("username", r.Username); err != nil {
		return nil, err
	}
	if err := validate.Password("password", r.Password); err != nil {
		return nil, err
	}
	if r.Email != "" {
		if err := validate.Email("email", r.Email); err != nil {
			return nil, err
		}
	}
	if _, err := s.attendees.FindByUsername(r.Username); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, r.Username)
	}

	hash, err := hashPassword(r.Password, s.cost)
	if err != nil {
		return nil, err
	}
	a := &model.Attendee{
		Name:         strings.TrimSpace(r.Name),
		Email:        strings.TrimSpace(r.Email),
		Phone:        strings.TrimSpace(r.Phone),
		Address:      strings.TrimSpace(r.Address),
		Type:         r.Type,
		Username:     r.Username,
		PasswordHash: hash,
		Admin:        admin,
	}
	if _, err := s.attendees.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// hashPassword returns the bcrypt hash of plain.
func hashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// verifyPassword compares a bcrypt hash with a plain password.
func verifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
