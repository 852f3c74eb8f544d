package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/handiism/concert-manager/internal/model"
)

// Layouts accepted by Date and DateTime.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9][0-9 -]*[0-9]$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)
	expiryRegex   = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	moneyRegex    = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]{1,2}))?$`)

	postalRegexes = []*regexp.Regexp{
		// US ZIP and ZIP+4
		regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`),
		// Canada
		regexp.MustCompile(`^[A-Za-z][0-9][A-Za-z] ?[0-9][A-Za-z][0-9]$`),
		// UK outward and inward code
		regexp.MustCompile(`^[A-Za-z]{1,2}[0-9][A-Za-z0-9]? ?[0-9][A-Za-z]{2}$`),
		regexp.MustCompile(`^[0-9]{4,6}$`),
	}
)

// Error is a validation failure for one field.
type Error struct {
	Field   string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func fail(field, format string, args ...any) error {
	return Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Required checks that value is not blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fail(field, "is required")
	}
	return nil
}

// Length checks the trimmed length of value in runes.
func Length(field, value string, minLen, maxLen int) error {
	n := len([]rune(strings.TrimSpace(value)))
	if n < minLen {
		return fail(field, "must be at least %d characters", minLen)
	}
	if n > maxLen {
		return fail(field, "must be at most %d characters", maxLen)
	}
	return nil
}

// Email checks the format of an email address.
func Email(field, value string) error {
	if !emailRegex.MatchString(strings.TrimSpace(value)) {
		return fail(field, "invalid email format")
	}
	return nil
}

// Phone accepts an optional leading + and 7 to 15 digits, which may be
// separated by spaces or dashes.
func Phone(field, value string) error {
	value = strings.TrimSpace(value)
	if !phoneRegex.MatchString(value) {
		return fail(field, "invalid phone number")
	}
	digits := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 7 || digits > 15 {
		return fail(field, "must have 7 to 15 digits")
	}
	return nil
}

// PostalCode accepts US ZIP (5 or 5+4), Canadian, UK and plain 4 to 6 digit
// postal codes.
func PostalCode(field, value string) error {
	value = strings.TrimSpace(value)
	for _, re := range postalRegexes {
		if re.MatchString(value) {
			return nil
		}
	}
	return fail(field, "invalid postal code")
}

// Date parses a YYYY-MM-DD calendar date in UTC.
func Date(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fail(field, "expected YYYY-MM-DD")
	}
	return t, nil
}

// DateTime parses a YYYY-MM-DD HH:MM timestamp in UTC.
func DateTime(field, value string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fail(field, "expected YYYY-MM-DD HH:MM")
	}
	return t, nil
}

// Luhn reports whether number passes the Luhn checksum. Spaces and dashes are
// ignored; any other non-digit fails.
func Luhn(number string) bool {
	sum, n := 0, 0
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c == ' ' || c == '-' {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if n%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		n++
	}
	return n > 0 && sum%10 == 0
}

// CardNumber checks a 13 to 19 digit card number with a valid checksum.
func CardNumber(field, value string) error {
	digits := Digits(value)
	if len(digits) < 13 || len(digits) > 19 || !Luhn(value) {
		return fail(field, "invalid card number")
	}
	return nil
}

// CardExpiry checks an MM/YY expiry that has not passed at now. A card is
// valid through the last day of its expiry month.
func CardExpiry(field, value string, now time.Time) error {
	m := expiryRegex.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return fail(field, "expected MM/YY")
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	end := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.Before(end) {
		return fail(field, "card has expired")
	}
	return nil
}

// Username checks 3 to 32 letters, digits, underscores, dots or dashes.
func Username(field, value string) error {
	if !usernameRegex.MatchString(value) {
		return fail(field, "use 3-32 letters, digits, '_', '.' or '-'")
	}
	return nil
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Password requires at least 8 characters with a letter and a digit, and
// at most MaxPasswordBytes bytes.
func Password(field, value string) error {
	if len(value) < 8 {
		return fail(field, "must be at least 8 characters")
	}
	if len(value) > MaxPasswordBytes {
		return fail(field, "must be at most %d bytes", MaxPasswordBytes)
	}
	var letter, digit bool
	for _, r := range value {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return fail(field, "must contain a letter and a digit")
	}
	return nil
}

// Rating checks a feedback rating.
func Rating(field string, value int) error {
	if value < model.MinRating || value > model.MaxRating {
		return fail(field, "must be between %d and %d", model.MinRating, model.MaxRating)
	}
	return nil
}

// PositiveInt parses a whole number greater than zero.
func PositiveInt(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return 0, fail(field, "must be a positive whole number")
	}
	return n, nil
}

// NonNegativeInt parses a whole number of zero or more.
func NonNegativeInt(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, fail(field, "must be zero or a positive whole number")
	}
	return n, nil
}

// Money parses an amount such as "12", "12.5" or "12.50" into cents.
func Money(field, value string) (int, error) {
	m := moneyRegex.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, fail(field, "expected an amount like 12.50")
	}
	units, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fail(field, "amount is too large")
	}
	cents := 0
	if m[2] != "" {
		frac := m[2]
		if len(frac) == 1 {
			frac += "0"
		}
		cents, _ = strconv.Atoi(frac)
	}
	return units*100 + cents, nil
}

// Digits returns only the decimal digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
