// Package validate checks and parses user input for the console shell.
//
// Every check takes the name of the field being validated and returns an
// Error naming it, so callers can print a fixed message and re-prompt:
//
//	if err := validate.Email("email", input); err != nil {
//	    fmt.Fprintln(out, err)
//	}
//
// Parsers such as Date, DateTime, PositiveInt and Money return the parsed
// value together with the same kind of error.
package validate
