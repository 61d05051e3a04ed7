// Package quantity parses user-entered quantity strings into decimal values.
//
// Accepted forms: a whole number ("2"), a decimal ("2.25"), a fraction
// ("9/4"), or a mixed number ("2 1/4", extra spaces between the whole part
// and the fraction are tolerated). Parsing is a pure function; it never
// partially succeeds.
package quantity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Each rejected input fails with one of these sentinel errors, wrapped with
// the offending text so callers can surface it verbatim.
var (
	ErrInvalidCharacter = errors.New("contains invalid characters; use only digits, spaces, \"/\" or \".\"")
	ErrNoDigits         = errors.New("contains no numbers")
	ErrExtraDot         = errors.New("contains too many decimal points; only one is allowed")
	ErrSpaceWithDot     = errors.New("must not combine spaces with a decimal point")
	ErrSlashWithDot     = errors.New("must not combine a slash with a decimal point")
	ErrExtraSlash       = errors.New("contains too many slashes; only one is allowed")
	ErrZeroDenominator  = errors.New("cannot divide by zero")
	ErrMalformed        = errors.New("is not a valid whole number, mixed number, fraction, or decimal")
)

// Parse converts text containing a whole number, mixed number, fraction, or
// decimal into a decimal value.
func Parse(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)

	for _, r := range s {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == ' ' || r == '.' || r == '/' {
			continue
		}
		return decimal.Zero, parseErr(text, ErrInvalidCharacter)
	}
	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, parseErr(text, ErrNoDigits)
	}

	switch {
	case strings.Contains(s, "."):
		return parseDecimal(text, s)
	case strings.Contains(s, "/"):
		return parseFraction(text, s)
	default:
		n, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, parseErr(text, ErrMalformed)
		}
		return n, nil
	}
}

func parseDecimal(text, s string) (decimal.Decimal, error) {
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, parseErr(text, ErrExtraDot)
	}
	if strings.Contains(s, " ") {
		return decimal.Zero, parseErr(text, ErrSpaceWithDot)
	}
	if strings.Contains(s, "/") {
		return decimal.Zero, parseErr(text, ErrSlashWithDot)
	}
	n, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, parseErr(text, ErrMalformed)
	}
	return n, nil
}

func parseFraction(text, s string) (decimal.Decimal, error) {
	if strings.Count(s, "/") > 1 {
		return decimal.Zero, parseErr(text, ErrExtraSlash)
	}

	whole := decimal.Zero
	fraction := s
	if strings.Contains(s, " ") {
		// Mixed number: whole part, one or more spaces, then the fraction.
		parts := strings.Split(s, " ")
		for _, middle := range parts[1 : len(parts)-1] {
			if middle != "" {
				return decimal.Zero, parseErr(text, ErrMalformed)
			}
		}
		w, err := decimal.NewFromString(parts[0])
		if err != nil {
			return decimal.Zero, parseErr(text, ErrMalformed)
		}
		whole = w
		fraction = parts[len(parts)-1]
	}

	num, den, ok := strings.Cut(fraction, "/")
	if !ok {
		return decimal.Zero, parseErr(text, ErrMalformed)
	}
	numerator, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, parseErr(text, ErrMalformed)
	}
	denominator, err := decimal.NewFromString(den)
	if err != nil {
		return decimal.Zero, parseErr(text, ErrMalformed)
	}
	if denominator.IsZero() {
		return decimal.Zero, parseErr(text, ErrZeroDenominator)
	}

	return whole.Add(numerator.Div(denominator)), nil
}

func parseErr(text string, err error) error {
	return fmt.Errorf("%q %w", text, err)
}

// IsParseError reports whether err came from Parse rejecting its input.
func IsParseError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidCharacter, ErrNoDigits, ErrExtraDot, ErrSpaceWithDot,
		ErrSlashWithDot, ErrExtraSlash, ErrZeroDenominator, ErrMalformed,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
