package tracker

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amounts are stored as integer cents so summation never loses precision.

// ParseAmount parses a positive decimal amount with at most two fractional
// digits into cents. Only digits and one dot are allowed, so signed inputs
// like "-0.5" or "12.-5" are rejected outright.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) {
		return 0, fmt.Errorf("%w: malformed amount %q", ErrInvalidInput, s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed amount %q", ErrInvalidInput, s)
	}
	if units > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("%w: amount %q is too large", ErrInvalidInput, s)
	}

	var cents int64
	if hasFrac {
		if len(frac) > 2 {
			return 0, fmt.Errorf("%w: amount %q has more than two decimal places", ErrInvalidInput, s)
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
		if len(frac) == 1 {
			cents *= 10
		}
	}

	total := units*100 + cents
	if total <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	return total, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders cents as a decimal string. Whole amounts keep a
// single trailing zero ("100.0"), fractional amounts keep two digits
// ("99.95").
func FormatAmount(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("%d.0", cents/100)
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// FormatPercent renders a share with two decimal places.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}
