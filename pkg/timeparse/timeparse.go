// Package timeparse converts between moderator shorthand like "1d12h" and
// time.Duration values.
package timeparse

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 28 * Day // "o": the longest timeout Discord accepts
	Year  = 365 * Day
)

// ErrInvalidDuration is returned when the input adds up to nothing or to
// more than a time.Duration can hold.
var ErrInvalidDuration = errors.New("invalid duration")

var units = map[rune]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': Day,
	'w': Week,
	'o': Month,
	'y': Year,
}

// Parse reads shorthand such as "2d", "1w 3d" or "90m". A bare number means
// hours. Unknown unit letters count as hours, and digits with no unit after
// them are ignored.
func Parse(input string) (time.Duration, error) {
	s := strings.ToLower(strings.ReplaceAll(input, " ", ""))
	if s == "" {
		return 0, ErrInvalidDuration
	}

	if isDigits(s) {
		s += "h"
	}

	var total time.Duration
	var amount int64
	hasAmount := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digit := int64(r - '0')
			if amount > (math.MaxInt64-digit)/10 {
				return 0, ErrInvalidDuration
			}
			amount = amount*10 + digit
			hasAmount = true
			continue
		}
		if !hasAmount {
			continue
		}
		unit, ok := units[r]
		if !ok {
			unit = time.Hour
		}
		if amount > (math.MaxInt64-int64(total))/int64(unit) {
			return 0, ErrInvalidDuration
		}
		total += time.Duration(amount) * unit
		amount, hasAmount = 0, false
	}

	if total <= 0 {
		return 0, ErrInvalidDuration
	}
	return total, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Format renders d as "1d 2h 3m 4s", leaving out zero parts.
func Format(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	d = d.Truncate(time.Second)
	days := d / Day
	d -= days * Day
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	parts := make([]string, 0, 4)
	for _, p := range []struct {
		n      time.Duration
		suffix string
	}{{days, "d"}, {hours, "h"}, {minutes, "m"}, {seconds, "s"}} {
		if p.n > 0 {
			parts = append(parts, strconv.FormatInt(int64(p.n), 10)+p.suffix)
		}
	}
	return strings.Join(parts, " ")
}
