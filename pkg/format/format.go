package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Phone reformats a phone number while it is typed. Non-digits are dropped,
// then ten or more digits render as (ddd) ddd-dddd followed by any extra
// digits and three to five digits render as (ddd) rest. Six to nine digits
// stay bare until the number is long enough to format.
func Phone(raw string) string {
	digits := onlyDigits(raw)
	switch n := len(digits); {
	case n >= 10:
		return fmt.Sprintf("(%s) %s-%s%s", digits[:3], digits[3:6], digits[6:10], digits[10:])
	case n >= 6:
		return digits
	case n >= 3:
		return fmt.Sprintf("(%s) %s", digits[:3], digits[3:])
	default:
		return digits
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Clamp pulls a numeric input back inside [lo, hi]. Empty and non-numeric
// input is returned untouched.
func Clamp(raw string, lo, hi int) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return raw
	}
	if v < float64(lo) {
		return strconv.Itoa(lo)
	}
	if v > float64(hi) {
		return strconv.Itoa(hi)
	}
	return raw
}

// Level grades how close a counter is to its limit.
type Level string

const (
	LevelNormal  Level = "normal"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Counter is the live character count shown under a limited text area.
type Counter struct {
	Length int   `json:"length"`
	Max    int   `json:"max"`
	Level  Level `json:"level"`
}

// Count measures value against max. Above 90% of max the level is danger,
// above 70% it is warning.
func Count(value string, max int) Counter {
	n := utf8.RuneCountInString(value)
	c := Counter{Length: n, Max: max, Level: LevelNormal}
	switch {
	case float64(n) > float64(max)*0.9:
		c.Level = LevelDanger
	case float64(n) > float64(max)*0.7:
		c.Level = LevelWarning
	}
	return c
}

// String renders the counter text, e.g. "42/1000 characters".
func (c Counter) String() string {
	return fmt.Sprintf("%d/%d characters", c.Length, c.Max)
}
