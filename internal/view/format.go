package view

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a stored date as dd/mm/yyyy, or returns it unchanged
// when it cannot be parsed.
func FormatDate(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format("02/01/2006")
	}
	return s
}

// FormatDateTime renders a stored timestamp as dd/mm/yyyy, hh:mm:ss.
func FormatDateTime(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format("02/01/2006, 15:04:05")
	}
	return s
}

// FormatNumber groups thousands and keeps at most two decimals.
func FormatNumber(v float64) string {
	return humanize.Commaf(math.Round(v*100) / 100)
}

// FormatMoney renders a pound sterling amount, sign before the symbol.
func FormatMoney(v float64) string {
	if v < 0 {
		return "-£" + FormatNumber(-v)
	}
	return "£" + FormatNumber(v)
}

func itoa(n int) string { return strconv.Itoa(n) }
