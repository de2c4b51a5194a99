package handlers

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatRupiah renders an amount the Indonesian way: Rp 1.234.567,50.
func FormatRupiah(value float64) string {
	s := strconv.FormatFloat(math.Abs(value), 'f', 2, 64)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	b.WriteString("Rp ")
	if value < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// FormatDate shows dates as DD-MM-YYYY, or "-" when unset.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02-01-2006")
}

// FormatDateTime shows a stored timestamp in the server's local time zone.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(time.Local).Format("02-01-2006 15:04:05")
}

// FormatInputDate fills <input type="date"> values.
func FormatInputDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
