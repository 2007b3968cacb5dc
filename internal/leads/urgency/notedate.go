package urgency

import (
	"regexp"
	"strconv"
	"time"
)

// Legacy clients wrote appointment confirmations into note bodies as
// "📅 Randevu: 5 Mart 2026 Perşembe 14:30". Until appointment_date is
// reliably populated upstream, those notes are the only machine-readable
// trace of the appointment, so we mine them as a fallback. Every failure
// mode here is soft: a malformed note simply yields no value.
var noteDatePattern = regexp.MustCompile(`📅 Randevu:\s*(\d{1,2})\s+(\p{L}+)\s+(\d{4})\s+\p{L}+\s+(\d{1,2}):(\d{2})`)

// turkishMonths maps Turkish month names to their index.
var turkishMonths = map[string]time.Month{
	"Ocak":    time.January,
	"Şubat":   time.February,
	"Mart":    time.March,
	"Nisan":   time.April,
	"Mayıs":   time.May,
	"Haziran": time.June,
	"Temmuz":  time.July,
	"Ağustos": time.August,
	"Eylül":   time.September,
	"Ekim":    time.October,
	"Kasım":   time.November,
	"Aralık":  time.December,
}

// ParseNoteDate extracts an appointment time from a note body. Returns
// ok=false for any text without a well-formed marker: missing marker, unknown
// month name, or an out-of-range hour or minute.
func ParseNoteDate(text string) (time.Time, bool) {
	match := noteDatePattern.FindStringSubmatch(text)
	if match == nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(match[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	month, ok := turkishMonths[match[2]]
	if !ok {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(match[3])
	if err != nil {
		return time.Time{}, false
	}

	hour, err := strconv.Atoi(match[4])
	if err != nil || hour > 23 {
		return time.Time{}, false
	}

	minute, err := strconv.Atoi(match[5])
	if err != nil || minute > 59 {
		return time.Time{}, false
	}

	return time.Date(year, month, day, hour, minute, 0, 0, time.Local), true
}
