package urgency

import (
	"testing"
	"time"
)

func TestParseNoteDate(t *testing.T) {
	got, ok := ParseNoteDate("📅 Randevu: 5 Mart 2026 Perşembe 14:30")
	if !ok {
		t.Fatal("expected note date to parse")
	}
	want := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("parsed %v, want %v", got, want)
	}
}

func TestParseNoteDateEmbeddedInText(t *testing.T) {
	text := "Görüşme iyi geçti.\n📅 Randevu: 12 Aralık 2026 Cumartesi 09:15\nTekrar aranacak."
	got, ok := ParseNoteDate(text)
	if !ok {
		t.Fatal("expected embedded note date to parse")
	}
	want := time.Date(2026, time.December, 12, 9, 15, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("parsed %v, want %v", got, want)
	}
}

func TestParseNoteDateMalformed(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"no marker", "normal note text"},
		{"unknown month", "📅 Randevu: 5 Marc 2026 Perşembe 14:30"},
		{"missing time", "📅 Randevu: 5 Mart 2026 Perşembe"},
		{"hour out of range", "📅 Randevu: 5 Mart 2026 Perşembe 25:30"},
		{"minute out of range", "📅 Randevu: 5 Mart 2026 Perşembe 14:75"},
		{"day out of range", "📅 Randevu: 45 Mart 2026 Perşembe 14:30"},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := ParseNoteDate(tc.text); ok {
				t.Fatalf("expected %q to yield no value", tc.text)
			}
		})
	}
}
