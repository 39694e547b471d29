package datefmt

import (
	"testing"
	"time"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		in           string
		wantDateTime string
		wantTime     string
		wantDate     string
	}{
		{"2025-01-01T14:30:00", "01.01.2025, 14:30", "14:30", "01.01.2025"},
		{"2025-01-01T14:30", "01.01.2025, 14:30", "14:30", "01.01.2025"},
		{"2025-03-09T07:05:00+00:00", "09.03.2025, 07:05", "07:05", "09.03.2025"},
		{"2025-03-09T23:15:00.000Z", "09.03.2025, 23:15", "23:15", "09.03.2025"},
		{"2025-03-09 08:00:00", "09.03.2025, 08:00", "08:00", "09.03.2025"},
		{"2025-12-24", "24.12.2025, 00:00", "00:00", "24.12.2025"},
		{"not-a-date", "not-a-date", "not-a-date", "not-a-date"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatDateTime(tt.in); got != tt.wantDateTime {
				t.Errorf("FormatDateTime(%q) = %q, want %q", tt.in, got, tt.wantDateTime)
			}
			if got := FormatTime(tt.in); got != tt.wantTime {
				t.Errorf("FormatTime(%q) = %q, want %q", tt.in, got, tt.wantTime)
			}
			if got := FormatDate(tt.in); got != tt.wantDate {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.wantDate)
			}
		})
	}
}

func TestOffsetIsNotConverted(t *testing.T) {
	if got := FormatTime("2025-06-01T10:00:00+02:00"); got != "10:00" {
		t.Errorf("FormatTime() = %q, want 10:00", got)
	}
}

func TestParseDisplayDate(t *testing.T) {
	got, err := ParseDisplayDate("24.12.2025", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDisplayDate() = %v, want %v", got, want)
	}

	if _, err := ParseDisplayDate("2025-12-24", DefaultDisplayPattern); err == nil {
		t.Error("expected error for mismatched pattern")
	}
	if _, err := ParseDisplayDate("12/24/2025", "01/02/2006"); err != nil {
		t.Errorf("custom pattern: %v", err)
	}
}

func TestDisplayToISO(t *testing.T) {
	got, err := DisplayToISO("01.02.2025", DefaultDisplayPattern)
	if err != nil || got != "2025-02-01" {
		t.Errorf("DisplayToISO() = %q, %v", got, err)
	}
	if _, err := DisplayToISO("31.02.2025", DefaultDisplayPattern); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestFormatRange(t *testing.T) {
	if got := FormatRange("2025-01-01", "2025-01-05"); got != "01.01.2025 – 05.01.2025" {
		t.Errorf("FormatRange() = %q", got)
	}
}
