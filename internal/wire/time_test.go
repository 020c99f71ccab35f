package wire

import (
	"errors"
	"testing"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
)

func TestParseInstant_OffsetForms(t *testing.T) {
	utc := time.Date(2025, 4, 28, 13, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-04-28T16:00:00+03:00", utc},
		{"2025-04-28T16:00:00+0300", utc}, // backend form, no colon
		{"2025-04-28T13:00:00Z", utc},
		{"2025-04-28T13:00:00.250Z", utc.Add(250 * time.Millisecond)},
	}
	for _, tt := range tests {
		got, err := ParseInstant(tt.in)
		if err != nil {
			t.Fatalf("ParseInstant(%q) error: %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseInstant(%q) = %v, want instant %v", tt.in, got, tt.want)
		}
		if got.Location() != time.Local {
			t.Errorf("ParseInstant(%q) zone = %v, want local", tt.in, got.Location())
		}
	}
}

func TestParseInstant_NoOffset(t *testing.T) {
	got, err := ParseInstant("2023-05-01T10:00:00")
	if err != nil {
		t.Fatalf("ParseInstant error: %v", err)
	}
	want := time.Date(2023, 5, 1, 10, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ParseInstant = %v, want %v", got, want)
	}
}

func TestParseInstant_Bad(t *testing.T) {
	for _, s := range []string{"", "not a date", "2025-13-40T99:00:00Z", "16:00"} {
		if _, err := ParseInstant(s); !errors.Is(err, domain.ErrBadFormat) {
			t.Errorf("ParseInstant(%q) error = %v, want ErrBadFormat", s, err)
		}
	}
}

func TestInstantRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2025, 4, 28, 16, 0, 0, 0, time.Local),
		time.Date(2023, 5, 1, 23, 59, 59, 999_000_000, time.Local),
		time.Now().Truncate(time.Millisecond),
	}
	for _, want := range instants {
		s, err := FormatInstant(want)
		if err != nil {
			t.Fatalf("FormatInstant(%v) error: %v", want, err)
		}
		got, err := ParseInstant(s)
		if err != nil {
			t.Fatalf("ParseInstant(%q) error: %v", s, err)
		}
		if !got.Equal(want) {
			t.Errorf("round trip of %v through %q = %v", want, s, got)
		}
	}
}

func TestFormatInstant_OutOfRange(t *testing.T) {
	far := time.Date(12025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := FormatInstant(far); !errors.Is(err, domain.ErrBadFormat) {
		t.Errorf("FormatInstant(year 12025) error = %v, want ErrBadFormat", err)
	}
}

func TestParseSpan(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT1H30M", 90 * time.Minute},
		{"PT0S", 0},
		{"P1D", 24 * time.Hour},
		{"P1W", 7 * 24 * time.Hour},
		{"P1DT2H", 26 * time.Hour},
		{"PT0.500S", 500 * time.Millisecond},
		{"PT25M", 25 * time.Minute},
		{"P0Y0M0DT1H", time.Hour},
		// Alternative form the backend emits.
		{"P0000-00-00T01:30:00", 90 * time.Minute},
		{"P0000-00-00T00:05:00", 5 * time.Minute},
		{"P0000-00-01T00:00:00", 24 * time.Hour},
		{"P0000-00-00T00:00:00.250", 250 * time.Millisecond},
	}
	for _, tt := range tests {
		got, err := ParseSpan(tt.in)
		if err != nil {
			t.Fatalf("ParseSpan(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseSpan(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSpan_Bad(t *testing.T) {
	bad := []string{
		"",
		"1H30M",                 // no P
		"P",                     // empty body
		"PT1X",                  // unknown unit
		"P1Y",                   // nonzero calendar component
		"P0001-00-00T00:00:00",  // nonzero year, alternative form
		"P0000-02-00T00:00:00",  // nonzero month, alternative form
		"PT1H30",                // dangling number
	}
	for _, s := range bad {
		if _, err := ParseSpan(s); !errors.Is(err, domain.ErrBadFormat) {
			t.Errorf("ParseSpan(%q) error = %v, want ErrBadFormat", s, err)
		}
	}
}

func TestSpanRoundTrip(t *testing.T) {
	spans := []time.Duration{
		0,
		time.Second,
		90 * time.Minute,
		26*time.Hour + 45*time.Minute + 30*time.Second,
		500 * time.Millisecond,
	}
	for _, want := range spans {
		s, err := FormatSpan(want)
		if err != nil {
			t.Fatalf("FormatSpan(%v) error: %v", want, err)
		}
		got, err := ParseSpan(s)
		if err != nil {
			t.Fatalf("ParseSpan(%q) error: %v", s, err)
		}
		if got != want {
			t.Errorf("round trip of %v through %q = %v", want, s, got)
		}
	}
}

func TestFormatSpan_Negative(t *testing.T) {
	if _, err := FormatSpan(-time.Second); !errors.Is(err, domain.ErrBadFormat) {
		t.Errorf("FormatSpan(-1s) error = %v, want ErrBadFormat", err)
	}
}
