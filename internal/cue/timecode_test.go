package cue

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimecode_Frames(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"00:00:00", 0},
		{"01:30:00", 90 * time.Second},
		{"00:00:01", 13 * time.Millisecond},  // round(1000/75) = 13
		{"00:00:74", 987 * time.Millisecond}, // round(74*1000/75) = 987
		{"00:01:37", 1*time.Second + 493*time.Millisecond},
		{"103:12:00", 103*time.Minute + 12*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimecode(tt.input)
			if err != nil {
				t.Fatalf("ParseTimecode(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimecode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// The frame variant must follow (MM*60+SS)*1000 + round(FF*1000/75)
// exactly for every in-range second and frame value.
func TestParseTimecode_FrameFormula(t *testing.T) {
	for ss := 0; ss < 60; ss += 7 {
		for ff := 0; ff < 75; ff++ {
			input := timecodeString(5, ss, ff)
			got, err := ParseTimecode(input)
			if err != nil {
				t.Fatalf("ParseTimecode(%q) error: %v", input, err)
			}

			wantMillis := (5*60+ss)*1000 + (ff*1000*2+75)/150 // round half up
			want := time.Duration(wantMillis) * time.Millisecond
			if got != want {
				t.Errorf("ParseTimecode(%q) = %v, want %v", input, got, want)
			}
		}
	}
}

func timecodeString(mm, ss, ff int) string {
	const digits = "0123456789"
	return string([]byte{
		digits[mm/10], digits[mm%10], ':',
		digits[ss/10], digits[ss%10], ':',
		digits[ff/10], digits[ff%10],
	})
}

func TestParseTimecode_Milliseconds(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"00:00.000", 0},
		{"01:30.500", 90*time.Second + 500*time.Millisecond},
		{"00:05.5", 5*time.Second + 500*time.Millisecond},
		{"00:05.75", 5*time.Second + 750*time.Millisecond},
		{"12:00.001", 12*time.Minute + time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimecode(tt.input)
			if err != nil {
				t.Fatalf("ParseTimecode(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimecode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimecode_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"90",
		"1:2:3:4",
		"00:60:00", // seconds out of range
		"00:00:75", // frames out of range
		"00:61.000",
		"aa:bb:cc",
		"-01:00:00",
		"+1:00:00",
		"00:00.1234", // too many fraction digits
		"00:00.",
		"01:30",    // no fraction and no frame field
		"00: 1:00", // inner whitespace
		"01.30.00", // wrong separators
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimecode(input)
			if err == nil {
				t.Fatalf("ParseTimecode(%q) should fail", input)
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("ParseTimecode(%q) error = %T, want *FormatError", input, err)
			}
		})
	}
}
