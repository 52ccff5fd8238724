package cue

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// framesPerSecond is the Red Book cue frame rate: one frame is 1/75 s.
const framesPerSecond = 75

// ParseTimecode converts a cue timestamp token into a duration with
// whole-millisecond resolution.
//
// Two shapes are accepted:
//
//	MM:SS:FF  - minutes, seconds, Red Book frames (1/75 s)
//	MM:SS.mmm - minutes, seconds, 1-3 fractional digits
//
// Minutes may exceed 99 (long-form rips routinely do). Seconds must be
// below 60 and frames below 75; anything else, including an
// unrecognized shape, returns a *FormatError. The frame variant rounds
// to the nearest millisecond: (MM*60+SS)*1000 + round(FF*1000/75).
//
// ParseTimecode is a pure function.
func ParseTimecode(token string) (time.Duration, error) {
	parts := strings.Split(token, ":")

	switch len(parts) {
	case 3:
		return parseFrameTimecode(token, parts[0], parts[1], parts[2])
	case 2:
		return parseFractionTimecode(token, parts[0], parts[1])
	default:
		return 0, &FormatError{Input: token, Reason: "expected MM:SS:FF or MM:SS.mmm"}
	}
}

// parseFrameTimecode handles the MM:SS:FF shape.
func parseFrameTimecode(token, mm, ss, ff string) (time.Duration, error) {
	minutes, err := parseField(mm)
	if err != nil {
		return 0, &FormatError{Input: token, Reason: "minutes are not a number"}
	}
	seconds, err := parseField(ss)
	if err != nil {
		return 0, &FormatError{Input: token, Reason: "seconds are not a number"}
	}
	frames, err := parseField(ff)
	if err != nil {
		return 0, &FormatError{Input: token, Reason: "frames are not a number"}
	}

	if seconds >= 60 {
		return 0, &FormatError{Input: token, Reason: "seconds must be below 60"}
	}
	if frames >= framesPerSecond {
		return 0, &FormatError{Input: token, Reason: "frames must be below 75"}
	}

	millis := (minutes*60+seconds)*1000 +
		int64(math.Round(float64(frames)*1000/framesPerSecond))
	return time.Duration(millis) * time.Millisecond, nil
}

// parseFractionTimecode handles the MM:SS.mmm shape.
func parseFractionTimecode(token, mm, rest string) (time.Duration, error) {
	secPart, fracPart, hasFraction := strings.Cut(rest, ".")
	if !hasFraction {
		return 0, &FormatError{Input: token, Reason: "expected MM:SS:FF or MM:SS.mmm"}
	}

	minutes, err := parseField(mm)
	if err != nil {
		return 0, &FormatError{Input: token, Reason: "minutes are not a number"}
	}
	seconds, err := parseField(secPart)
	if err != nil {
		return 0, &FormatError{Input: token, Reason: "seconds are not a number"}
	}
	if seconds >= 60 {
		return 0, &FormatError{Input: token, Reason: "seconds must be below 60"}
	}

	if len(fracPart) == 0 || len(fracPart) > 3 {
		return 0, &FormatError{Input: token, Reason: "fraction must have 1-3 digits"}
	}
	fraction, err := parseField(fracPart)
	if err != nil {
		return 0, &FormatError{Input: token, Reason: "fraction is not a number"}
	}
	// Scale "5" -> 500 ms, "50" -> 500 ms, "500" -> 500 ms.
	for i := len(fracPart); i < 3; i++ {
		fraction *= 10
	}

	millis := (minutes*60+seconds)*1000 + fraction
	return time.Duration(millis) * time.Millisecond, nil
}

// parseField parses one non-negative decimal field.
func parseField(s string) (int64, error) {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(s, 10, 64)
}
