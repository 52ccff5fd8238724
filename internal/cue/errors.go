package cue

import "fmt"

// FormatError indicates a timestamp token that does not match any
// supported cue timecode pattern, or whose fields exceed their modulus
// (seconds >= 60, frames >= 75).
//
// A FormatError is local to one timestamp. The parser recovers by
// dropping the containing track; callers parsing standalone timecodes
// receive it directly.
type FormatError struct {
	// Input is the offending timestamp token.
	Input string

	// Reason describes what made the token unusable.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid timecode %q: %s", e.Input, e.Reason)
}

// ParseError indicates a cue sheet that is structurally unusable:
// no track carries an INDEX 01 anchor, or track numbers are not
// strictly increasing.
//
// A ParseError is fatal for that file's conversion but never for a
// batch; the caller skips the file and keeps the originals.
type ParseError struct {
	// Reason describes why the sheet cannot anchor any chapters.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unusable cue sheet: %s", e.Reason)
}
