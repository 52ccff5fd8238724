// Package cue parses cue sheets into ordered track entries.
//
// # Parsing
//
// Parser turns the full text of a cue sheet into the track markers a
// chapter set can be built from:
//
//	parser := cue.NewParser()
//	entries, warnings, err := parser.Parse(text)
//
// Individual broken tracks degrade with a warning; only a sheet with
// no usable tracks at all fails with *ParseError.
//
// # Timecodes
//
// ParseTimecode handles both Red Book frame timestamps and
// millisecond-style variants:
//
//	cue.ParseTimecode("01:30:00")  // 1m30s (75 frames/s)
//	cue.ParseTimecode("01:30.500") // 1m30.5s
//
// # Encodings
//
// DecodeSheet converts raw sheet bytes (Windows-1252 by default, the
// code page rippers emit) to UTF-8 before parsing.
package cue
