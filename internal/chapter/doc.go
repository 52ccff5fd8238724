// Package chapter turns ordered track entries into ID3v2 chapter
// frame records.
//
// Build computes the end boundary of every chapter (each chapter runs
// until the next one starts, the last until the end of the audio),
// assigns deterministic frame IDs and produces the top-level table of
// contents:
//
//	frames, toc, err := chapter.Build(entries, totalDuration)
//
// Boundary violations (empty chapters, a total duration that does not
// reach past the last start) surface as *ValidationError and abort the
// file's conversion.
package chapter
