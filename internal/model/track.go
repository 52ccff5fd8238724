package model

import "time"

// TrackEntry represents one track marker taken from a cue sheet.
//
// A TrackEntry is produced for every TRACK block that carries an
// INDEX 01 anchor. Entries keep the order in which they appear in the
// sheet; well-formed sheets have non-decreasing start times and
// strictly increasing index numbers.
//
// Example:
//
//	entry := model.TrackEntry{
//	    Index: 2,
//	    Title: "Chapter One",
//	    Start: 90 * time.Second,
//	}
type TrackEntry struct {
	// Index is the track number as declared in the cue sheet (1-indexed).
	Index int

	// Title is the track title. If the sheet carried no usable TITLE
	// line the parser substitutes "Track <n>".
	Title string

	// Start is the offset of the track within the audio file,
	// taken from the INDEX 01 timestamp. Millisecond resolution.
	Start time.Duration
}
