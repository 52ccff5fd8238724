package model

import "time"

// ChapterFrame is the semantic content of one ID3v2 CHAP frame.
//
// Frames are produced by the chapter builder and handed to a TagWriter
// for encoding. The builder guarantees:
//   - ID is unique within the file and stable ("chp1", "chp2", ...)
//   - Start < End
//   - End of chapter N equals Start of chapter N+1; the last chapter
//     ends at the audio file's total duration
type ChapterFrame struct {
	// ID is the frame element ID, unique per MP3 file.
	ID string

	// Start is the chapter start offset within the audio.
	Start time.Duration

	// End is the chapter end offset within the audio.
	End time.Duration

	// Title is the chapter display title (CHAP embedded TIT2).
	Title string
}

// TableOfContents is the semantic content of the single top-level ID3v2
// CTOC frame referencing all chapters in playback order.
type TableOfContents struct {
	// ElementID is the CTOC element ID ("toc").
	ElementID string

	// ChildIDs lists the chapter frame IDs in playback order.
	ChildIDs []string

	// TopLevel marks this as the root table of contents.
	// A file carries exactly one top-level CTOC.
	TopLevel bool

	// Ordered indicates the child entries form a fixed playback order.
	Ordered bool
}

// NewTableOfContents builds the top-level, ordered TOC for the given
// chapter frames.
func NewTableOfContents(frames []ChapterFrame) TableOfContents {
	ids := make([]string, len(frames))
	for i, f := range frames {
		ids[i] = f.ID
	}
	return TableOfContents{
		ElementID: "toc",
		ChildIDs:  ids,
		TopLevel:  true,
		Ordered:   true,
	}
}
