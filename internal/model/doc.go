// Package model defines the core data structures passed between the
// cue parser, the chapter builder and the tag writer.
//
// # TrackEntry
//
// TrackEntry is one chapter marker read from a cue sheet:
//
//	entry := model.TrackEntry{Index: 1, Title: "Intro", Start: 0}
//
// # ChapterFrame and TableOfContents
//
// ChapterFrame carries the semantic content of one ID3v2 CHAP frame;
// TableOfContents carries the single top-level CTOC frame:
//
//	frames := []model.ChapterFrame{
//	    {ID: "chp1", Start: 0, End: 90 * time.Second, Title: "Intro"},
//	}
//	toc := model.NewTableOfContents(frames)
//
// All values are built fresh per conversion run and held only in
// memory; the target MP3 file is the sole persistent artifact.
package model
