// Package audio provides the MP3 side of the conversion: writing
// ID3v2 chapter frames and probing playback duration.
//
// # Chapter writing
//
// ID3TagWriter embeds a chapter set into an MP3 file:
//
//	writer := audio.NewID3TagWriter("Table of Contents")
//	err := writer.WriteChapters("book.mp3", frames, toc)
//
// Chapters become CHAP frames (via the id3v2 library) and the table of
// contents a hand-encoded CTOC frame, saved as ID3v2.4. Existing
// chapter frames are replaced; all other tags are preserved.
//
// # Duration probing
//
// Prober reads the total playback time the chapter builder needs for
// the final chapter boundary:
//
//	total, err := audio.NewProber().Duration("book.mp3")
package audio
