package audio

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
	"github.com/handiism/cuechap/internal/model"
)

// ID3TagWriter embeds chapter frames into MP3 files as ID3v2.4 tags.
//
// The writer uses the id3v2 library for the tag container and the CHAP
// frames, and encodes the CTOC table-of-contents frame by hand (the
// library has no CTOC type). Existing CHAP and CTOC frames are removed
// first so re-running a conversion replaces the chapter set instead of
// accumulating duplicates.
//
// Example:
//
//	writer := audio.NewID3TagWriter("Table of Contents")
//	err := writer.WriteChapters("book.mp3", frames, toc)
type ID3TagWriter struct {
	// tocTitle is written as the TIT2 subframe of the CTOC frame.
	tocTitle string
}

// NewID3TagWriter creates an ID3TagWriter. tocTitle names the table of
// contents itself (some players display it); empty omits the subframe.
func NewID3TagWriter(tocTitle string) *ID3TagWriter {
	return &ID3TagWriter{tocTitle: tocTitle}
}

// WriteChapters embeds the chapter frames and table of contents into
// the MP3 file at path, replacing any chapter data already present.
//
// The caller is responsible for the semantic contract (unique frame
// IDs, start < end, TOC listing the frames in playback order); the
// chapter builder guarantees it. Tags are saved as ID3v2.4. All other
// frames in the file (title, artist, artwork, ...) are preserved.
func (w *ID3TagWriter) WriteChapters(path string, frames []model.ChapterFrame, toc model.TableOfContents) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening ID3 tag of %s: %w", path, err)
	}
	defer tag.Close()

	// CHAP subframes and the UTF-8 text encoding require v2.4, and it
	// is what the rest of the chapter ecosystem expects.
	tag.SetVersion(4)

	tag.DeleteFrames("CHAP")
	tag.DeleteFrames("CTOC")

	tocFrame, err := newTableOfContentsFrame(toc, w.tocTitle)
	if err != nil {
		return err
	}
	tag.AddFrame("CTOC", tocFrame)

	for _, frame := range frames {
		tag.AddChapterFrame(id3v2.ChapterFrame{
			ElementID: frame.ID,
			StartTime: frame.Start,
			EndTime:   frame.End,
			// Byte offsets are unknown; the ID3 chapter addendum says
			// to set them to the ignored value when times are
			// authoritative.
			StartOffset: id3v2.IgnoredOffset,
			EndOffset:   id3v2.IgnoredOffset,
			Title: &id3v2.TextFrame{
				Encoding: id3v2.EncodingUTF8,
				Text:     frame.Title,
			},
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving ID3 tag of %s: %w", path, err)
	}
	return nil
}
