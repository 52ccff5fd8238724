package audio

import (
	"fmt"
	"io"

	"github.com/bogem/id3v2/v2"
	"github.com/handiism/cuechap/internal/model"
)

// CTOC flag bits per the ID3v2 Chapter Frame Addendum.
const (
	ctocFlagOrdered  = 0x01
	ctocFlagTopLevel = 0x02
)

// tableOfContentsFrame encodes an ID3v2 CTOC frame:
//
//	<element ID> $00
//	flags        %000000ab (a = top-level, b = ordered)
//	entry count  $xx
//	<child element ID> $00   (entry count times)
//	optional embedded subframes (here: a TIT2 with the TOC title)
//
// It implements id3v2.Framer so the id3v2 library handles the frame
// header, tag size bookkeeping and file rewriting.
type tableOfContentsFrame struct {
	toc   model.TableOfContents
	title string
}

// newTableOfContentsFrame validates and wraps a TableOfContents for
// writing. The entry count field is a single byte, so a TOC may
// reference at most 255 chapters.
func newTableOfContentsFrame(toc model.TableOfContents, title string) (tableOfContentsFrame, error) {
	if len(toc.ChildIDs) > 255 {
		return tableOfContentsFrame{}, fmt.Errorf(
			"table of contents holds %d chapters, CTOC allows at most 255", len(toc.ChildIDs))
	}
	return tableOfContentsFrame{toc: toc, title: title}, nil
}

func (f tableOfContentsFrame) UniqueIdentifier() string {
	return f.toc.ElementID
}

func (f tableOfContentsFrame) Size() int {
	size := len(f.toc.ElementID) + 1 // element ID, NUL-terminated
	size += 1                       // flags
	size += 1                       // entry count
	for _, id := range f.toc.ChildIDs {
		size += len(id) + 1
	}
	if f.title != "" {
		// Embedded TIT2 subframe: 10-byte header + encoding + text.
		size += 10 + 1 + len(f.title)
	}
	return size
}

func (f tableOfContentsFrame) WriteTo(w io.Writer) (int64, error) {
	var written int64

	write := func(b []byte) error {
		n, err := w.Write(b)
		written += int64(n)
		return err
	}

	if err := write(append([]byte(f.toc.ElementID), 0)); err != nil {
		return written, err
	}

	var flags byte
	if f.toc.TopLevel {
		flags |= ctocFlagTopLevel
	}
	if f.toc.Ordered {
		flags |= ctocFlagOrdered
	}
	if err := write([]byte{flags, byte(len(f.toc.ChildIDs))}); err != nil {
		return written, err
	}

	for _, id := range f.toc.ChildIDs {
		if err := write(append([]byte(id), 0)); err != nil {
			return written, err
		}
	}

	if f.title != "" {
		body := append([]byte{id3v2.EncodingUTF8.Key}, f.title...)
		header := append([]byte("TIT2"), synchsafeSize(len(body))...)
		header = append(header, 0, 0) // frame flags
		if err := write(header); err != nil {
			return written, err
		}
		if err := write(body); err != nil {
			return written, err
		}
	}

	return written, nil
}

// synchsafeSize encodes a frame size as an ID3v2.4 synchsafe integer
// (7 bits per byte, high bit always clear).
func synchsafeSize(n int) []byte {
	return []byte{
		byte(n>>21) & 0x7F,
		byte(n>>14) & 0x7F,
		byte(n>>7) & 0x7F,
		byte(n) & 0x7F,
	}
}
