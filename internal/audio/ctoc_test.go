package audio

import (
	"bytes"
	"testing"

	"github.com/handiism/cuechap/internal/model"
)

func testTOC() model.TableOfContents {
	return model.TableOfContents{
		ElementID: "toc",
		ChildIDs:  []string{"chp1", "chp2"},
		TopLevel:  true,
		Ordered:   true,
	}
}

func TestTableOfContentsFrame_Layout(t *testing.T) {
	frame, err := newTableOfContentsFrame(testTOC(), "")
	if err != nil {
		t.Fatalf("newTableOfContentsFrame error: %v", err)
	}

	var buf bytes.Buffer
	n, err := frame.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}

	want := []byte{
		't', 'o', 'c', 0x00,
		0x03, // top-level | ordered
		0x02, // entry count
		'c', 'h', 'p', '1', 0x00,
		'c', 'h', 'p', '2', 0x00,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("frame bytes = % x, want % x", buf.Bytes(), want)
	}
	if n != int64(len(want)) {
		t.Errorf("WriteTo returned %d, wrote %d bytes", n, len(want))
	}
}

func TestTableOfContentsFrame_TitleSubframe(t *testing.T) {
	frame, err := newTableOfContentsFrame(testTOC(), "Contents")
	if err != nil {
		t.Fatalf("newTableOfContentsFrame error: %v", err)
	}

	var buf bytes.Buffer
	if _, err := frame.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}

	data := buf.Bytes()
	idx := bytes.Index(data, []byte("TIT2"))
	if idx == -1 {
		t.Fatal("embedded TIT2 subframe not found")
	}

	// Synchsafe size covers the encoding byte plus the title text.
	sub := data[idx:]
	size := int(sub[4])<<21 | int(sub[5])<<14 | int(sub[6])<<7 | int(sub[7])
	if want := 1 + len("Contents"); size != want {
		t.Errorf("subframe size = %d, want %d", size, want)
	}
	if sub[8] != 0 || sub[9] != 0 {
		t.Error("subframe flags should be zero")
	}
	if sub[10] != 0x03 {
		t.Errorf("text encoding = %#x, want UTF-8 (0x03)", sub[10])
	}
	if !bytes.Equal(sub[11:11+len("Contents")], []byte("Contents")) {
		t.Error("subframe does not carry the TOC title")
	}
}

func TestTableOfContentsFrame_SizeMatchesWrite(t *testing.T) {
	for _, title := range []string{"", "Table of Contents"} {
		frame, err := newTableOfContentsFrame(testTOC(), title)
		if err != nil {
			t.Fatalf("newTableOfContentsFrame error: %v", err)
		}

		var buf bytes.Buffer
		if _, err := frame.WriteTo(&buf); err != nil {
			t.Fatalf("WriteTo error: %v", err)
		}
		if buf.Len() != frame.Size() {
			t.Errorf("title %q: Size() = %d, wrote %d bytes", title, frame.Size(), buf.Len())
		}
	}
}

func TestTableOfContentsFrame_TooManyChapters(t *testing.T) {
	toc := testTOC()
	toc.ChildIDs = make([]string, 256)
	for i := range toc.ChildIDs {
		toc.ChildIDs[i] = "chp"
	}

	if _, err := newTableOfContentsFrame(toc, ""); err == nil {
		t.Error("256 chapters should not fit a CTOC frame")
	}
}

func TestTableOfContentsFrame_UniqueIdentifier(t *testing.T) {
	frame, err := newTableOfContentsFrame(testTOC(), "")
	if err != nil {
		t.Fatalf("newTableOfContentsFrame error: %v", err)
	}
	if frame.UniqueIdentifier() != "toc" {
		t.Errorf("UniqueIdentifier = %q, want %q", frame.UniqueIdentifier(), "toc")
	}
}
