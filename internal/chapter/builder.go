package chapter

import (
	"fmt"
	"sort"
	"time"

	"github.com/handiism/cuechap/internal/model"
)

// ValidationError indicates a chapter set that violates the boundary
// invariants: a zero-length or negative-length chapter, or a total
// audio duration that does not extend past the last chapter start.
//
// A ValidationError is fatal for that file's conversion. Writing a
// partial chapter set would confuse players, so the caller aborts the
// file and leaves it untouched.
type ValidationError struct {
	// Index is the 1-based ordinal of the offending chapter.
	Index int

	// Reason describes the violated invariant.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid chapter %d: %s", e.Index, e.Reason)
}

// Build converts ordered track entries into ID3 chapter frames plus
// the single top-level table of contents.
//
// The total audio duration comes from the caller (probed from the MP3
// file); it closes the final chapter. Entries are stable-sorted by
// start time first, so a cue sheet whose declaration order diverges
// from its timestamp order still yields a monotonic chapter set.
//
// Each chapter ends where the next one starts; the last ends at total.
// Frame IDs are assigned deterministically as "chp1", "chp2", ... in
// playback order, which keeps them unique and gives the TOC a stable
// child list.
//
// Build fails with a *ValidationError when any chapter would be empty
// (end <= start), including the degenerate case where total does not
// exceed the last chapter's start. It is a pure transformation with no
// side effects.
//
// Example:
//
//	frames, toc, err := chapter.Build(entries, 300*time.Second)
//	if err != nil {
//	    return err // abort this file, keep originals
//	}
//	err = tagWriter.WriteChapters(mp3Path, frames, toc)
func Build(entries []model.TrackEntry, total time.Duration) ([]model.ChapterFrame, model.TableOfContents, error) {
	sorted := make([]model.TrackEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	frames := make([]model.ChapterFrame, len(sorted))
	for i, entry := range sorted {
		end := total
		if i < len(sorted)-1 {
			end = sorted[i+1].Start
		}
		if end <= entry.Start {
			return nil, model.TableOfContents{}, &ValidationError{
				Index:  i + 1,
				Reason: fmt.Sprintf("end %v does not exceed start %v", end, entry.Start),
			}
		}
		frames[i] = model.ChapterFrame{
			ID:    fmt.Sprintf("chp%d", i+1),
			Start: entry.Start,
			End:   end,
			Title: entry.Title,
		}
	}

	return frames, model.NewTableOfContents(frames), nil
}
