package cue

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/cuechap/internal/model"
)

// Parser extracts track entries from cue sheet text.
//
// A cue sheet describes track boundaries inside a single audio file.
// The parser walks the sheet line by line with a small state machine
// (outside a track block / inside one) and collects one TrackEntry per
// TRACK ... AUDIO block that carries an INDEX 01 anchor:
//
//	TRACK 01 AUDIO
//	  TITLE "Intro"
//	  INDEX 01 00:00:00
//
// Keywords are matched case-insensitively and values are trimmed.
// Album-level metadata (FILE, PERFORMER, REM, a TITLE outside any
// track block) and INDEX 00 pre-gap markers are ignored.
//
// Degraded input is handled per line, not per sheet: a track without
// INDEX 01 or with a malformed timestamp is dropped with a warning, a
// track with a malformed or missing TITLE keeps a synthesized
// "Track <n>" title. Only a sheet with zero usable tracks, or with
// track numbers that are not strictly increasing, fails as a whole.
//
// Example:
//
//	parser := cue.NewParser()
//	entries, warnings, err := parser.Parse(sheetText)
//	if err != nil {
//	    return err
//	}
//	for _, w := range warnings {
//	    log.Println(w)
//	}
type Parser struct{}

// NewParser creates a new cue sheet Parser.
func NewParser() *Parser {
	return &Parser{}
}

// parserState is the line classifier state.
type parserState int

const (
	// stateOutside: before the first TRACK line or after a non-audio
	// track header. TITLE lines here belong to the album, not a track.
	stateOutside parserState = iota

	// stateInside: collecting TITLE / INDEX lines for the open track.
	stateInside
)

// pendingTrack accumulates fields for the currently open TRACK block.
type pendingTrack struct {
	index    int
	title    string
	hasTitle bool
	start    time.Duration
	hasStart bool
}

// Parse scans a full cue sheet and returns its track entries in file
// order, together with warnings for every line or track the parser had
// to drop or repair.
//
// Parse returns a *ParseError when the sheet contains zero usable
// tracks, or when the track numbers of the usable tracks are not
// strictly increasing. It is deterministic and idempotent: the same
// text always yields the same entries.
func (p *Parser) Parse(text string) ([]model.TrackEntry, []string, error) {
	var (
		entries  []model.TrackEntry
		warnings []string
		state    = stateOutside
		current  pendingTrack
	)

	flush := func() {
		if state != stateInside {
			return
		}
		if !current.hasStart {
			warnings = append(warnings,
				fmt.Sprintf("track %d dropped: no INDEX 01", current.index))
			return
		}
		title := current.title
		if !current.hasTitle {
			title = fmt.Sprintf("Track %d", current.index)
		}
		entries = append(entries, model.TrackEntry{
			Index: current.index,
			Title: title,
			Start: current.start,
		})
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		keyword := strings.ToUpper(fields[0])

		switch keyword {
		case "TRACK":
			flush()
			state = stateOutside
			current = pendingTrack{}

			index, ok := parseTrackHeader(fields)
			if !ok {
				warnings = append(warnings,
					fmt.Sprintf("ignoring non-audio or malformed track line: %s", line))
				continue
			}
			current.index = index
			state = stateInside

		case "TITLE":
			if state != stateInside || current.hasTitle {
				continue
			}
			title, ok := unquoteTitle(line)
			if !ok {
				warnings = append(warnings,
					fmt.Sprintf("track %d: malformed TITLE, using synthesized title", current.index))
				continue
			}
			current.title = title
			current.hasTitle = true

		case "INDEX":
			if state != stateInside || len(fields) < 3 || fields[1] != "01" || current.hasStart {
				continue
			}
			start, err := ParseTimecode(fields[len(fields)-1])
			if err != nil {
				// The track cannot anchor a chapter without a valid
				// INDEX 01, so it is dropped as a whole.
				warnings = append(warnings,
					fmt.Sprintf("track %d dropped: %v", current.index, err))
				state = stateOutside
				continue
			}
			current.start = start
			current.hasStart = true
		}
	}
	flush()

	if len(entries) == 0 {
		return nil, warnings, &ParseError{Reason: "no tracks with INDEX 01"}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Index <= entries[i-1].Index {
			return nil, warnings, &ParseError{
				Reason: fmt.Sprintf("track numbers not strictly increasing (%d after %d)",
					entries[i].Index, entries[i-1].Index),
			}
		}
	}

	return entries, warnings, nil
}

// parseTrackHeader extracts the track number from a
// "TRACK <n> AUDIO" line. Data tracks and malformed headers report
// false so the whole block gets skipped.
func parseTrackHeader(fields []string) (int, bool) {
	if len(fields) < 3 || !strings.EqualFold(fields[2], "AUDIO") {
		return 0, false
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil || index <= 0 {
		return 0, false
	}
	return index, true
}

// unquoteTitle extracts the quoted value from a TITLE line.
// Cue sheets quote titles with plain double quotes; the value is
// whatever sits between the first and the last quote.
func unquoteTitle(line string) (string, bool) {
	first := strings.Index(line, `"`)
	last := strings.LastIndex(line, `"`)
	if first == -1 || last <= first {
		return "", false
	}
	return line[first+1 : last], true
}
