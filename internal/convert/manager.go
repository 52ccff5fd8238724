package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/handiism/cuechap/internal/audio"
	"github.com/handiism/cuechap/internal/chapter"
	"github.com/handiism/cuechap/internal/config"
	"github.com/handiism/cuechap/internal/cue"
	ioutils "github.com/handiism/cuechap/internal/io"
	"github.com/handiism/cuechap/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a conversion progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// TagWriter embeds a chapter set into an audio file.
//
// The production implementation is audio.ID3TagWriter; tests
// substitute a recording fake so conversions run without touching any
// real tag library.
type TagWriter interface {
	WriteChapters(path string, frames []model.ChapterFrame, toc model.TableOfContents) error
}

// DurationProber reports the total playback duration of an audio file.
type DurationProber interface {
	Duration(path string) (time.Duration, error)
}

// Manager coordinates cue-to-chapter conversions.
//
// For every mp3+cue pair the manager runs the full pipeline: decode
// and parse the cue sheet, probe the MP3 duration, build the chapter
// set and hand it to the tag writer, all wrapped in a backup lifecycle
// that keeps the user's originals safe on any failure.
type Manager struct {
	settings *config.Settings
	parser   *cue.Parser
	tagger   TagWriter
	prober   DurationProber
	dryRun   bool

	totalFiles      int32
	convertedFiles  int32
	chaptersWritten int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new conversion Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		parser:     cue.NewParser(),
		tagger:     audio.NewID3TagWriter(settings.TOCTitle),
		prober:     audio.NewProber(),
		onProgress: onProgress,
	}
}

// SetDryRun makes the manager parse and validate without writing tags
// or touching any file.
func (m *Manager) SetDryRun(dryRun bool) {
	m.dryRun = dryRun
}

// GetProgress returns current conversion progress.
func (m *Manager) GetProgress() (converted, total, chapters int32) {
	return atomic.LoadInt32(&m.convertedFiles),
		atomic.LoadInt32(&m.totalFiles),
		atomic.LoadInt32(&m.chaptersWritten)
}

// ConvertPair converts a single mp3+cue pair.
//
// The pipeline aborts before the MP3 is touched when the cue sheet is
// unusable or the chapter boundaries don't validate. Once writing
// starts the MP3 is protected by a backup copy: on a write failure the
// original bytes are restored and both the backup and the cue sheet
// are kept for inspection. Only after a confirmed success are the
// backup and the cue sheet removed (each behind a settings switch).
func (m *Manager) ConvertPair(ctx context.Context, cuePath, mp3Path string) error {
	atomic.AddInt32(&m.totalFiles, 1)

	if err := ctx.Err(); err != nil {
		return err
	}

	frames, toc, err := m.buildChapters(cuePath, mp3Path)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error processing %s: %v", filepath.Base(cuePath), err), Level: LevelError})
		return err
	}

	if m.dryRun {
		for _, frame := range frames {
			m.progress(ProgressEvent{Message: fmt.Sprintf("  %s  [%v - %v)  %s", frame.ID, frame.Start, frame.End, frame.Title), Level: LevelInfo})
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("[Dry run] %d chapters for %s", len(frames), filepath.Base(mp3Path)), Level: LevelSuccess})
		return nil
	}

	if err := m.writeWithBackup(ctx, mp3Path, frames, toc); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(mp3Path), err), Level: LevelError})
		return err
	}

	atomic.AddInt32(&m.convertedFiles, 1)
	atomic.AddInt32(&m.chaptersWritten, int32(len(frames)))

	m.cleanup(cuePath, mp3Path)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Embedded %d chapters into %s", len(frames), filepath.Base(mp3Path)), Level: LevelSuccess})
	return nil
}

// ConvertFolder converts every mp3+cue pair found directly in dir.
//
// A pair is an MP3 with a "<name>.mp3.cue" sidecar (what rippers
// write) or a "<name>.cue" next to it. Pairs are independent, so they
// are processed in parallel up to MaxConcurrentFiles; one pair's
// failure never aborts the batch.
func (m *Manager) ConvertFolder(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type pair struct{ cuePath, mp3Path string }
	var pairs []pair

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
			continue
		}
		mp3Path := filepath.Join(dir, entry.Name())
		cuePath, ok := findCueSidecar(mp3Path)
		if !ok {
			m.progress(ProgressEvent{Message: fmt.Sprintf("No cue sheet for %s", entry.Name()), Level: LevelWarning})
			continue
		}
		pairs = append(pairs, pair{cuePath: cuePath, mp3Path: mp3Path})
	}

	if len(pairs) == 0 {
		m.progress(ProgressEvent{Message: "No suitable MP3/CUE pairs found in folder", Level: LevelWarning})
		return nil
	}

	limit := m.settings.MaxConcurrentFiles
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, p := range pairs {
		p := p
		g.Go(func() error {
			if err := m.ConvertPair(ctx, p.cuePath, p.mp3Path); err != nil && ctx.Err() != nil {
				return err
			}
			// Errors are reported per pair; keep the batch going.
			return nil
		})
	}

	return g.Wait()
}

// buildChapters runs the pure part of the pipeline: cue text to a
// validated chapter set.
func (m *Manager) buildChapters(cuePath, mp3Path string) ([]model.ChapterFrame, model.TableOfContents, error) {
	data, err := os.ReadFile(cuePath)
	if err != nil {
		return nil, model.TableOfContents{}, err
	}

	text, err := cue.DecodeSheet(data, m.settings.CueEncoding)
	if err != nil {
		return nil, model.TableOfContents{}, err
	}

	tracks, warnings, err := m.parser.Parse(text)
	for _, warning := range warnings {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s", filepath.Base(cuePath), warning), Level: LevelWarning})
	}
	if err != nil {
		return nil, model.TableOfContents{}, err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d tracks in %s", len(tracks), filepath.Base(cuePath)), Level: LevelVerbose})

	total, err := m.prober.Duration(mp3Path)
	if err != nil {
		return nil, model.TableOfContents{}, err
	}

	return chapter.Build(tracks, total)
}

// writeWithBackup guards the tag write with a copy of the original
// file. An existing backup (left by an earlier failed run) is reused
// as the pristine copy rather than overwritten.
func (m *Manager) writeWithBackup(ctx context.Context, mp3Path string, frames []model.ChapterFrame, toc model.TableOfContents) error {
	backupPath := mp3Path + m.settings.BackupSuffix
	if !ioutils.FileExists(backupPath) {
		if err := ioutils.CopyFile(ctx, mp3Path, backupPath); err != nil {
			return fmt.Errorf("creating backup: %w", err)
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Backup created: %s", filepath.Base(backupPath)), Level: LevelVerbose})
	}

	if err := m.tagger.WriteChapters(mp3Path, frames, toc); err != nil {
		if restoreErr := ioutils.CopyFile(ctx, backupPath, mp3Path); restoreErr != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error restoring backup: %v", restoreErr), Level: LevelError})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Restored %s from backup", filepath.Base(mp3Path)), Level: LevelWarning})
		}
		return err
	}

	return nil
}

// cleanup removes the backup and the cue sheet after a confirmed
// success, as configured. Failures here are warnings: the chapters are
// already in place.
func (m *Manager) cleanup(cuePath, mp3Path string) {
	if m.settings.DeleteBackupOnSuccess {
		backupPath := mp3Path + m.settings.BackupSuffix
		if err := os.Remove(backupPath); err != nil && !os.IsNotExist(err) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error deleting backup: %v", err), Level: LevelWarning})
		}
	}
	if m.settings.DeleteCueOnSuccess {
		if err := os.Remove(cuePath); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error deleting cue sheet: %v", err), Level: LevelWarning})
		}
	}
}

// findCueSidecar locates the cue sheet belonging to an MP3 file.
func findCueSidecar(mp3Path string) (string, bool) {
	appended := mp3Path + ".cue"
	if ioutils.FileExists(appended) {
		return appended, true
	}
	replaced := strings.TrimSuffix(mp3Path, filepath.Ext(mp3Path)) + ".cue"
	if ioutils.FileExists(replaced) {
		return replaced, true
	}
	return "", false
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
