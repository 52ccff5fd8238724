package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/cuechap/internal/chapter"
	"github.com/handiism/cuechap/internal/config"
	"github.com/handiism/cuechap/internal/cue"
	"github.com/handiism/cuechap/internal/model"
)

const testSheet = `TRACK 01 AUDIO
 TITLE "Intro"
 INDEX 01 00:00:00
TRACK 02 AUDIO
 TITLE "Chapter One"
 INDEX 01 01:30:00`

var mp3Bytes = []byte("\xff\xfboriginal-audio")

// fakeTagWriter records the handoff and can simulate write failures,
// including one that corrupts the target file first.
type fakeTagWriter struct {
	path    string
	frames  []model.ChapterFrame
	toc     model.TableOfContents
	calls   int
	err     error
	corrupt bool
}

func (f *fakeTagWriter) WriteChapters(path string, frames []model.ChapterFrame, toc model.TableOfContents) error {
	f.calls++
	f.path = path
	f.frames = frames
	f.toc = toc
	if f.corrupt {
		os.WriteFile(path, []byte("half-written garbage"), 0644)
	}
	return f.err
}

// fakeProber returns a fixed duration.
type fakeProber struct {
	duration time.Duration
	err      error
}

func (f *fakeProber) Duration(path string) (time.Duration, error) {
	return f.duration, f.err
}

type testPair struct {
	cuePath string
	mp3Path string
}

func newTestManager(t *testing.T, tagger *fakeTagWriter, prober *fakeProber) (*Manager, testPair) {
	t.Helper()

	dir := t.TempDir()
	pair := testPair{
		cuePath: filepath.Join(dir, "book.mp3.cue"),
		mp3Path: filepath.Join(dir, "book.mp3"),
	}
	if err := os.WriteFile(pair.cuePath, []byte(testSheet), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pair.mp3Path, mp3Bytes, 0644); err != nil {
		t.Fatal(err)
	}

	settings := config.DefaultSettings()
	settings.CueEncoding = cue.EncodingUTF8

	manager := NewManager(settings, nil)
	manager.tagger = tagger
	manager.prober = prober
	return manager, pair
}

func TestConvertPair_Success(t *testing.T) {
	tagger := &fakeTagWriter{}
	manager, pair := newTestManager(t, tagger, &fakeProber{duration: 300 * time.Second})

	if err := manager.ConvertPair(context.Background(), pair.cuePath, pair.mp3Path); err != nil {
		t.Fatalf("ConvertPair error: %v", err)
	}

	if tagger.calls != 1 || tagger.path != pair.mp3Path {
		t.Errorf("tag writer called %d times for %q", tagger.calls, tagger.path)
	}
	want := []model.ChapterFrame{
		{ID: "chp1", Start: 0, End: 90 * time.Second, Title: "Intro"},
		{ID: "chp2", Start: 90 * time.Second, End: 300 * time.Second, Title: "Chapter One"},
	}
	if len(tagger.frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(tagger.frames), len(want))
	}
	for i := range want {
		if tagger.frames[i] != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, tagger.frames[i], want[i])
		}
	}
	if len(tagger.toc.ChildIDs) != 2 {
		t.Errorf("toc children = %v", tagger.toc.ChildIDs)
	}

	// Confirmed success removes the cue sheet and the backup.
	if _, err := os.Stat(pair.cuePath); !os.IsNotExist(err) {
		t.Error("cue sheet should be deleted after success")
	}
	if _, err := os.Stat(pair.mp3Path + ".bak"); !os.IsNotExist(err) {
		t.Error("backup should be deleted after success")
	}

	converted, total, chapters := manager.GetProgress()
	if converted != 1 || total != 1 || chapters != 2 {
		t.Errorf("progress = %d/%d files, %d chapters", converted, total, chapters)
	}
}

func TestConvertPair_KeepFilesWhenConfigured(t *testing.T) {
	tagger := &fakeTagWriter{}
	manager, pair := newTestManager(t, tagger, &fakeProber{duration: 300 * time.Second})
	manager.settings.DeleteCueOnSuccess = false
	manager.settings.DeleteBackupOnSuccess = false

	if err := manager.ConvertPair(context.Background(), pair.cuePath, pair.mp3Path); err != nil {
		t.Fatalf("ConvertPair error: %v", err)
	}

	if _, err := os.Stat(pair.cuePath); err != nil {
		t.Error("cue sheet should be kept when configured")
	}
	if _, err := os.Stat(pair.mp3Path + ".bak"); err != nil {
		t.Error("backup should be kept when configured")
	}
}

func TestConvertPair_WriteFailureRestoresBackup(t *testing.T) {
	tagger := &fakeTagWriter{err: errors.New("disk full"), corrupt: true}
	manager, pair := newTestManager(t, tagger, &fakeProber{duration: 300 * time.Second})

	err := manager.ConvertPair(context.Background(), pair.cuePath, pair.mp3Path)
	if err == nil {
		t.Fatal("ConvertPair should propagate the write failure")
	}

	// The MP3 is restored, the backup and cue sheet are preserved.
	data, readErr := os.ReadFile(pair.mp3Path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if string(data) != string(mp3Bytes) {
		t.Errorf("mp3 content = %q, want original bytes restored", data)
	}
	if _, err := os.Stat(pair.mp3Path + ".bak"); err != nil {
		t.Error("backup should survive a failed conversion")
	}
	if _, err := os.Stat(pair.cuePath); err != nil {
		t.Error("cue sheet should survive a failed conversion")
	}

	converted, total, _ := manager.GetProgress()
	if converted != 0 || total != 1 {
		t.Errorf("progress = %d/%d, want 0/1", converted, total)
	}
}

func TestConvertPair_ParseErrorLeavesMP3Untouched(t *testing.T) {
	tagger := &fakeTagWriter{}
	manager, pair := newTestManager(t, tagger, &fakeProber{duration: 300 * time.Second})
	if err := os.WriteFile(pair.cuePath, []byte("REM nothing here"), 0644); err != nil {
		t.Fatal(err)
	}

	err := manager.ConvertPair(context.Background(), pair.cuePath, pair.mp3Path)
	var parseErr *cue.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *cue.ParseError", err)
	}

	if tagger.calls != 0 {
		t.Error("tag writer must not run for an unusable sheet")
	}
	if _, err := os.Stat(pair.mp3Path + ".bak"); !os.IsNotExist(err) {
		t.Error("no backup should be created before writing starts")
	}
	if _, err := os.Stat(pair.cuePath); err != nil {
		t.Error("cue sheet should be kept on failure")
	}
}

func TestConvertPair_ValidationErrorAborts(t *testing.T) {
	tagger := &fakeTagWriter{}
	// Total duration equals the last chapter start: degenerate final chapter.
	manager, pair := newTestManager(t, tagger, &fakeProber{duration: 90 * time.Second})

	err := manager.ConvertPair(context.Background(), pair.cuePath, pair.mp3Path)
	var validationErr *chapter.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want *chapter.ValidationError", err)
	}
	if tagger.calls != 0 {
		t.Error("tag writer must not run for an invalid chapter set")
	}
}

func TestConvertPair_DryRun(t *testing.T) {
	tagger := &fakeTagWriter{}
	manager, pair := newTestManager(t, tagger, &fakeProber{duration: 300 * time.Second})
	manager.SetDryRun(true)

	if err := manager.ConvertPair(context.Background(), pair.cuePath, pair.mp3Path); err != nil {
		t.Fatalf("ConvertPair error: %v", err)
	}

	if tagger.calls != 0 {
		t.Error("dry run must not write tags")
	}
	if _, err := os.Stat(pair.cuePath); err != nil {
		t.Error("dry run must not delete the cue sheet")
	}
	if _, err := os.Stat(pair.mp3Path + ".bak"); !os.IsNotExist(err) {
		t.Error("dry run must not create a backup")
	}
}

func TestConvertPair_ReusesExistingBackup(t *testing.T) {
	tagger := &fakeTagWriter{}
	manager, pair := newTestManager(t, tagger, &fakeProber{duration: 300 * time.Second})
	manager.settings.DeleteBackupOnSuccess = false

	// A backup left over from an earlier failed run holds the pristine
	// copy; a new run must not overwrite it.
	backupPath := pair.mp3Path + ".bak"
	if err := os.WriteFile(backupPath, []byte("pristine"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := manager.ConvertPair(context.Background(), pair.cuePath, pair.mp3Path); err != nil {
		t.Fatalf("ConvertPair error: %v", err)
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pristine" {
		t.Error("existing backup should not be overwritten")
	}
}

func TestConvertFolder(t *testing.T) {
	dir := t.TempDir()

	writePair := func(base string) {
		if err := os.WriteFile(filepath.Join(dir, base+".mp3"), mp3Bytes, 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, base+".mp3.cue"), []byte(testSheet), 0644); err != nil {
			t.Fatal(err)
		}
	}
	writePair("one")
	writePair("two")
	// An unpaired MP3 is skipped with a warning.
	if err := os.WriteFile(filepath.Join(dir, "loose.mp3"), mp3Bytes, 0644); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	settings := config.DefaultSettings()
	settings.CueEncoding = cue.EncodingUTF8

	manager := NewManager(settings, func(e ProgressEvent) {
		if e.Level == LevelWarning {
			warnings = append(warnings, e.Message)
		}
	})
	tagger := &fakeTagWriter{}
	manager.tagger = tagger
	manager.prober = &fakeProber{duration: 300 * time.Second}

	if err := manager.ConvertFolder(context.Background(), dir); err != nil {
		t.Fatalf("ConvertFolder error: %v", err)
	}

	converted, total, chapters := manager.GetProgress()
	if converted != 2 || total != 2 || chapters != 4 {
		t.Errorf("progress = %d/%d files, %d chapters; want 2/2, 4", converted, total, chapters)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one unpaired-file warning", warnings)
	}
}

func TestConvertFolder_OneFailureDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()

	// Pair "bad" has an unusable cue sheet; pair "good" is fine.
	if err := os.WriteFile(filepath.Join(dir, "bad.mp3"), mp3Bytes, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.mp3.cue"), []byte("REM empty"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "good.mp3"), mp3Bytes, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "good.mp3.cue"), []byte(testSheet), 0644); err != nil {
		t.Fatal(err)
	}

	settings := config.DefaultSettings()
	settings.CueEncoding = cue.EncodingUTF8

	manager := NewManager(settings, nil)
	manager.tagger = &fakeTagWriter{}
	manager.prober = &fakeProber{duration: 300 * time.Second}

	if err := manager.ConvertFolder(context.Background(), dir); err != nil {
		t.Fatalf("ConvertFolder error: %v", err)
	}

	converted, total, _ := manager.GetProgress()
	if converted != 1 || total != 2 {
		t.Errorf("progress = %d/%d, want 1/2", converted, total)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.mp3.cue")); err != nil {
		t.Error("failed pair's cue sheet should be kept")
	}
}

func TestConvertFolder_AlternateSidecarName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "set.mp3"), mp3Bytes, 0644); err != nil {
		t.Fatal(err)
	}
	// "set.cue" instead of "set.mp3.cue".
	if err := os.WriteFile(filepath.Join(dir, "set.cue"), []byte(testSheet), 0644); err != nil {
		t.Fatal(err)
	}

	settings := config.DefaultSettings()
	settings.CueEncoding = cue.EncodingUTF8

	manager := NewManager(settings, nil)
	manager.tagger = &fakeTagWriter{}
	manager.prober = &fakeProber{duration: 300 * time.Second}

	if err := manager.ConvertFolder(context.Background(), dir); err != nil {
		t.Fatalf("ConvertFolder error: %v", err)
	}

	converted, _, _ := manager.GetProgress()
	if converted != 1 {
		t.Errorf("converted = %d, want 1", converted)
	}
}
