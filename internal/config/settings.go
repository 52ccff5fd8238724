package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/handiism/cuechap/internal/cue"
)

// Settings holds all configuration options.
type Settings struct {
	// Cue sheet settings
	CueEncoding string `json:"cue_encoding"` // windows-1252, utf-8

	// Tagging settings
	TOCTitle string `json:"toc_title"`

	// Backup / cleanup lifecycle
	BackupSuffix          string `json:"backup_suffix"`
	DeleteBackupOnSuccess bool   `json:"delete_backup_on_success"`
	DeleteCueOnSuccess    bool   `json:"delete_cue_on_success"`

	// Folder mode
	MaxConcurrentFiles int `json:"max_concurrent_files"`
}

// DefaultSettings returns settings with default values.
//
// The defaults mirror what CD rippers produce and the conservative
// cleanup behavior: Windows-1252 cue sheets, a .bak backup next to the
// MP3, and removal of the backup and the cue sheet only after a fully
// successful conversion.
func DefaultSettings() *Settings {
	return &Settings{
		CueEncoding:           cue.EncodingWindows1252,
		TOCTitle:              "Table of Contents",
		BackupSuffix:          ".bak",
		DeleteBackupOnSuccess: true,
		DeleteCueOnSuccess:    true,
		MaxConcurrentFiles:    4,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned so the tool
// works without any configuration.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
