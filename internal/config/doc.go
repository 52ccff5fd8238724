// Package config manages application settings for cuechap.
//
// Settings are stored as JSON and cover the cue sheet text encoding,
// the table-of-contents title, the backup-file lifecycle and the
// folder-mode parallelism:
//
//	settings, err := config.Load("~/.config/cuechap/settings.json")
//	if err != nil {
//	    settings = config.DefaultSettings()
//	}
//
// A missing settings file silently falls back to defaults; the tool
// needs no configuration to do its job.
package config
