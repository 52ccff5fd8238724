// Package convert orchestrates cue-to-chapter conversions.
//
// Manager runs the pipeline for one mp3+cue pair or a whole folder of
// pairs:
//
//	manager := convert.NewManager(settings, func(e convert.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//	err := manager.ConvertPair(ctx, "book.mp3.cue", "book.mp3")
//
// The write is transactional from the user's point of view: the MP3 is
// copied to a backup before tagging, restored from it on failure, and
// the backup and cue sheet are deleted only after confirmed success.
// Parse and validation errors abort a pair before its MP3 is touched,
// and in folder mode never abort the batch.
package convert
