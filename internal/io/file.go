// Package ioutils provides the file system plumbing for the backup
// lifecycle: copy-before-write, restore-on-failure.
package ioutils

import (
	"context"
	"io"
	"os"
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused but reserved for future use)
//   - src: Source file path (must exist)
//   - dst: Destination file path (will be created/overwritten)
//
// Example:
//
//	err := CopyFile(ctx, "book.mp3", "book.mp3.bak")
func CopyFile(ctx context.Context, src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
