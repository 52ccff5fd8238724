package cue

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Supported cue sheet encodings.
const (
	EncodingWindows1252 = "windows-1252"
	EncodingUTF8        = "utf-8"
)

// DecodeSheet converts raw cue sheet bytes into a UTF-8 string.
//
// CD rippers on Windows (foobar2000, EAC) write cue sheets in the
// Windows-1252 code page, so that is the default; "utf-8" passes the
// bytes through with a leading BOM stripped. Unknown encoding names
// are an error rather than a guess.
func DecodeSheet(data []byte, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case EncodingWindows1252, "":
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding windows-1252 cue sheet: %w", err)
		}
		return string(decoded), nil
	case EncodingUTF8:
		text := string(data)
		return strings.TrimPrefix(text, "\uFEFF"), nil
	default:
		return "", fmt.Errorf("unsupported cue sheet encoding %q", encoding)
	}
}
