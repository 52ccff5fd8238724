package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep/v2/mp3"
)

// Prober reads the total playback duration of an MP3 file.
//
// The chapter builder needs the total duration to close the final
// chapter; the prober obtains it by decoding the MP3 stream headers
// with beep's pure-Go decoder.
type Prober struct{}

// NewProber creates a duration Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Duration returns the total playback duration of the MP3 at path.
func (p *Prober) Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer streamer.Close()

	samples := streamer.Len()
	if samples <= 0 {
		return 0, fmt.Errorf("could not determine duration of %s", path)
	}
	return format.SampleRate.D(samples), nil
}
