package audio

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

// Format is a container format the player can decode.
type Format string

const (
	FormatUnknown Format = ""
	FormatMP3     Format = "mp3"
	FormatWAV     Format = "wav"
)

// Detect sniffs the container format from the first bytes of data.
func Detect(data []byte) Format {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return FormatWAV
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3 // bare MPEG frame sync
	}
	return FormatUnknown
}

// Decode decodes an in-memory audio payload. Undecodable payloads fail
// with ErrUnsupportedFormat.
func Decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	switch Detect(data) {
	case FormatWAV:
		streamer, format, err = wav.Decode(bytes.NewReader(data))
	case FormatMP3:
		streamer, format, err = mp3.Decode(nopCloser{bytes.NewReader(data)})
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: unrecognised payload (%d bytes)", jerrors.ErrUnsupportedFormat, len(data))
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", jerrors.ErrUnsupportedFormat, err)
	}
	return streamer, format, nil
}

// Probe returns the playing time of an audio payload.
func Probe(data []byte) (time.Duration, error) {
	streamer, format, err := Decode(data)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

// nopCloser wraps a bytes.Reader to implement io.ReadCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
