package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

// pcmWAV builds a 16-bit mono PCM WAV holding the given number of samples.
func pcmWAV(sampleRate, samples int) []byte {
	var buf bytes.Buffer
	dataLen := samples * 2
	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	w(uint32(36 + dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	w(uint32(16))
	w(uint16(1)) // PCM
	w(uint16(1)) // mono
	w(uint32(sampleRate))
	w(uint32(sampleRate * 2))
	w(uint16(2))
	w(uint16(16))
	buf.WriteString("data")
	w(uint32(dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"wav", pcmWAV(8000, 1), FormatWAV},
		{"id3", []byte("ID3\x04\x00"), FormatMP3},
		{"frame sync", []byte{0xFF, 0xFB, 0x90}, FormatMP3},
		{"html", []byte("<!doctype html>"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProbeWAV(t *testing.T) {
	d, err := Probe(pcmWAV(8000, 16000))
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if d != 2*time.Second {
		t.Errorf("Probe() = %v, want 2s", d)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	for _, data := range [][]byte{[]byte("<html>not audio</html>"), []byte("RIFF\x00\x00\x00\x00WAVEjunk")} {
		if _, _, err := Decode(data); !errors.Is(err, jerrors.ErrUnsupportedFormat) {
			t.Errorf("Decode(%q) error = %v, want ErrUnsupportedFormat", data, err)
		}
	}
}

func TestLevelToExponent(t *testing.T) {
	if got := levelToExponent(0); got != minVolumeDB {
		t.Errorf("levelToExponent(0) = %v", got)
	}
	if got := levelToExponent(1); got != 0 {
		t.Errorf("levelToExponent(1) = %v", got)
	}
	if a, b := levelToExponent(0.3), levelToExponent(0.7); a >= b {
		t.Errorf("curve should increase: %v >= %v", a, b)
	}
}
