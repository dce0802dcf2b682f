//go:build !((linux && cgo) || windows || darwin)

package audio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSilentPlayerLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	p := New(zerolog.New(&buf).Level(zerolog.DebugLevel))

	if err := p.Load(pcmWAV(8000, 8000)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d := p.Duration(); d != time.Second {
		t.Errorf("Duration() = %v, want 1s", d)
	}
	if !strings.Contains(buf.String(), "audio loaded") {
		t.Errorf("log output = %q, want the load message", buf.String())
	}
}
