package browser

import (
	"runtime"
	"slices"
	"testing"
)

func TestCommand(t *testing.T) {
	const url = "http://127.0.0.1:5000/subscription"

	cmd, err := Command(url)
	switch runtime.GOOS {
	case "darwin", "linux", "windows", "freebsd", "openbsd":
	default:
		if err == nil {
			t.Fatalf("Command() on %s should fail", runtime.GOOS)
		}
		t.Skipf("Unsupported platform: %s", runtime.GOOS)
	}
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if !slices.Contains(cmd.Args, url) {
		t.Errorf("Args = %v, want url included", cmd.Args)
	}
}
