package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

func containsPlain(rendered, want string) bool {
	return strings.Contains(ansi.Strip(rendered), want)
}
