package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/tessro/jukebar/internal/core"
)

// Table wraps a go-pretty table writer.
type Table struct {
	w table.Writer
}

// NewTable creates a new table with the given headers writing to stdout.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.SetStyle(table.StyleLight)
	if len(headers) > 0 {
		row := make(table.Row, len(headers))
		for i, h := range headers {
			row[i] = h
		}
		w.AppendHeader(row)
	}
	return &Table{w: w}
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	t.w.AppendRow(row)
}

// Flush writes the table output.
func (t *Table) Flush() {
	t.w.Render()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Normal prints normal output with a label.
func Normal(label, value string) {
	fmt.Printf("%s: %s\n", label, value)
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// LikeIcon returns a heart for liked songs.
func LikeIcon(liked bool) string {
	if liked {
		return "♥"
	}
	return "♡"
}

// TruncateString truncates s to maxLen display cells, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

// FormatDuration formats a duration as m:ss or h:mm:ss.
func FormatDuration(d time.Duration) string {
	seconds := int(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// songLine renders "Artist - Title".
func songLine(s *core.Song) string {
	return fmt.Sprintf("%s - %s", s.DisplayArtist(), s.DisplayTitle())
}

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return !JSONOutput() && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
