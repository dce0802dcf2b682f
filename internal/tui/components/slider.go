package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/tessro/jukebar/internal/tui/styles"
)

// Slider is a one-row horizontal control for a value in [0,1], used for
// the progress bar and the volume. A press sets the value immediately;
// holding and moving keeps setting it; any release ends the drag, even
// outside the slider's row.
type Slider struct {
	x, y, width int
	value       float64
	dragging    bool
}

// SetBounds places the slider at screen cell (x, y) spanning width cells.
func (s *Slider) SetBounds(x, y, width int) {
	s.x, s.y, s.width = x, y, max(width, 1)
}

// Width returns the slider's width in cells.
func (s *Slider) Width() int {
	return s.width
}

// Value returns the current fraction.
func (s *Slider) Value() float64 {
	return s.value
}

// SetValue updates the value from the model. While a drag is active the
// thumb follows the pointer instead, so updates are ignored.
func (s *Slider) SetValue(v float64) {
	if s.dragging {
		return
	}
	s.value = lo.Clamp(v, 0, 1)
}

// Dragging reports whether the button is held after pressing the slider.
func (s *Slider) Dragging() bool {
	return s.dragging
}

// Contains reports whether the cell (x, y) is on the slider.
func (s *Slider) Contains(x, y int) bool {
	return y == s.y && x >= s.x && x < s.x+s.width
}

// HandleMouse feeds a mouse event to the slider. It returns the new
// fraction and true when the event changed the value and the change
// should be applied.
func (s *Slider) HandleMouse(msg tea.MouseMsg) (float64, bool) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !s.Contains(msg.X, msg.Y) {
			return s.value, false
		}
		s.dragging = true
		s.value = s.fractionAt(msg.X)
		return s.value, true

	case tea.MouseActionMotion:
		if !s.dragging {
			return s.value, false
		}
		v := s.fractionAt(msg.X)
		if v == s.value {
			return v, false
		}
		s.value = v
		return v, true

	case tea.MouseActionRelease:
		s.dragging = false
	}
	return s.value, false
}

func (s *Slider) fractionAt(x int) float64 {
	if s.width <= 1 {
		return 0
	}
	return lo.Clamp(float64(x-s.x)/float64(s.width-1), 0, 1)
}

// View draws the filled track, the thumb and the empty track.
func (s *Slider) View() string {
	w := max(s.width, 1)
	thumb := int(s.value*float64(w-1) + 0.5)
	thumb = lo.Clamp(thumb, 0, w-1)

	filled := lipglossFg(styles.Primary)
	empty := lipglossFg(styles.Border)
	knob := "●"
	if s.dragging {
		knob = "◉"
	}
	return filled.Render(styles.Repeat("━", thumb)) +
		filled.Render(knob) +
		empty.Render(styles.Repeat("─", w-thumb-1))
}
