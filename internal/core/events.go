package core

import "time"

// EventType indicates what changed in a state broadcast.
type EventType string

const (
	EventStateChange    EventType = "state"
	EventSongChange     EventType = "song"
	EventModeChange     EventType = "mode"
	EventVolumeChange   EventType = "volume"
	EventPlaylistChange EventType = "playlist"
	EventLikeChange     EventType = "like"
	EventLoading        EventType = "loading"
	EventProgress       EventType = "progress"
	EventError          EventType = "error"
)

// Event is a state-changed notification delivered to subscribers.
type Event struct {
	Type      EventType
	State     PlaybackState
	Err       error // set for EventError
	Timestamp time.Time
}
