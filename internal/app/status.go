package app

import (
	"maps"
	"time"

	"github.com/ayusman/gesturemouse/internal/control"
	"github.com/ayusman/gesturemouse/internal/gesture"
)

// Status is a point-in-time view of a running session.
type Status struct {
	SessionID    string               `json:"session_id"`
	StartedAt    time.Time            `json:"started_at"`
	Paused       bool                 `json:"paused"`
	Hand         bool                 `json:"hand"`
	Mode         gesture.Mode         `json:"mode"`
	Fingers      gesture.Fingers      `json:"fingers"`
	Dragging     bool                 `json:"dragging"`
	CursorX      int                  `json:"cursor_x"`
	CursorY      int                  `json:"cursor_y"`
	ScreenWidth  int                  `json:"screen_width"`
	ScreenHeight int                  `json:"screen_height"`
	Frames       int64                `json:"frames"`
	DetectErrors int64                `json:"detect_errors"`
	Actions      map[control.Kind]int `json:"actions"`
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.status
	st.Actions = maps.Clone(s.status.Actions)
	return st
}

// Preview returns the latest annotated frame as JPEG, or nil if none has been
// encoded yet. The returned slice must not be modified.
func (s *Session) Preview() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPreview
}
