package session

import (
	"time"

	"github.com/couchcryptid/flood-area-check/internal/domain"
)

// State is where a session is in its current action.
type State string

const (
	StateIdle       State = "idle"
	StateSearching  State = "searching"
	StateLocating   State = "locating"
	StateValidating State = "validating"
	StateDrawn      State = "drawn"
	StateRejected   State = "rejected"
	StateFailed     State = "failed"
)

// Terminal reports whether s ends an action.
func (s State) Terminal() bool {
	return s == StateDrawn || s == StateRejected || s == StateFailed
}

// Action names a user-initiated operation.
type Action string

const (
	ActionSearch Action = "search"
	ActionLocate Action = "locate"
	ActionDraw   Action = "draw"
)

// Outcome is the result of one action as presented to the user.
type Outcome struct {
	Action  Action            `json:"action"`
	State   State             `json:"state"`
	Message string            `json:"message,omitempty"`
	Error   *domain.UserError `json:"error,omitempty"`

	// Warning is a non-blocking notice shown alongside a drawn result.
	Warning string `json:"warning,omitempty"`

	Verdict    domain.Verdict `json:"verdict,omitempty"`
	Intersects *bool          `json:"intersects,omitempty"`
	Shapes     []domain.Shape `json:"shapes"`
	View       *domain.Bounds `json:"view,omitempty"`

	// Stale is set when a newer action started before this one finished;
	// a stale outcome did not change the session.
	Stale bool      `json:"stale,omitempty"`
	At    time.Time `json:"at"`
}

// Fields are the session's input fields.
type Fields struct {
	SearchText      string `json:"searchText"`
	BoundingBoxText string `json:"bbox"`
	PolygonText     string `json:"polygon"`
}
