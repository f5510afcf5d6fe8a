package domain

import "time"

// OutcomeEvent is the record published for each completed session action.
// It carries no user input beyond the sanitized query.
type OutcomeEvent struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	State      string    `json:"state"`
	Verdict    Verdict   `json:"verdict,omitempty"`
	Intersects *bool     `json:"intersects,omitempty"`
	ErrorKind  ErrorKind `json:"error_kind,omitempty"`
	Query      string    `json:"query,omitempty"`
	ShapeCount int       `json:"shape_count"`
	At         time.Time `json:"at"`
}
