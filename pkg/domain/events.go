package domain

import (
	"context"
	"time"
)

// Gesture names a user action accepted by the conversation controller.
type Gesture string

const (
	GestureSelectCategory Gesture = "select_category"
	GestureSubmitText     Gesture = "submit_text"
	GestureAnswerYesNo    Gesture = "answer_yes_no"
	GestureSelectEvent    Gesture = "select_event"
	GestureGoHome         Gesture = "go_home"
)

// TransitionEvent is emitted after a gesture changed the conversation.
type TransitionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Gesture   Gesture   `json:"gesture"`
	From      Mode      `json:"from"`
	To        Mode      `json:"to"`
}

// QueryEvent is emitted after a gateway round trip completed.
type QueryEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Flow      string        `json:"flow"`
	Results   int           `json:"results"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
	// Stale is true when the response arrived after a reset and was dropped.
	Stale bool `json:"stale,omitempty"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnQuery      func(context.Context, *QueryEvent)
}

// Edge is one possible transition of the dialogue.
type Edge struct {
	From    Mode
	Gesture Gesture
	To      Mode
	// Label describes the branch, e.g. the result count that selects it.
	Label string
}

// Dialogue lists every transition the controller can make.
// GoHome is valid from every mode and is listed once per mode.
func Dialogue() []Edge {
	var edges []Edge
	for _, c := range Categories {
		edges = append(edges, Edge{ModeHome, GestureSelectCategory, c.Mode(), c.String()})
	}
	for _, c := range Categories {
		m := c.Mode()
		edges = append(edges,
			Edge{m, GestureSubmitText, m, "no results"},
			Edge{m, GestureSubmitText, m, "transport failure"},
			Edge{m, GestureSubmitText, ModeHome, "one result"},
			Edge{m, GestureSubmitText, ModeAwaitingSelection, "several results"},
		)
	}
	edges = append(edges,
		Edge{ModeAwaitingSelection, GestureAnswerYesNo, ModeAwaitingSelection, "yes"},
		Edge{ModeAwaitingSelection, GestureAnswerYesNo, ModeHome, "no"},
		Edge{ModeAwaitingSelection, GestureSelectEvent, ModeHome, "details"},
	)
	for _, m := range []Mode{ModeSearchByEvent, ModeSearchByLocation, ModeSearchByDate, ModeAwaitingSelection} {
		edges = append(edges, Edge{m, GestureGoHome, ModeHome, ""})
	}
	return edges
}
