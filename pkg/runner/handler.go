package runner

import (
	"context"

	"github.com/aretw0/festbot/pkg/domain"
)

// Turn is what the runner presents before reading the next line.
type Turn struct {
	// Messages are the transcript entries appended since the previous turn.
	Messages []domain.Message
	// Live holds the affordances of the latest assistant entry.
	Live domain.Affordances
	// Menu lists the categories on offer. Only set in the home mode.
	Menu []domain.Category
	Mode domain.Mode
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a turn to the user.
	Output(ctx context.Context, turn Turn) error

	// Input reads a line from the user. io.EOF ends the session.
	Input(ctx context.Context) (string, error)

	// Signal notifies the handler of a transient state such as "searching".
	Signal(ctx context.Context, name string) error

	// SystemOutput presents a meta-message, distinct from transcript content.
	SystemOutput(ctx context.Context, msg string) error
}

// Signals sent through IOHandler.Signal.
const (
	SignalSearching = "searching"
)

// ContentRenderer transforms markdown before it is written, e.g. to ANSI.
type ContentRenderer func(string) (string, error)
