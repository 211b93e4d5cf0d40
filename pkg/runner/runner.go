package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/festbot/pkg/conversation"
	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/lifecycle"
)

// Replies printed by the runner itself.
const (
	TextBusy        = "Still searching, please wait."
	TextAskYesNo    = "Please answer yes or no."
	TextAskCategory = "Please pick one of the options above."
	TextAskOption   = "Please type the number of one of the events above."
	TextAskHome     = "Type 'home' to start a new search."
)

// CommandHome is the input command that resets the conversation.
const CommandHome = "home"

// DefaultCommands maps the global commands, accepted in every mode, onto
// lifecycle events. A ShutdownEvent ends the session; an InputEvent for
// CommandHome resets the conversation.
func DefaultCommands() map[string]lifecycle.Event {
	return map[string]lifecycle.Event{
		"quit": lifecycle.ShutdownEvent{Reason: "manual"},
		"exit": lifecycle.ShutdownEvent{Reason: "manual"},
		"home": lifecycle.InputEvent{Command: CommandHome},
		"back": lifecycle.InputEvent{Command: CommandHome},
	}
}

// Conversation is the state machine driven by the runner.
// Implemented by *conversation.Controller.
type Conversation interface {
	Snapshot() conversation.Snapshot
	SelectCategory(ctx context.Context, category domain.Category) error
	SubmitText(ctx context.Context, text string) error
	AnswerYesNo(ctx context.Context, yes bool) error
	SelectEvent(ctx context.Context, event domain.Event) error
	GoHome(ctx context.Context)
}

// Runner handles the read-eval loop of a chat conversation using the provided IO.
type Runner struct {
	Conversation Conversation

	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Commands are matched case-insensitively before any other reading of a line.
	Commands map[string]lifecycle.Event

	// Logger is used for internal debug logging.
	Logger *slog.Logger
}

// NewRunner creates a Runner over the conversation.
func NewRunner(conv Conversation, opts ...Option) *Runner {
	r := &Runner{
		Conversation: conv,
		Commands:     DefaultCommands(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var errStop = errors.New("stop")

// Run presents the conversation and maps each line onto a gesture until
// EOF, an exit command or cancellation of ctx.
func (r *Runner) Run(ctx context.Context) error {
	handler := r.resolveHandler()
	shown := 0
	var generation uint64

	for {
		snap := r.Conversation.Snapshot()
		if snap.Generation != generation {
			generation = snap.Generation
			shown = 0
		}
		turn := Turn{
			Messages: snap.Transcript[shown:],
			Mode:     snap.Mode,
		}
		shown = len(snap.Transcript)
		if live, ok := snap.Transcript.Live(); ok {
			turn.Live = live
		}
		if snap.Mode == domain.ModeHome {
			turn.Menu = domain.Categories
		}

		if err := handler.Output(ctx, turn); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		line, err := handler.Input(ctx)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return fmt.Errorf("input error: %w", err)
		}

		err = r.dispatch(ctx, handler, snap, line)
		if errors.Is(err, errStop) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// dispatch maps a line onto the gesture offered by the live affordances.
func (r *Runner) dispatch(ctx context.Context, h IOHandler, snap conversation.Snapshot, line string) error {
	text := strings.TrimSpace(line)
	cmd := strings.ToLower(text)
	live, _ := snap.Transcript.Live()

	if cmd == "" {
		return nil
	}
	switch ev := r.Commands[cmd].(type) {
	case lifecycle.ShutdownEvent:
		r.Logger.Debug("session closed", "command", cmd, "reason", ev.Reason)
		return errStop
	case lifecycle.InputEvent:
		if ev.Command == CommandHome {
			r.Conversation.GoHome(ctx)
			return nil
		}
	}

	var err error
	switch {
	case len(live.Options) > 0:
		event, ok := pickOption(live.Options, text)
		if !ok {
			return h.SystemOutput(ctx, TextAskOption)
		}
		if err := h.Signal(ctx, SignalSearching); err != nil {
			return err
		}
		err = r.Conversation.SelectEvent(ctx, event)
	case live.YesNo:
		switch cmd {
		case "y", "yes":
			err = r.Conversation.AnswerYesNo(ctx, true)
		case "n", "no":
			err = r.Conversation.AnswerYesNo(ctx, false)
		default:
			return h.SystemOutput(ctx, TextAskYesNo)
		}
	case live.FreeText:
		if err := h.Signal(ctx, SignalSearching); err != nil {
			return err
		}
		err = r.Conversation.SubmitText(ctx, text)
	case snap.Mode == domain.ModeHome:
		category, perr := domain.ParseCategory(text)
		if perr != nil {
			return h.SystemOutput(ctx, TextAskCategory)
		}
		err = r.Conversation.SelectCategory(ctx, category)
	default:
		return h.SystemOutput(ctx, TextAskHome)
	}

	switch {
	case err == nil, errors.Is(err, domain.ErrEmptyInput):
		return nil
	case errors.Is(err, domain.ErrBusy):
		return h.SystemOutput(ctx, TextBusy)
	default:
		r.Logger.Debug("gesture rejected", "input", text, "mode", snap.Mode.String(), "err", err)
		return h.SystemOutput(ctx, err.Error())
	}
}

// pickOption accepts a 1-based number or an event name.
func pickOption(options []domain.Event, text string) (domain.Event, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return domain.Event{}, false
	}
	for _, e := range options {
		if strings.EqualFold(strings.TrimSpace(e.Name), text) {
			return e, true
		}
	}
	return domain.Event{}, false
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		// Memoize to prevent creating new pumps on subsequent Run() calls.
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
