package conversation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/format"
	"github.com/aretw0/festbot/pkg/ports"
)

// Assistant replies that do not depend on query results.
const (
	ReplyNoMatch        = "I couldn't find any events matching that. Want to try another search?"
	ReplyConfirm        = "Would you like to deep dive into any of these?"
	ReplyPickEvent      = "Pick an event to see its details:"
	ReplyDeclined       = "No problem! Start a new search whenever you're ready."
	ReplyApology        = "Sorry, something went wrong while searching. Please try again."
	ReplyDetailsMissing = "Sorry, I couldn't find the details for that event."
	ReplyDetailsFailed  = "Sorry, I couldn't load the details for that event right now."
	AnswerYes           = "Yes"
	AnswerNo            = "No"
)

// Snapshot is a copy of the controller state, safe to read while the controller moves on.
type Snapshot struct {
	Transcript domain.Transcript
	Mode       domain.Mode
	Candidates []domain.Event
	Busy       bool
	// Generation changes whenever the conversation is reset.
	Generation uint64
}

// Controller is the conversation state machine.
// All methods are safe for concurrent use; gestures are serialized by the busy flag.
type Controller struct {
	gateway      ports.QueryGateway
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	now          func() time.Time
	sleep        func(time.Duration)
	confirmDelay time.Duration

	mu         sync.Mutex
	transcript domain.Transcript
	mode       domain.Mode
	candidates []domain.Event
	busy       bool
	// generation is bumped on every reset. Responses tagged with an older
	// generation belong to an abandoned flow and are dropped.
	generation uint64
}

// New creates a Controller in the home state.
func New(gateway ports.QueryGateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:      gateway,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		sleep:        time.Sleep,
		confirmDelay: DefaultConfirmDelay,
		mode:         domain.ModeHome,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Transcript: c.transcript.Clone(),
		Mode:       c.mode,
		Candidates: slices.Clone(c.candidates),
		Busy:       c.busy,
		Generation: c.generation,
	}
}

// Mode returns the active flow mode.
func (c *Controller) Mode() domain.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Busy reports whether a request is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// SelectCategory starts a search branch. Only valid from the home mode.
func (c *Controller) SelectCategory(ctx context.Context, category domain.Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %d", domain.ErrInvalidTransition, int(category))
	}

	c.mu.Lock()
	if c.mode != domain.ModeHome {
		mode := c.mode
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot pick a category while in %s", domain.ErrInvalidTransition, mode)
	}
	c.resetLocked()
	next := category.Mode()
	c.appendLocked(domain.RoleUser, category.String(), domain.Affordances{})
	c.appendLocked(domain.RoleAssistant, category.Prompt(), domain.Affordances{
		FreeText:    true,
		Placeholder: next.Placeholder(),
	})
	c.mode = next
	c.mu.Unlock()

	c.emitTransition(ctx, domain.GestureSelectCategory, domain.ModeHome, next)
	return nil
}

// SubmitText sends free text to the query service and branches on the number of results.
// Rejections (busy, no live free-text prompt, blank text) leave the state untouched.
// Transport failures are not returned; they become an apology in the transcript.
func (c *Controller) SubmitText(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	live, ok := c.transcript.Live()
	if !ok || !live.FreeText {
		c.mu.Unlock()
		return fmt.Errorf("%w: no free-text prompt", domain.ErrAffordanceInactive)
	}
	if strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return domain.ErrEmptyInput
	}

	from := c.mode
	c.appendLocked(domain.RoleUser, text, domain.Affordances{})
	c.busy = true
	gen := c.generation
	c.mu.Unlock()

	events, err := c.query(ctx, gen, from.Flow(), text)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}

	switch {
	case err != nil:
		// Keep whatever prompt was live so the user can simply retry.
		c.appendLocked(domain.RoleAssistant, ReplyApology, live)
	case len(events) == 0:
		c.appendLocked(domain.RoleAssistant, ReplyNoMatch, domain.Affordances{
			FreeText:    true,
			Placeholder: from.Placeholder(),
		})
	case len(events) == 1:
		c.appendLocked(domain.RoleAssistant, format.Detail(events[0]), domain.Affordances{ReturnHome: true})
		c.mode = domain.ModeHome
		c.candidates = nil
	default:
		c.candidates = slices.Clone(events)
		c.appendLocked(domain.RoleAssistant, format.Summary(events), domain.Affordances{})
		c.mode = domain.ModeAwaitingSelection
		c.mu.Unlock()

		c.sleep(c.confirmDelay)

		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return nil
		}
		c.appendLocked(domain.RoleAssistant, ReplyConfirm, domain.Affordances{YesNo: true})
	}
	c.busy = false
	to := c.mode
	c.mu.Unlock()

	c.emitTransition(ctx, domain.GestureSubmitText, from, to)
	return nil
}

// AnswerYesNo answers the "deep dive" question that follows a multi-result summary.
func (c *Controller) AnswerYesNo(ctx context.Context, yes bool) error {
	c.mu.Lock()
	live, ok := c.transcript.Live()
	if !ok || !live.YesNo {
		c.mu.Unlock()
		return fmt.Errorf("%w: no yes/no prompt", domain.ErrAffordanceInactive)
	}

	from := c.mode
	if yes {
		c.appendLocked(domain.RoleUser, AnswerYes, domain.Affordances{})
		c.appendLocked(domain.RoleAssistant, ReplyPickEvent, domain.Affordances{
			Options: slices.Clone(c.candidates),
		})
	} else {
		c.appendLocked(domain.RoleUser, AnswerNo, domain.Affordances{})
		c.appendLocked(domain.RoleAssistant, ReplyDeclined, domain.Affordances{ReturnHome: true})
		c.mode = domain.ModeHome
		c.candidates = nil
	}
	to := c.mode
	c.mu.Unlock()

	c.emitTransition(ctx, domain.GestureAnswerYesNo, from, to)
	return nil
}

// SelectEvent looks up the details of one of the offered candidates.
// The flow returns home whatever the outcome.
func (c *Controller) SelectEvent(ctx context.Context, event domain.Event) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	live, ok := c.transcript.Live()
	if !ok || len(live.Options) == 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: no options offered", domain.ErrAffordanceInactive)
	}
	idx := live.OptionIndex(event)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", domain.ErrUnknownOption, event.ID)
	}

	from := c.mode
	echo := format.Echo(live.Options[idx])
	c.appendLocked(domain.RoleUser, echo, domain.Affordances{})
	c.busy = true
	gen := c.generation
	c.mu.Unlock()

	events, err := c.query(ctx, gen, domain.FlowEventDetails, echo)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	switch {
	case err != nil:
		c.appendLocked(domain.RoleAssistant, ReplyDetailsFailed, domain.Affordances{})
	case len(events) == 0:
		c.appendLocked(domain.RoleAssistant, ReplyDetailsMissing, domain.Affordances{})
	default:
		c.appendLocked(domain.RoleAssistant, format.Detail(events[0]), domain.Affordances{ReturnHome: true})
	}
	c.mode = domain.ModeHome
	c.candidates = nil
	c.busy = false
	c.mu.Unlock()

	c.emitTransition(ctx, domain.GestureSelectEvent, from, domain.ModeHome)
	return nil
}

// GoHome clears the conversation. Any outstanding response is dropped on arrival.
func (c *Controller) GoHome(ctx context.Context) {
	c.mu.Lock()
	from := c.mode
	c.resetLocked()
	c.mu.Unlock()

	c.emitTransition(ctx, domain.GestureGoHome, from, domain.ModeHome)
}

func (c *Controller) resetLocked() {
	c.transcript = nil
	c.candidates = nil
	c.mode = domain.ModeHome
	c.busy = false
	c.generation++
}

func (c *Controller) appendLocked(role domain.Role, body string, aff domain.Affordances) {
	c.transcript = append(c.transcript, domain.Message{
		Role:        role,
		Body:        body,
		CreatedAt:   c.now(),
		Affordances: aff,
	})
}

// query performs the round trip without holding the lock.
func (c *Controller) query(ctx context.Context, gen uint64, flow, text string) ([]domain.Event, error) {
	start := time.Now()
	events, err := c.gateway.Query(ctx, flow, text)
	elapsed := time.Since(start)

	c.mu.Lock()
	stale := gen != c.generation
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("query failed", "flow", flow, "err", err, "stale", stale)
	} else {
		c.logger.Debug("query completed", "flow", flow, "results", len(events), "duration", elapsed, "stale", stale)
	}

	if c.hooks.OnQuery != nil {
		c.hooks.OnQuery(ctx, &domain.QueryEvent{
			Timestamp: c.now(),
			Flow:      flow,
			Results:   len(events),
			Duration:  elapsed,
			Err:       err,
			Stale:     stale,
		})
	}
	return events, err
}

func (c *Controller) emitTransition(ctx context.Context, gesture domain.Gesture, from, to domain.Mode) {
	c.logger.Debug("transition", "gesture", gesture, "from", from.String(), "to", to.String())
	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(ctx, &domain.TransitionEvent{
			Timestamp: c.now(),
			Gesture:   gesture,
			From:      from,
			To:        to,
		})
	}
}
