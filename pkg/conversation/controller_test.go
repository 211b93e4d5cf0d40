package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	flow string
	text string
}

// fakeGateway replays scripted responses and records every call.
type fakeGateway struct {
	mu        sync.Mutex
	calls     []call
	responses []response
}

type response struct {
	events []domain.Event
	err    error
}

func (g *fakeGateway) Query(ctx context.Context, flow, text string) ([]domain.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call{flow: flow, text: text})
	if len(g.responses) == 0 {
		return nil, nil
	}
	r := g.responses[0]
	g.responses = g.responses[1:]
	return r.events, r.err
}

func (g *fakeGateway) reply(events []domain.Event, err error) *fakeGateway {
	g.responses = append(g.responses, response{events: events, err: err})
	return g
}

func (g *fakeGateway) Calls() []call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]call(nil), g.calls...)
}

var (
	opening = domain.Event{
		ID: "rec1", Name: "Opening Ceremony", LinkedSpace: "Main Stage",
		StartTime: "2025-06-01T18:00:00Z", EndTime: "2025-06-01T20:00:00Z",
	}
	parade = domain.Event{
		ID: "rec2", Name: "Opening Parade", LinkedSpace: "High Street",
		StartTime: "2025-06-01T12:00:00Z", EndTime: "2025-06-01T13:00:00Z",
	}
	concert = domain.Event{
		ID: "rec3", Name: "Opening Concert", LinkedSpace: "SSH 3",
		StartTime: "2025-06-02T20:00:00Z",
	}
)

func newController(t *testing.T, gw *fakeGateway, opts ...Option) *Controller {
	t.Helper()
	base := []Option{
		WithConfirmDelay(0),
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }),
	}
	return New(gw, append(base, opts...)...)
}

func last(s Snapshot) domain.Message {
	return s.Transcript[len(s.Transcript)-1]
}

func TestSelectCategory(t *testing.T) {
	ctrl := newController(t, &fakeGateway{})

	require.NoError(t, ctrl.SelectCategory(context.Background(), domain.CategoryLocation))

	snap := ctrl.Snapshot()
	require.Len(t, snap.Transcript, 2)
	assert.Equal(t, domain.RoleUser, snap.Transcript[0].Role)
	assert.Equal(t, "Location", snap.Transcript[0].Body)
	assert.Equal(t, domain.RoleAssistant, snap.Transcript[1].Role)
	assert.Equal(t, domain.CategoryLocation.Prompt(), snap.Transcript[1].Body)

	live, ok := snap.Transcript.Live()
	require.True(t, ok)
	assert.True(t, live.FreeText)
	assert.Equal(t, domain.ModeSearchByLocation.Placeholder(), live.Placeholder)
	assert.Equal(t, domain.ModeSearchByLocation, snap.Mode)
}

func TestSelectCategory_OnlyFromHome(t *testing.T) {
	ctrl := newController(t, &fakeGateway{})
	ctx := context.Background()

	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
	err := ctrl.SelectCategory(ctx, domain.CategoryDate)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.ModeSearchByEvent, ctrl.Mode())

	assert.ErrorIs(t, New(&fakeGateway{}).SelectCategory(ctx, domain.Category(9)), domain.ErrInvalidTransition)
}

func TestSelectCategory_ClearsPreviousFlow(t *testing.T) {
	gw := (&fakeGateway{}).reply([]domain.Event{opening}, nil)
	ctrl := newController(t, gw)
	ctx := context.Background()

	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
	require.NoError(t, ctrl.SubmitText(ctx, "Opening Ceremony"))
	require.Equal(t, domain.ModeHome, ctrl.Mode())

	// the detail answer leaves us home, so a new category starts from scratch
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryDate))
	snap := ctrl.Snapshot()
	assert.Len(t, snap.Transcript, 2)
	assert.Equal(t, "Date", snap.Transcript[0].Body)
}

func TestSubmitText_SendsGenericFlowVerbatim(t *testing.T) {
	for _, category := range domain.Categories {
		t.Run(category.String(), func(t *testing.T) {
			gw := &fakeGateway{}
			ctrl := newController(t, gw)
			ctx := context.Background()

			require.NoError(t, ctrl.SelectCategory(ctx, category))
			require.NoError(t, ctrl.SubmitText(ctx, "  SSH 3 on July 19  "))

			calls := gw.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, domain.FlowEvents, calls[0].flow)
			assert.Equal(t, "  SSH 3 on July 19  ", calls[0].text)

			snap := ctrl.Snapshot()
			assert.Equal(t, "  SSH 3 on July 19  ", snap.Transcript[2].Body)
		})
	}
}

func TestSubmitText_EmptyIsNoOp(t *testing.T) {
	gw := &fakeGateway{}
	ctrl := newController(t, gw)
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
	before := ctrl.Snapshot()

	for _, text := range []string{"", "   ", "\t\n"} {
		err := ctrl.SubmitText(ctx, text)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	}

	after := ctrl.Snapshot()
	assert.Equal(t, len(before.Transcript), len(after.Transcript))
	assert.Equal(t, before.Mode, after.Mode)
	assert.Empty(t, gw.Calls())
}

func TestSubmitText_RequiresLiveFreeText(t *testing.T) {
	gw := &fakeGateway{}
	ctrl := newController(t, gw)

	err := ctrl.SubmitText(context.Background(), "jazz")
	assert.ErrorIs(t, err, domain.ErrAffordanceInactive)
	assert.Empty(t, ctrl.Snapshot().Transcript)
	assert.Empty(t, gw.Calls())
}

func TestSubmitText_ZeroResults(t *testing.T) {
	gw := (&fakeGateway{}).reply(nil, nil)
	ctrl := newController(t, gw)
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryDate))

	require.NoError(t, ctrl.SubmitText(ctx, "December 25"))

	snap := ctrl.Snapshot()
	msg := last(snap)
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, ReplyNoMatch, msg.Body)
	assert.True(t, msg.Affordances.FreeText)
	assert.Equal(t, domain.ModeSearchByDate.Placeholder(), msg.Affordances.Placeholder)
	assert.Equal(t, domain.ModeSearchByDate, snap.Mode)
	assert.False(t, snap.Busy)

	// the retry prompt is live, so another submission goes through
	require.NoError(t, ctrl.SubmitText(ctx, "July 19"))
	assert.Len(t, gw.Calls(), 2)
}

func TestSubmitText_OneResult(t *testing.T) {
	gw := (&fakeGateway{}).reply([]domain.Event{opening}, nil)
	ctrl := newController(t, gw)
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))

	require.NoError(t, ctrl.SubmitText(ctx, "Opening Ceremony"))

	snap := ctrl.Snapshot()
	msg := last(snap)
	assert.Equal(t, format.Detail(opening), msg.Body)
	assert.Contains(t, msg.Body, "**Opening Ceremony**")
	assert.Contains(t, msg.Body, "June 1, 2025")
	assert.Contains(t, msg.Body, "06:00 PM – 08:00 PM")
	assert.Contains(t, msg.Body, "Main Stage")
	assert.True(t, msg.Affordances.ReturnHome)
	assert.False(t, msg.Affordances.FreeText)
	assert.Equal(t, domain.ModeHome, snap.Mode)
	assert.Empty(t, snap.Candidates)
}

func TestSubmitText_ManyResults(t *testing.T) {
	results := []domain.Event{parade, opening, concert}
	gw := (&fakeGateway{}).reply(results, nil)

	var slept []time.Duration
	ctrl := newController(t, gw,
		WithConfirmDelay(750*time.Millisecond),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))

	require.NoError(t, ctrl.SubmitText(ctx, "opening"))

	snap := ctrl.Snapshot()
	require.Len(t, snap.Transcript, 5)
	summary := snap.Transcript[3]
	assert.Equal(t, format.Summary(results), summary.Body)
	assert.Contains(t, summary.Body, "- **Opening Parade** at High Street on June 1, 2025")
	assert.Contains(t, summary.Body, "- **Opening Ceremony** at Main Stage on June 1, 2025")
	assert.Contains(t, summary.Body, "- **Opening Concert** at SSH 3 on June 2, 2025")
	assert.True(t, summary.Affordances.Empty())

	confirm := snap.Transcript[4]
	assert.Equal(t, ReplyConfirm, confirm.Body)
	assert.True(t, confirm.Affordances.YesNo)
	assert.False(t, confirm.Affordances.FreeText)

	assert.Equal(t, []time.Duration{750 * time.Millisecond}, slept)
	assert.Equal(t, results, snap.Candidates)
	assert.Equal(t, domain.ModeAwaitingSelection, snap.Mode)
	assert.False(t, snap.Busy)
}

func TestSubmitText_TransportFailure(t *testing.T) {
	gw := (&fakeGateway{}).reply(nil, &domain.TransportError{Status: 500, Detail: "db unavailable"})
	ctrl := newController(t, gw)
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
	prompt := last(ctrl.Snapshot())

	require.NoError(t, ctrl.SubmitText(ctx, "Opening Ceremony"))

	snap := ctrl.Snapshot()
	require.Len(t, snap.Transcript, 4, "user entry plus exactly one assistant entry")
	msg := last(snap)
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, ReplyApology, msg.Body)
	assert.NotContains(t, msg.Body, "db unavailable")
	assert.Equal(t, prompt.Affordances, msg.Affordances, "live affordances are unchanged")
	assert.Equal(t, domain.ModeSearchByEvent, snap.Mode)
	assert.False(t, snap.Busy)
}

func TestAnswerYesNo(t *testing.T) {
	results := []domain.Event{parade, opening, concert}
	ctx := context.Background()

	t.Run("yes exposes the cached candidates", func(t *testing.T) {
		ctrl := newController(t, (&fakeGateway{}).reply(results, nil))
		require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
		require.NoError(t, ctrl.SubmitText(ctx, "opening"))

		require.NoError(t, ctrl.AnswerYesNo(ctx, true))

		snap := ctrl.Snapshot()
		assert.Equal(t, AnswerYes, snap.Transcript[len(snap.Transcript)-2].Body)
		msg := last(snap)
		assert.Equal(t, results, msg.Affordances.Options)
		assert.False(t, msg.Affordances.FreeText)
		assert.Equal(t, domain.ModeAwaitingSelection, snap.Mode)
	})

	t.Run("no returns home", func(t *testing.T) {
		ctrl := newController(t, (&fakeGateway{}).reply(results, nil))
		require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
		require.NoError(t, ctrl.SubmitText(ctx, "opening"))

		require.NoError(t, ctrl.AnswerYesNo(ctx, false))

		snap := ctrl.Snapshot()
		assert.Equal(t, AnswerNo, snap.Transcript[len(snap.Transcript)-2].Body)
		msg := last(snap)
		assert.Equal(t, ReplyDeclined, msg.Body)
		assert.True(t, msg.Affordances.ReturnHome)
		assert.Equal(t, domain.ModeHome, snap.Mode)
	})

	t.Run("rejected without a live question", func(t *testing.T) {
		ctrl := newController(t, &fakeGateway{})
		require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
		assert.ErrorIs(t, ctrl.AnswerYesNo(ctx, true), domain.ErrAffordanceInactive)
		assert.Len(t, ctrl.Snapshot().Transcript, 2)
	})
}

func TestSelectEvent(t *testing.T) {
	results := []domain.Event{parade, opening, concert}
	ctx := context.Background()

	setup := func(t *testing.T, gw *fakeGateway) *Controller {
		ctrl := newController(t, gw.reply(results, nil))
		require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
		require.NoError(t, ctrl.SubmitText(ctx, "opening"))
		require.NoError(t, ctrl.AnswerYesNo(ctx, true))
		return ctrl
	}

	t.Run("details found", func(t *testing.T) {
		gw := &fakeGateway{}
		ctrl := setup(t, gw)
		gw.reply([]domain.Event{opening}, nil)

		require.NoError(t, ctrl.SelectEvent(ctx, opening))

		calls := gw.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, domain.FlowEventDetails, calls[1].flow)
		assert.Equal(t, "Opening Ceremony on June 1, 2025", calls[1].text)

		snap := ctrl.Snapshot()
		assert.Equal(t, "Opening Ceremony on June 1, 2025", snap.Transcript[len(snap.Transcript)-2].Body)
		msg := last(snap)
		assert.Equal(t, format.Detail(opening), msg.Body)
		assert.True(t, msg.Affordances.ReturnHome)
		assert.Equal(t, domain.ModeHome, snap.Mode)
		assert.Empty(t, snap.Candidates)
	})

	t.Run("details missing", func(t *testing.T) {
		gw := &fakeGateway{}
		ctrl := setup(t, gw)
		gw.reply(nil, nil)

		require.NoError(t, ctrl.SelectEvent(ctx, concert))

		snap := ctrl.Snapshot()
		msg := last(snap)
		assert.Equal(t, ReplyDetailsMissing, msg.Body)
		assert.True(t, msg.Affordances.Empty())
		assert.Equal(t, domain.ModeHome, snap.Mode)
	})

	t.Run("details failure", func(t *testing.T) {
		gw := &fakeGateway{}
		ctrl := setup(t, gw)
		gw.reply(nil, &domain.TransportError{Err: errors.New("connection refused")})

		require.NoError(t, ctrl.SelectEvent(ctx, parade))

		snap := ctrl.Snapshot()
		assert.Equal(t, ReplyDetailsFailed, last(snap).Body)
		assert.True(t, last(snap).Affordances.Empty())
		assert.Equal(t, domain.ModeHome, snap.Mode)
	})

	t.Run("unknown option", func(t *testing.T) {
		gw := &fakeGateway{}
		ctrl := setup(t, gw)
		before := len(ctrl.Snapshot().Transcript)

		err := ctrl.SelectEvent(ctx, domain.Event{ID: "nope", Name: "Nope"})
		assert.ErrorIs(t, err, domain.ErrUnknownOption)
		assert.Len(t, ctrl.Snapshot().Transcript, before)
		assert.Len(t, gw.Calls(), 1)
	})

	t.Run("records without an ID are told apart", func(t *testing.T) {
		first := domain.Event{Name: "Lantern Walk", StartTime: "2025-06-01T21:00:00Z"}
		second := domain.Event{Name: "Fire Show", StartTime: "2025-06-02T21:00:00Z"}
		gw := (&fakeGateway{}).reply([]domain.Event{first, second}, nil)
		ctrl := newController(t, gw)
		require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
		require.NoError(t, ctrl.SubmitText(ctx, "night"))
		require.NoError(t, ctrl.AnswerYesNo(ctx, true))
		gw.reply([]domain.Event{second}, nil)

		require.NoError(t, ctrl.SelectEvent(ctx, second))

		calls := gw.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, "Fire Show on June 2, 2025", calls[1].text)
		assert.Equal(t, format.Detail(second), last(ctrl.Snapshot()).Body)
	})

	t.Run("unlisted record without an ID", func(t *testing.T) {
		gw := &fakeGateway{}
		ctrl := setup(t, gw)

		err := ctrl.SelectEvent(ctx, domain.Event{Name: "Opening Ceremony"})
		assert.ErrorIs(t, err, domain.ErrUnknownOption)
	})

	t.Run("no options offered", func(t *testing.T) {
		ctrl := newController(t, &fakeGateway{})
		assert.ErrorIs(t, ctrl.SelectEvent(ctx, opening), domain.ErrAffordanceInactive)
	})
}

func TestGoHome_FromEveryState(t *testing.T) {
	ctx := context.Background()
	results := []domain.Event{parade, opening}

	steps := map[string]func(*Controller){
		"home":            func(c *Controller) {},
		"awaiting text":   func(c *Controller) { _ = c.SelectCategory(ctx, domain.CategoryEvents) },
		"awaiting yes/no": func(c *Controller) { _ = c.SelectCategory(ctx, domain.CategoryEvents); _ = c.SubmitText(ctx, "x") },
		"awaiting option": func(c *Controller) {
			_ = c.SelectCategory(ctx, domain.CategoryEvents)
			_ = c.SubmitText(ctx, "x")
			_ = c.AnswerYesNo(ctx, true)
		},
		"after the detail": func(c *Controller) {
			_ = c.SelectCategory(ctx, domain.CategoryEvents)
			_ = c.SubmitText(ctx, "x")
			_ = c.AnswerYesNo(ctx, true)
			_ = c.SelectEvent(ctx, opening)
		},
	}

	for name, reach := range steps {
		t.Run(name, func(t *testing.T) {
			gw := (&fakeGateway{}).reply(results, nil).reply([]domain.Event{opening}, nil)
			ctrl := newController(t, gw)
			reach(ctrl)

			ctrl.GoHome(ctx)

			snap := ctrl.Snapshot()
			assert.Empty(t, snap.Transcript)
			assert.Empty(t, snap.Candidates)
			assert.Equal(t, domain.ModeHome, snap.Mode)
			assert.False(t, snap.Busy)
		})
	}
}

// blockingGateway holds every request until released.
type blockingGateway struct {
	started chan struct{}
	release chan response
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{started: make(chan struct{}, 1), release: make(chan response, 1)}
}

func (g *blockingGateway) Query(ctx context.Context, flow, text string) ([]domain.Event, error) {
	g.started <- struct{}{}
	r := <-g.release
	return r.events, r.err
}

func TestSubmitText_RejectsWhileBusy(t *testing.T) {
	gw := newBlockingGateway()
	ctrl := New(gw, WithConfirmDelay(0))
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))

	done := make(chan error, 1)
	go func() { done <- ctrl.SubmitText(ctx, "first") }()
	<-gw.started

	assert.True(t, ctrl.Busy())
	assert.ErrorIs(t, ctrl.SubmitText(ctx, "second"), domain.ErrBusy)
	assert.ErrorIs(t, ctrl.SelectEvent(ctx, opening), domain.ErrBusy)
	assert.Len(t, ctrl.Snapshot().Transcript, 3)

	gw.release <- response{events: nil}
	require.NoError(t, <-done)
	assert.False(t, ctrl.Busy())
	assert.Equal(t, ReplyNoMatch, last(ctrl.Snapshot()).Body)
}

func TestGoHome_DropsLateResponse(t *testing.T) {
	gw := newBlockingGateway()
	var stale []bool
	ctrl := New(gw, WithConfirmDelay(0), WithLifecycleHooks(domain.LifecycleHooks{
		OnQuery: func(ctx context.Context, e *domain.QueryEvent) { stale = append(stale, e.Stale) },
	}))
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))

	done := make(chan error, 1)
	go func() { done <- ctrl.SubmitText(ctx, "Opening Ceremony") }()
	<-gw.started

	ctrl.GoHome(ctx)
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryLocation))

	gw.release <- response{events: []domain.Event{opening}}
	require.NoError(t, <-done)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Transcript, 2, "late detail must not resurrect the abandoned flow")
	assert.Equal(t, "Location", snap.Transcript[0].Body)
	assert.Equal(t, domain.ModeSearchByLocation, snap.Mode)
	assert.False(t, snap.Busy)
	assert.Equal(t, []bool{true}, stale)
}

func TestGoHome_DuringConfirmDelay(t *testing.T) {
	gw := (&fakeGateway{}).reply([]domain.Event{parade, opening}, nil)
	var ctrl *Controller
	ctrl = newController(t, gw, WithSleeper(func(time.Duration) {
		// the user bails out while the summary is on screen
		ctrl.GoHome(context.Background())
	}))
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))

	require.NoError(t, ctrl.SubmitText(ctx, "opening"))

	snap := ctrl.Snapshot()
	assert.Empty(t, snap.Transcript)
	assert.Equal(t, domain.ModeHome, snap.Mode)
	assert.False(t, snap.Busy)
}

func TestLifecycleHooks(t *testing.T) {
	var transitions []domain.TransitionEvent
	var queries []domain.QueryEvent
	hooks := domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) { transitions = append(transitions, *e) },
		OnQuery:      func(ctx context.Context, e *domain.QueryEvent) { queries = append(queries, *e) },
	}
	gw := (&fakeGateway{}).reply([]domain.Event{opening}, nil)
	ctrl := newController(t, gw, WithLifecycleHooks(hooks))
	ctx := context.Background()

	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
	require.NoError(t, ctrl.SubmitText(ctx, "Opening Ceremony"))
	ctrl.GoHome(ctx)

	require.Len(t, transitions, 3)
	assert.Equal(t, domain.GestureSelectCategory, transitions[0].Gesture)
	assert.Equal(t, domain.ModeSearchByEvent, transitions[0].To)
	assert.Equal(t, domain.GestureSubmitText, transitions[1].Gesture)
	assert.Equal(t, domain.ModeSearchByEvent, transitions[1].From)
	assert.Equal(t, domain.ModeHome, transitions[1].To)
	assert.Equal(t, domain.GestureGoHome, transitions[2].Gesture)

	require.Len(t, queries, 1)
	assert.Equal(t, domain.FlowEvents, queries[0].Flow)
	assert.Equal(t, 1, queries[0].Results)
	assert.NoError(t, queries[0].Err)
	assert.False(t, queries[0].Stale)
}

func TestSnapshot_IsACopy(t *testing.T) {
	gw := (&fakeGateway{}).reply([]domain.Event{parade, opening}, nil)
	ctrl := newController(t, gw)
	ctx := context.Background()
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
	require.NoError(t, ctrl.SubmitText(ctx, "opening"))

	snap := ctrl.Snapshot()
	snap.Transcript[0].Body = "mutated"
	snap.Candidates[0].Name = "mutated"

	again := ctrl.Snapshot()
	assert.Equal(t, "Events", again.Transcript[0].Body)
	assert.Equal(t, "Opening Parade", again.Candidates[0].Name)
}

func TestSnapshot_GenerationTracksResets(t *testing.T) {
	gw := (&fakeGateway{}).reply([]domain.Event{opening}, nil)
	ctrl := newController(t, gw)
	ctx := context.Background()

	start := ctrl.Snapshot().Generation
	require.NoError(t, ctrl.SelectCategory(ctx, domain.CategoryEvents))
	afterCategory := ctrl.Snapshot().Generation
	assert.NotEqual(t, start, afterCategory)

	require.NoError(t, ctrl.SubmitText(ctx, "opening"))
	assert.Equal(t, afterCategory, ctrl.Snapshot().Generation, "a reply is not a reset")

	ctrl.GoHome(ctx)
	assert.NotEqual(t, afterCategory, ctrl.Snapshot().Generation)
}
