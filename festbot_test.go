package festbot_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/festbot"
	httpAdapter "github.com/aretw0/festbot/pkg/adapters/http"
	"github.com/aretw0/festbot/pkg/adapters/memory"
	"github.com/aretw0/festbot/pkg/catalog"
	"github.com/aretw0/festbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func store() *memory.Store {
	return memory.NewStore(
		domain.Event{ID: "1", Name: "Opening Ceremony", LinkedSpace: "Main Stage", StartTime: "2025-06-01T18:00:00Z", EndTime: "2025-06-01T20:00:00Z"},
		domain.Event{ID: "2", Name: "Opening Parade", LinkedSpace: "High Street", StartTime: "2025-06-01T12:00:00Z"},
	)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(festbot.Version))
}

func TestNew_OverHTTP(t *testing.T) {
	s := store()
	srv := httptest.NewServer(httpAdapter.NewHandler(catalog.NewService(s), s))
	defer srv.Close()

	chat := festbot.New(srv.URL+"/api/query", festbot.WithConfirmDelay(0))
	ctx := context.Background()

	require.NoError(t, chat.SelectCategory(ctx, domain.CategoryEvents))
	require.NoError(t, chat.SubmitText(ctx, "Opening Ceremony"))

	snap := chat.Snapshot()
	assert.Equal(t, domain.ModeHome, snap.Mode)
	last := snap.Transcript[len(snap.Transcript)-1]
	assert.True(t, strings.HasPrefix(last.Body, "**Opening Ceremony**"))
	assert.Contains(t, last.Body, "**Time:** 06:00 PM – 08:00 PM")
	assert.True(t, last.Affordances.ReturnHome)
}

func TestNew_InProcessGateway(t *testing.T) {
	chat := festbot.New("", festbot.WithGateway(catalog.NewService(store()).Gateway()), festbot.WithConfirmDelay(0))
	ctx := context.Background()

	require.NoError(t, chat.SelectCategory(ctx, domain.CategoryLocation))
	require.NoError(t, chat.SubmitText(ctx, "opening"))

	snap := chat.Snapshot()
	assert.Equal(t, domain.ModeAwaitingSelection, snap.Mode)
	require.Len(t, snap.Candidates, 2)
	assert.Equal(t, "Opening Parade", snap.Candidates[0].Name)
	assert.True(t, snap.Transcript[len(snap.Transcript)-1].Affordances.YesNo)
}

func TestNew_UnreachableServiceApologizes(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	chat := festbot.New(url+"/api/query", festbot.WithConfirmDelay(0))
	ctx := context.Background()

	require.NoError(t, chat.SelectCategory(ctx, domain.CategoryDate))
	require.NoError(t, chat.SubmitText(ctx, "June 1"))

	snap := chat.Snapshot()
	last := snap.Transcript[len(snap.Transcript)-1]
	assert.Equal(t, "Sorry, something went wrong while searching. Please try again.", last.Body)
	assert.True(t, last.Affordances.FreeText)
	assert.Equal(t, domain.ModeSearchByDate, snap.Mode)
}
