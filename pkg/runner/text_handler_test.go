package runner_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_RendererAndSanitizer(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewTextHandler(strings.NewReader("hi\x1b[31m there\n"), out,
		runner.WithTextHandlerRenderer(func(s string) (string, error) { return "Rendered: " + s, nil }),
		runner.WithTextHandlerNotice(func(s string) string { return "[" + s + "]" }),
	)

	err := h.Output(context.Background(), runner.Turn{
		Messages: []domain.Message{
			{Role: domain.RoleUser, Body: "typed"},
			{Role: domain.RoleAssistant, Body: "Hello"},
		},
		Live: domain.Affordances{ReturnHome: true},
	})
	require.NoError(t, err)
	require.NoError(t, h.Signal(context.Background(), runner.SignalSearching))

	assert.Equal(t, "Rendered: Hello\n"+runner.TextHomeHint+"\n["+runner.TextSearching+"]\n", out.String())

	line, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hi[31m there", line)
}

func TestTextHandler_Prompts(t *testing.T) {
	tests := []struct {
		name string
		turn runner.Turn
		want string
	}{
		{
			name: "home menu",
			turn: runner.Turn{Menu: domain.Categories, Live: domain.Affordances{ReturnHome: true}},
			want: runner.TextMenu + "\n  1) Events\n  2) Location\n  3) Date\n",
		},
		{
			name: "options",
			turn: runner.Turn{Live: domain.Affordances{Options: []domain.Event{
				{ID: "1", Name: "Jazz Night", StartTime: "2025-07-19T20:00:00Z"},
			}}},
			want: "  1) Jazz Night on July 19, 2025\n" + runner.TextPickHint + "\n",
		},
		{
			name: "yes or no",
			turn: runner.Turn{Live: domain.Affordances{YesNo: true}},
			want: runner.TextYesNo + "\n",
		},
		{
			name: "free text placeholder",
			turn: runner.Turn{Live: domain.Affordances{FreeText: true, Placeholder: "e.g. Main Stage"}},
			want: "(e.g. Main Stage)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			h := runner.NewTextHandler(strings.NewReader(""), out)
			require.NoError(t, h.Output(context.Background(), tt.turn))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestTextHandler_RepromptsOversizedLine(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewTextHandler(strings.NewReader("Riverside Tent\nSSH 3\n"), out,
		runner.WithTextHandlerMaxInput(8),
	)
	ctx := context.Background()

	line, err := h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SSH 3", line)
	assert.Contains(t, out.String(), runner.ErrInputTooLarge.Error())

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputHonorsCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	h := runner.NewTextHandler(pr, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
