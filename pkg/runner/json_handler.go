package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/festbot/pkg/domain"
)

// Record is one JSON line written by the JSONHandler.
type Record struct {
	Kind    string              `json:"kind"`
	Message *domain.Message     `json:"message,omitempty"`
	Live    *domain.Affordances `json:"live,omitempty"`
	Menu    []string            `json:"menu,omitempty"`
	Mode    string              `json:"mode,omitempty"`
	Text    string              `json:"text,omitempty"`
}

// Record kinds.
const (
	KindMessage = "message"
	KindPrompt  = "prompt"
	KindSignal  = "signal"
	KindSystem  = "system"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Encoder   *json.Encoder
	Sanitizer Sanitizer
}

// JSONHandlerOption defines configuration for JSONHandler.
type JSONHandlerOption func(*JSONHandler)

// WithJSONHandlerMaxInput sets the size limit of one input line in bytes.
func WithJSONHandlerMaxInput(maxBytes int) JSONHandlerOption {
	return func(h *JSONHandler) {
		h.Sanitizer = NewSanitizer(maxBytes)
	}
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer, opts ...JSONHandlerOption) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Output emits one record per new entry, then a prompt record.
func (h *JSONHandler) Output(ctx context.Context, turn Turn) error {
	for i := range turn.Messages {
		if err := h.Encoder.Encode(Record{Kind: KindMessage, Message: &turn.Messages[i]}); err != nil {
			return err
		}
	}

	prompt := Record{Kind: KindPrompt, Live: &turn.Live, Mode: turn.Mode.String()}
	for _, c := range turn.Menu {
		prompt.Menu = append(prompt.Menu, c.String())
	}
	return h.Encoder.Encode(prompt)
}

// Input reads a line holding either a JSON string or plain text.
// A rejected line is reported as a system record and the next one is read.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || text == "") {
			return "", err
		}
		text = strings.TrimSpace(text)

		var val string
		if err := json.Unmarshal([]byte(text), &val); err == nil {
			text = val
		}

		clean, err := h.Sanitizer.Clean(text)
		if err != nil {
			if err := h.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err)); err != nil {
				return "", err
			}
			continue
		}
		return clean, nil
	}
}

func (h *JSONHandler) Signal(ctx context.Context, name string) error {
	return h.Encoder.Encode(Record{Kind: KindSignal, Text: name})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Record{Kind: KindSystem, Text: msg})
}
