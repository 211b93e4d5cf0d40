package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/format"
	"github.com/aretw0/lifecycle"
)

// Text shown by the terminal handler.
const (
	TextMenu      = "What would you like to search by?"
	TextYesNo     = "(yes/no)"
	TextPickHint  = "Type a number to see the details."
	TextHomeHint  = "Type 'home' to start a new search."
	TextSearching = "Searching..."
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	source io.Reader
	// interactive is set when reading from the console device, where EOF
	// marks an interrupted read rather than the end of input.
	interactive bool
	Reader      *bufio.Reader
	Writer      io.Writer
	Renderer    ContentRenderer
	Sanitizer   Sanitizer
	// Notice decorates system messages, e.g. with terminal colors.
	Notice func(string) string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerNotice configures the decoration of system messages.
func WithTextHandlerNotice(notice func(string) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Notice = notice
	}
}

// WithTextHandlerMaxInput sets the size limit of one input line in bytes.
func WithTextHandlerMaxInput(maxBytes int) TextHandlerOption {
	return func(h *TextHandler) {
		h.Sanitizer = NewSanitizer(maxBytes)
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer: w,
	}
	h.source, h.interactive = resolveInputReader(r)
	h.Reader = bufio.NewReader(h.source)

	for _, opt := range opts {
		opt(h)
	}
	return h
}

// resolveInputReader swaps a terminal stdin for the console device lifecycle
// opens (CONIN$ on Windows), so Ctrl+C does not close the input stream.
func resolveInputReader(defaultReader io.Reader) (io.Reader, bool) {
	if r, err := lifecycle.UpgradeTerminal(defaultReader); err == nil && r != defaultReader {
		return r, true
	}
	return defaultReader, false
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			h.inputChan <- inputResult{err: err}
			close(h.inputChan)
			return
		}
		if !h.interactive {
			close(h.inputChan)
			return
		}
		// The console stays open after an interrupted read.
		h.inputChan <- inputResult{err: io.EOF}
		time.Sleep(50 * time.Millisecond)
	}
}

func (h *TextHandler) Output(ctx context.Context, turn Turn) error {
	for _, msg := range turn.Messages {
		// The user's own lines are already on screen.
		if msg.Role != domain.RoleAssistant {
			continue
		}
		h.print(msg.Body)
	}

	switch {
	case len(turn.Menu) > 0:
		var b strings.Builder
		b.WriteString(TextMenu)
		for i, c := range turn.Menu {
			fmt.Fprintf(&b, "\n  %d) %s", i+1, c)
		}
		fmt.Fprintln(h.Writer, b.String())
	case len(turn.Live.Options) > 0:
		for i, e := range turn.Live.Options {
			fmt.Fprintf(h.Writer, "  %d) %s\n", i+1, format.Echo(e))
		}
		fmt.Fprintln(h.Writer, TextPickHint)
	case turn.Live.YesNo:
		fmt.Fprintln(h.Writer, TextYesNo)
	case turn.Live.FreeText && turn.Live.Placeholder != "":
		fmt.Fprintf(h.Writer, "(%s)\n", turn.Live.Placeholder)
	}
	if turn.Live.ReturnHome && len(turn.Menu) == 0 {
		fmt.Fprintln(h.Writer, TextHomeHint)
	}
	return nil
}

func (h *TextHandler) print(body string) {
	output := body
	if h.Renderer != nil {
		if rendered, err := h.Renderer(body); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(h.Writer, strings.TrimSpace(output))
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := h.Sanitizer.Clean(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) Signal(ctx context.Context, name string) error {
	if name == SignalSearching {
		return h.SystemOutput(ctx, TextSearching)
	}
	return nil
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	if h.Notice != nil {
		msg = h.Notice(msg)
	}
	_, err := fmt.Fprintln(h.Writer, msg)
	return err
}
