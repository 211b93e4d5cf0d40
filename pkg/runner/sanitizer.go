package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputBytes bounds one line of user input when nothing is configured.
const DefaultMaxInputBytes = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer guards free text on its way into a search: chat lines, the
// query service body and MCP tool arguments all pass through one.
type Sanitizer struct {
	// MaxBytes rejects longer input. Zero or less means DefaultMaxInputBytes.
	MaxBytes int
}

// NewSanitizer creates a Sanitizer with the given size limit.
func NewSanitizer(maxBytes int) Sanitizer {
	return Sanitizer{MaxBytes: maxBytes}
}

// Limit returns the effective size limit in bytes.
func (s Sanitizer) Limit() int {
	if s.MaxBytes <= 0 {
		return DefaultMaxInputBytes
	}
	return s.MaxBytes
}

// Clean rejects oversized or malformed input and drops control characters
// other than newline, tab and carriage return. Input is never truncated.
func (s Sanitizer) Clean(input string) (string, error) {
	if limit := s.Limit(); len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

// unsafeControl matches ESC, NUL, BEL and the like, which would corrupt
// the terminal or the logs.
func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
