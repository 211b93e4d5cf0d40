package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the festbot ASCII art banner followed by a tagline.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __          _   _           _   ", "#f59e0b"},
		{"  / _|___  ___| |_| |__   ___ | |_ ", "#f97316"},
		{" | |_/ _ \\/ __| __| '_ \\ / _ \\| __|", "#ef4444"},
		{" |  _  __/\\__ \\ |_| |_) | (_) | |_ ", "#ec4899"},
		{" |_|  \\___||___/\\__|_.__/ \\___/ \\__|", "#a855f7"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	tagline := "Festival events assistant"
	if v := strings.TrimSpace(version); v != "" {
		tagline += " " + v
	}
	fmt.Fprintln(w, termenv.String(tagline).Faint())
	fmt.Fprintln(w)
}

// Notice styles a system message such as the busy indicator.
func Notice(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String(msg).Foreground(p.Color("#a78bfa")).Italic().String()
}
