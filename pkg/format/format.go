// Package format renders events into the markdown bodies of transcript entries.
//
// Bodies use a minimal markup: text wrapped in a pair of double asterisks is
// emphasized, everything else is literal. Dates and times are always shown in
// UTC so every viewer sees the wall-clock the event is scheduled at.
package format

import (
	"fmt"
	"strings"

	"github.com/aretw0/festbot/pkg/domain"
)

// NotAvailable is rendered in place of a missing or unreadable timestamp.
const NotAvailable = "not available"

const (
	dateLayout = "January 2, 2006"
	timeLayout = "03:04 PM"
)

// Date renders the calendar date of an ISO timestamp, e.g. "June 1, 2025".
func Date(ts string) string {
	t, ok := domain.ParseTimestamp(ts)
	if !ok {
		return NotAvailable
	}
	return t.Format(dateLayout)
}

// Time renders the 12-hour clock value of an ISO timestamp, e.g. "06:00 PM".
func Time(ts string) string {
	t, ok := domain.ParseTimestamp(ts)
	if !ok {
		return NotAvailable
	}
	return t.Format(timeLayout)
}

// TimeRange renders "start – end".
func TimeRange(start, end string) string {
	return Time(start) + " – " + Time(end)
}

// Bold wraps s in the emphasis delimiters.
func Bold(s string) string {
	return "**" + s + "**"
}

// Detail renders the full detail block of an event.
// Lines for absent optional fields are omitted.
func Detail(e domain.Event) string {
	var b strings.Builder
	b.WriteString(Bold(e.Name))
	fmt.Fprintf(&b, "\n%s %s", Bold("Date:"), Date(e.StartTime))
	fmt.Fprintf(&b, "\n%s %s", Bold("Time:"), TimeRange(e.StartTime, e.EndTime))
	if e.LinkedSpace != "" {
		fmt.Fprintf(&b, "\n%s %s", Bold("Location:"), e.LinkedSpace)
	}
	if e.Programme != "" {
		fmt.Fprintf(&b, "\n%s %s", Bold("Programme:"), e.Programme)
	}
	if e.Workstream != "" {
		fmt.Fprintf(&b, "\n%s %s", Bold("Workstream:"), e.Workstream)
	}
	if notes := strings.TrimSpace(e.Notes); notes != "" {
		b.WriteString("\n\n")
		b.WriteString(notes)
	}
	return b.String()
}

// Bullet renders the one-line summary of a candidate: "- **name** at location on date".
func Bullet(e domain.Event) string {
	if e.LinkedSpace == "" {
		return fmt.Sprintf("- %s on %s", Bold(e.Name), Date(e.StartTime))
	}
	return fmt.Sprintf("- %s at %s on %s", Bold(e.Name), e.LinkedSpace, Date(e.StartTime))
}

// Summary renders the list of candidates returned by a search, preserving order.
func Summary(events []domain.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d events that match:\n", len(events))
	for _, e := range events {
		b.WriteString("\n")
		b.WriteString(Bullet(e))
	}
	return b.String()
}

// Echo is the text a user "says" when picking an event from a list.
// It doubles as the query of the details lookup.
func Echo(e domain.Event) string {
	return e.Name + " on " + Date(e.StartTime)
}
