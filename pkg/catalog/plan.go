package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/format"
)

// ErrUnknownFlow is returned for a flow identifier the service does not serve.
var ErrUnknownFlow = errors.New("unknown flow")

// Kind tells the client how to present a result.
type Kind string

const (
	KindList   Kind = "list"
	KindDetail Kind = "detail"
)

// Query is the search plan derived from a flow and free text.
type Query struct {
	Flow string
	Kind Kind
	// Keywords must each appear in at least one searchable field.
	Keywords []string
	// Phrase must appear in the name, programme or notes. Only set for detail lookups.
	Phrase string
	// Date restricts matches to one UTC calendar day. Zero means any day.
	Date  time.Time
	Limit int
}

// HasDate reports whether the plan filters by day.
func (q Query) HasDate() bool {
	return !q.Date.IsZero()
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "on": {}, "at": {}, "in": {}, "of": {}, "for": {},
	"and": {}, "or": {}, "to": {}, "is": {}, "are": {}, "any": {}, "all": {},
	"me": {}, "show": {}, "find": {}, "list": {}, "what": {}, "whats": {}, "what's": {}, "which": {},
	"event": {}, "events": {}, "happening": {}, "about": {}, "with": {}, "please": {},
	"i": {}, "want": {}, "looking": {}, "search": {}, "there": {},
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const monthPattern = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`

var (
	isoDate       = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayYear  = regexp.MustCompile(`\b` + monthPattern + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	dayMonthYear  = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `\.?(?:,?\s+(\d{4}))?\b`)
	relativeDay   = regexp.MustCompile(`\b(today|tonight|tomorrow)\b`)
	trailingOnDay = regexp.MustCompile(`\s+on\s*$`)
)

// Plan turns a flow identifier and free text into a search plan.
// Dates without a year fall in the year of now.
func Plan(flow, text string, now time.Time) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, domain.ErrEmptyInput
	}

	q := Query{Flow: flow}
	switch flow {
	case domain.FlowEvents:
		q.Kind = KindList
	case domain.FlowEventDetails:
		q.Kind = KindDetail
		q.Limit = 1
	default:
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownFlow, flow)
	}

	lower := strings.ToLower(text)
	if q.Kind == KindDetail {
		q.Phrase, q.Date = detailLookup(lower, now)
		return q, nil
	}

	date, rest, ok := extractDate(lower, now)
	if ok {
		q.Date = date
	}
	q.Keywords = keywords(rest)
	return q, nil
}

// detailLookup splits "<name> on <date>" at the last " on ". The name is
// matched as a whole phrase, so dates inside it are left alone. The suffix
// only counts when all of it is a date or the not-available marker.
func detailLookup(lower string, now time.Time) (string, time.Time) {
	lower = strings.TrimSpace(trailingOnDay.ReplaceAllString(lower, ""))
	i := strings.LastIndex(lower, " on ")
	if i < 0 {
		return lower, time.Time{}
	}
	name := strings.TrimSpace(lower[:i])
	suffix := strings.TrimSpace(lower[i+len(" on "):])
	if suffix == format.NotAvailable {
		return name, time.Time{}
	}
	if date, rest, ok := extractDate(suffix, now); ok && strings.Trim(rest, " ,.") == "" {
		return name, date
	}
	return lower, time.Time{}
}

// extractDate finds the first date expression in s and returns it with the
// expression removed from the text.
func extractDate(s string, now time.Time) (time.Time, string, bool) {
	if m := isoDate.FindStringSubmatchIndex(s); m != nil {
		y, _ := strconv.Atoi(s[m[2]:m[3]])
		mo, _ := strconv.Atoi(s[m[4]:m[5]])
		d, _ := strconv.Atoi(s[m[6]:m[7]])
		if t, ok := civil(y, time.Month(mo), d); ok {
			return t, cut(s, m[0], m[1]), true
		}
	}

	if m := monthDayYear.FindStringSubmatchIndex(s); m != nil {
		mo := months[s[m[2]:m[3]]]
		d, _ := strconv.Atoi(s[m[4]:m[5]])
		y := now.Year()
		if m[6] >= 0 {
			y, _ = strconv.Atoi(s[m[6]:m[7]])
		}
		if t, ok := civil(y, mo, d); ok {
			return t, cut(s, m[0], m[1]), true
		}
	}

	if m := dayMonthYear.FindStringSubmatchIndex(s); m != nil {
		d, _ := strconv.Atoi(s[m[2]:m[3]])
		mo := months[s[m[4]:m[5]]]
		y := now.Year()
		if m[6] >= 0 {
			y, _ = strconv.Atoi(s[m[6]:m[7]])
		}
		if t, ok := civil(y, mo, d); ok {
			return t, cut(s, m[0], m[1]), true
		}
	}

	if m := relativeDay.FindStringSubmatchIndex(s); m != nil {
		today := now.UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if s[m[2]:m[3]] == "tomorrow" {
			t = t.AddDate(0, 0, 1)
		}
		return t, cut(s, m[0], m[1]), true
	}

	return time.Time{}, s, false
}

// civil builds a UTC midnight, rejecting overflowing days such as February 30.
func civil(y int, m time.Month, d int) (time.Time, bool) {
	if m < time.January || m > time.December || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != m {
		return time.Time{}, false
	}
	return t, true
}

func cut(s string, from, to int) string {
	return s[:from] + " " + s[to:]
}

func keywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '&'
	})
	var out []string
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f == "" {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Match reports whether e satisfies the plan.
func (q Query) Match(e domain.Event) bool {
	if q.HasDate() {
		start, ok := e.Start()
		if !ok || !sameDay(start, q.Date) {
			return false
		}
	}

	if q.Phrase != "" && !containsAny([]string{
		strings.ToLower(e.Name),
		strings.ToLower(e.Programme),
		strings.ToLower(e.Notes),
	}, q.Phrase) {
		return false
	}

	if len(q.Keywords) == 0 {
		return true
	}
	haystack := []string{
		strings.ToLower(e.Name),
		strings.ToLower(e.Programme),
		strings.ToLower(e.Notes),
		strings.ToLower(e.Workstream),
		strings.ToLower(e.Owner),
		strings.ToLower(e.LinkedSpace),
	}
	for _, kw := range q.Keywords {
		if !containsAny(haystack, kw) {
			return false
		}
	}
	return true
}

func containsAny(fields []string, kw string) bool {
	for _, f := range fields {
		if strings.Contains(f, kw) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
