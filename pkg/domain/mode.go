package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Flow identifiers understood by the query service.
const (
	// FlowEvents is used for every free-text search, whatever category was picked.
	FlowEvents = "events"
	// FlowEventDetails looks up a single event from the text of a picked option.
	FlowEventDetails = "get_event_details"
)

// Mode is the active branch of the scripted dialogue.
type Mode int

const (
	ModeHome Mode = iota
	ModeSearchByEvent
	ModeSearchByLocation
	ModeSearchByDate
	ModeAwaitingSelection
)

func (m Mode) String() string {
	switch m {
	case ModeHome:
		return "home"
	case ModeSearchByEvent:
		return "search-by-event"
	case ModeSearchByLocation:
		return "search-by-location"
	case ModeSearchByDate:
		return "search-by-date"
	case ModeAwaitingSelection:
		return "awaiting-selection"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// IsSearch reports whether the mode accepts free-text search input.
func (m Mode) IsSearch() bool {
	return m == ModeSearchByEvent || m == ModeSearchByLocation || m == ModeSearchByDate
}

// Placeholder returns the hint shown with the free-text prompt of a search mode.
func (m Mode) Placeholder() string {
	switch m {
	case ModeSearchByEvent:
		return "e.g. Opening Ceremony"
	case ModeSearchByLocation:
		return "e.g. Main Stage"
	case ModeSearchByDate:
		return "e.g. July 19, 2025"
	default:
		return ""
	}
}

// Flow returns the query service flow identifier used by searches in this mode.
// Location and date searches share the generic identifier.
func (m Mode) Flow() string {
	return FlowEvents
}

// Category is a top-level search mode offered on the home menu.
type Category int

const (
	CategoryEvents Category = iota + 1
	CategoryLocation
	CategoryDate
)

// Categories lists the home menu entries in display order.
var Categories = []Category{CategoryEvents, CategoryLocation, CategoryDate}

func (c Category) String() string {
	switch c {
	case CategoryEvents:
		return "Events"
	case CategoryLocation:
		return "Location"
	case CategoryDate:
		return "Date"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Mode returns the flow mode entered when the category is picked.
func (c Category) Mode() Mode {
	switch c {
	case CategoryEvents:
		return ModeSearchByEvent
	case CategoryLocation:
		return ModeSearchByLocation
	case CategoryDate:
		return ModeSearchByDate
	default:
		return ModeHome
	}
}

// Prompt is the assistant question asked right after the category is picked.
func (c Category) Prompt() string {
	switch c {
	case CategoryEvents:
		return "Great! Which **event** are you looking for?"
	case CategoryLocation:
		return "Sure. Which **venue or space** are you interested in?"
	case CategoryDate:
		return "Which **date** would you like to explore?"
	default:
		return ""
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= CategoryEvents && c <= CategoryDate
}

// ParseCategory accepts a category label or its 1-based menu number, case-insensitive.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		c := Category(n)
		if c.Valid() {
			return c, nil
		}
		return 0, fmt.Errorf("unknown category %q", s)
	}
	for _, c := range Categories {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
