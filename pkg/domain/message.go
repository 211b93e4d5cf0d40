package domain

import (
	"slices"
	"time"
)

// Role identifies the speaker of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Affordances are the interactive options attached to an assistant entry.
// They are only interactable while the entry is the live one (see Transcript.Live).
type Affordances struct {
	FreeText    bool    `json:"free_text,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
	YesNo       bool    `json:"yes_no,omitempty"`
	ReturnHome  bool    `json:"return_home,omitempty"`
	Options     []Event `json:"options,omitempty"`
}

// Empty reports whether no affordance is offered.
func (a Affordances) Empty() bool {
	return !a.FreeText && !a.YesNo && !a.ReturnHome && len(a.Options) == 0
}

// HasOption reports whether an event with the given ID is among the options.
func (a Affordances) HasOption(id string) bool {
	return slices.ContainsFunc(a.Options, func(e Event) bool { return e.ID == id })
}

// OptionIndex locates e among the options, or returns -1.
// An identical record wins; otherwise a non-empty ID identifies the option.
// Records without an ID can only be picked by value.
func (a Affordances) OptionIndex(e Event) int {
	if i := slices.Index(a.Options, e); i >= 0 {
		return i
	}
	if e.ID == "" {
		return -1
	}
	return slices.IndexFunc(a.Options, func(o Event) bool { return o.ID == e.ID })
}

func (a Affordances) clone() Affordances {
	a.Options = slices.Clone(a.Options)
	return a
}

// Message is one turn of the conversation.
type Message struct {
	Role        Role        `json:"role"`
	Body        string      `json:"body"`
	CreatedAt   time.Time   `json:"created_at"`
	Affordances Affordances `json:"affordances"`
}

// Transcript is the append-only history of the conversation.
type Transcript []Message

// Live returns the affordances of the latest entry when it is an assistant entry.
func (t Transcript) Live() (Affordances, bool) {
	if len(t) == 0 {
		return Affordances{}, false
	}
	last := t[len(t)-1]
	if last.Role != RoleAssistant {
		return Affordances{}, false
	}
	return last.Affordances, true
}

// IsLive reports whether the affordances of entry i can still be interacted with.
func (t Transcript) IsLive(i int) bool {
	return i == len(t)-1 && i >= 0 && t[i].Role == RoleAssistant
}

// Clone returns a deep copy, so callers cannot mutate history through shared slices.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	for i, m := range t {
		m.Affordances = m.Affordances.clone()
		out[i] = m
	}
	return out
}
