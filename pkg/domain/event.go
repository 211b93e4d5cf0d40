package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is one festival event as exposed by the query service.
// Optional text fields use the empty string for "absent".
type Event struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LinkedSpace  string `json:"linked_space,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Owner        string `json:"owner,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Programme    string `json:"programme,omitempty"`
	Workstream   string `json:"workstream,omitempty"`
	Source       string `json:"source,omitempty"`
	Type         string `json:"type,omitempty"`
	Tags         string `json:"tags,omitempty"`
	Dependencies string `json:"dependencies,omitempty"`
}

// UnmarshalJSON accepts both string and numeric identifiers.
// Older deployments of the query service exposed the database serial as "id".
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid event id %s: %w", trimmed, err)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// Start returns the parsed start timestamp in UTC.
func (e Event) Start() (time.Time, bool) {
	return ParseTimestamp(e.StartTime)
}

// End returns the parsed end timestamp in UTC.
func (e Event) End() (time.Time, bool) {
	return ParseTimestamp(e.EndTime)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp and normalizes it to UTC.
// Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
