package airtable

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Record is one row as returned by the list endpoint.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// Fields maps the table columns. Linked-record and multi-select columns
// arrive as lists and are joined with ", ".
type Fields struct {
	Name         string `mapstructure:"Name"`
	Source       string `mapstructure:"Source"`
	Workstream   string `mapstructure:"Workstream"`
	Programme    string `mapstructure:"Programme"`
	Type         string `mapstructure:"Type"`
	StartTime    string `mapstructure:"StartTime"`
	EndTime      string `mapstructure:"EndTime"`
	LinkedSpace  string `mapstructure:"LinkedSpace"`
	Dependencies string `mapstructure:"Dependencies"`
	Owner        string `mapstructure:"Owner"`
	Notes        string `mapstructure:"Notes"`
	Tags         string `mapstructure:"Tags"`
	PMOTracking  string `mapstructure:"PMO Tracking"`
	CreatedOn    string `mapstructure:"Created On"`
}

// Event decodes the record fields into an event.
func (r Record) Event() (domain.Event, error) {
	var f Fields
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       joinListHook,
		WeaklyTypedInput: true,
		Result:           &f,
	})
	if err != nil {
		return domain.Event{}, err
	}
	if err := dec.Decode(r.Fields); err != nil {
		return domain.Event{}, fmt.Errorf("failed to decode fields: %w", err)
	}

	return domain.Event{
		ID:           r.ID,
		Name:         strings.TrimSpace(f.Name),
		LinkedSpace:  f.LinkedSpace,
		StartTime:    NormalizeTime(f.StartTime),
		EndTime:      NormalizeTime(f.EndTime),
		Owner:        f.Owner,
		Notes:        f.Notes,
		Programme:    f.Programme,
		Workstream:   f.Workstream,
		Source:       f.Source,
		Type:         f.Type,
		Tags:         f.Tags,
		Dependencies: f.Dependencies,
	}, nil
}

// joinListHook flattens list values into comma separated strings.
func joinListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || (from.Kind() != reflect.Slice && from.Kind() != reflect.Array) {
		return data, nil
	}
	v := reflect.ValueOf(data)
	parts := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i).Interface()
		if item == nil {
			continue
		}
		parts = append(parts, fmt.Sprint(item))
	}
	return strings.Join(parts, ", "), nil
}

var timeLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"01/02/2006 15:04",
	"2006-01-02",
}

// NormalizeTime converts the date formats Airtable emits to RFC 3339 in UTC.
// Unrecognized values become the empty string.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}
