// Package validator checks a directory of event documents before it is served.
package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/festbot/pkg/adapters/loam"
	"github.com/aretw0/festbot/pkg/domain"
	loamlib "github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

// ValidateCatalog reports documents the chat could not present correctly:
// missing names, colliding IDs, unreadable timestamps and events ending
// before they start. It returns the number of valid events.
func ValidateCatalog(ctx context.Context, repo core.Repository) (int, error) {
	typedRepo := loamlib.NewTypedRepository[loam.EventMetadata](repo)

	docs, err := typedRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}

	var errors []string
	for _, doc := range docs {
		if strings.TrimSpace(doc.Data.Name) == "" {
			errors = append(errors, fmt.Sprintf("'%s': missing name", doc.ID))
		}
	}

	// Collisions abort the conversion, so they are reported alone.
	events, err := loam.New(typedRepo).Events(ctx)
	if err != nil {
		return 0, err
	}

	for _, e := range events {
		errors = append(errors, checkEvent(e)...)
	}

	if len(errors) > 0 {
		return 0, fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return len(events), nil
}

func checkEvent(e domain.Event) []string {
	var errs []string
	start, hasStart := domain.ParseTimestamp(e.StartTime)
	end, hasEnd := domain.ParseTimestamp(e.EndTime)

	if e.StartTime != "" && !hasStart {
		errs = append(errs, fmt.Sprintf("'%s': unreadable start_time %q", e.ID, e.StartTime))
	}
	if e.EndTime != "" && !hasEnd {
		errs = append(errs, fmt.Sprintf("'%s': unreadable end_time %q", e.ID, e.EndTime))
	}
	if e.StartTime == "" && e.EndTime != "" {
		errs = append(errs, fmt.Sprintf("'%s': end_time without start_time", e.ID))
	}
	if hasStart && hasEnd && end.Before(start) {
		errs = append(errs, fmt.Sprintf("'%s': ends before it starts", e.ID))
	}
	return errs
}
