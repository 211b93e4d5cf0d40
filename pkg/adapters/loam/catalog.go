// Package loam reads the event catalog from a directory of documents.
//
// Each markdown file carries the event fields in its YAML front matter and
// the free-form notes in its body:
//
//	---
//	name: Opening Ceremony
//	linked_space: Main Stage
//	start_time: 2025-06-01T18:00:00Z
//	---
//	Bring a jacket.
//
// JSON and YAML documents are accepted as well.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
	"github.com/aretw0/loam"
)

// Catalog adapts a Loam repository to ports.RecordSource.
type Catalog struct {
	Repo *loam.TypedRepository[EventMetadata]
}

var _ ports.RecordSource = (*Catalog)(nil)

// New creates a catalog over an existing typed repository.
func New(repo *loam.TypedRepository[EventMetadata]) *Catalog {
	return &Catalog{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across adapters.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[EventMetadata](repo)), nil
}

// Events lists every document as an event. Documents without a name are skipped.
func (c *Catalog) Events(ctx context.Context) ([]domain.Event, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	events := make([]domain.Event, 0, len(docs))
	for _, doc := range docs {
		meta := doc.Data
		name := strings.TrimSpace(meta.Name)
		if name == "" {
			continue
		}

		id := text(meta.ID)
		if id == "" {
			id = trimExtension(doc.ID)
		}
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		events = append(events, domain.Event{
			ID:           id,
			Name:         name,
			LinkedSpace:  meta.LinkedSpace,
			StartTime:    text(meta.StartTime),
			EndTime:      text(meta.EndTime),
			Owner:        meta.Owner,
			Notes:        strings.TrimSpace(doc.Content),
			Programme:    meta.Programme,
			Workstream:   meta.Workstream,
			Source:       meta.Source,
			Type:         meta.Type,
			Tags:         text(meta.Tags),
			Dependencies: text(meta.Dependencies),
		})
	}
	return events, nil
}

// FetchAll implements ports.RecordSource.
func (c *Catalog) FetchAll(ctx context.Context) ([]domain.Event, error) {
	return c.Events(ctx)
}

// text renders a loosely typed front matter value.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(x, ", ")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
