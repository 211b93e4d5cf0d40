package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/festbot/pkg/domain"
)

// Overlay contains conversation state to highlight on the graph.
type Overlay struct {
	Visited []domain.Mode
	Current domain.Mode
}

// GenerateMermaid produces a Mermaid flowchart of the dialogue.
// It applies semantic styling:
// - Home: ((Circle))
// - Search modes: [/Parallelogram/] (free-text input)
// - Awaiting selection: {Rhombus}
// Returns to home are drawn dotted. Overlay styles are applied if provided.
func GenerateMermaid(edges []domain.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.Mode]bool)
	declare := func(m domain.Mode) {
		if declared[m] {
			return
		}
		declared[m] = true

		opener, closer := "[", "]"
		switch {
		case m == domain.ModeHome:
			opener, closer = "((", "))"
		case m.IsSearch():
			opener, closer = "[/", "/]"
		case m == domain.ModeAwaitingSelection:
			opener, closer = "{", "}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(m), opener, m, closer)
	}

	for _, e := range edges {
		declare(e.From)
		declare(e.To)
	}

	for _, e := range edges {
		label := string(e.Gesture)
		if e.Label != "" {
			label += ": " + e.Label
		}
		label = strings.ReplaceAll(label, "\"", "'")

		if e.Gesture == domain.GestureGoHome {
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", nodeID(e.From), label, nodeID(e.To))
			continue
		}
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(e.From), label, nodeID(e.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Mode]bool)
		for _, m := range overlay.Visited {
			if !seen[m] && m != overlay.Current {
				seen[m] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(m))
			}
		}
		fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
	}

	return sb.String()
}

func nodeID(m domain.Mode) string {
	return strings.ReplaceAll(m.String(), "-", "_")
}
