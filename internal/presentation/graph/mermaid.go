package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/reactless/pkg/domain"
)

// Overlay selects which effects to highlight on the graph.
type Overlay struct {
	Effects bool
}

// GenerateMermaid produces a Mermaid flowchart of a fiber tree given in
// pre-order with depths, as returned by Engine.Inspect. It applies semantic styling:
// - Text: [/Parallelogram/]
// - Fragment: [[Subroutine]]
// - Default: [Rectangle]
// With an overlay, fibers are classed by the effect of the last commit.
func GenerateMermaid(infos []domain.FiberInfo, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// ancestors[d] is the id of the latest fiber seen at depth d
	var ancestors []string
	classes := make(map[domain.EffectTag][]string)

	for i, info := range infos {
		id := fmt.Sprintf("f%d", i)

		opener, closer := "[", "]"
		label := info.Type
		switch info.Type {
		case domain.TextElement:
			opener, closer = "[/", "/]"
			label = info.Props.NodeValue
		case domain.Fragment:
			opener, closer = "[[", "]]"
		default:
			if info.Props.ID != "" {
				label += "#" + info.Props.ID
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escapeLabel(label), closer)

		if info.Depth < len(ancestors) {
			ancestors = ancestors[:info.Depth]
		}
		if info.Depth > 0 && info.Depth <= len(ancestors) {
			fmt.Fprintf(&sb, "    %s --> %s\n", ancestors[info.Depth-1], id)
		}
		ancestors = append(ancestors, id)

		classes[info.Effect] = append(classes[info.Effect], id)
	}

	if overlay != nil && overlay.Effects {
		sb.WriteString("\n    %% Effect Styles\n")
		// Force black text (color:#000) for contrast on both light and dark themes
		sb.WriteString("    classDef placement fill:#dcfce7,stroke:#15803d,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef update fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		for _, effect := range []domain.EffectTag{domain.EffectPlacement, domain.EffectUpdate} {
			if ids := classes[effect]; len(ids) > 0 {
				fmt.Fprintf(&sb, "    class %s %s;\n", strings.Join(ids, ","), strings.ToLower(effect.String()))
			}
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
