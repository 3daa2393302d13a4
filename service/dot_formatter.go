package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/version"
)

// DOTFormatterConfig configures the DOT formatter behavior
type DOTFormatterConfig struct {
	// ClusterCycles groups cycles in subgraphs
	ClusterCycles bool

	// ShowLegend includes a legend subgraph
	ShowLegend bool

	// ShowFieldLabels labels edges with the fields that induce them
	ShowFieldLabels bool

	// HideIsolated leaves out entities without any relation
	HideIsolated bool

	// RankDir is the layout direction: TB, LR, BT, RL
	RankDir string
}

// DefaultDOTFormatterConfig returns a DOTFormatterConfig with sensible defaults
func DefaultDOTFormatterConfig() *DOTFormatterConfig {
	return &DOTFormatterConfig{
		ClusterCycles:   true,
		ShowLegend:      true,
		ShowFieldLabels: true,
		HideIsolated:    false,
		RankDir:         "LR",
	}
}

// DOTFormatter formats relation graphs as DOT for Graphviz
type DOTFormatter struct {
	config *DOTFormatterConfig
}

// NewDOTFormatter creates a new DOT formatter with the given configuration
func NewDOTFormatter(config *DOTFormatterConfig) *DOTFormatter {
	if config == nil {
		config = DefaultDOTFormatterConfig()
	}
	return &DOTFormatter{config: config}
}

// nodeColors defines the color scheme for models and components
var nodeColors = map[bool]struct {
	fill   string
	border string
	shape  string
}{
	false: {fill: "#DDEEFF", border: "#336699", shape: "box"},
	true:  {fill: "#EEFFDD", border: "#669933", shape: "component"},
}

// edgeStyles defines the visual style for edges based on relation kind
var edgeStyles = map[domain.RelationKind]struct {
	style string
	arrow string
}{
	domain.RelationKindReference:   {style: "solid", arrow: "normal"},
	domain.RelationKindComposition: {style: "dashed", arrow: "diamond"},
}

// validRankDirs contains the valid Graphviz rank directions
var validRankDirs = map[string]bool{
	"TB": true, // Top to Bottom
	"LR": true, // Left to Right
	"BT": true, // Bottom to Top
	"RL": true, // Right to Left
}

// FormatRelationGraph formats a relation graph as DOT and returns the string
func (f *DOTFormatter) FormatRelationGraph(graph *domain.RelationGraph, cycles *domain.CycleAnalysis) (string, error) {
	var sb strings.Builder
	if err := f.WriteRelationGraph(graph, cycles, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteRelationGraph writes a relation graph as DOT to the writer. Cycle
// members are clustered and two-way references are drawn as one edge.
func (f *DOTFormatter) WriteRelationGraph(graph *domain.RelationGraph, cycles *domain.CycleAnalysis, writer io.Writer) error {
	if graph == nil {
		return fmt.Errorf("nil graph")
	}
	if !validRankDirs[f.config.RankDir] {
		return fmt.Errorf("invalid rank direction %q: must be one of TB, LR, BT, RL", f.config.RankDir)
	}
	if cycles == nil {
		cycles = &domain.CycleAnalysis{}
	}

	nodes := f.filterNodes(graph)
	fmt.Fprintf(writer, "/* schemascan Relation Graph - Generated: %s */\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(writer, "/* Version: %s */\n", version.GetVersion())
	fmt.Fprintln(writer, "digraph relations {")
	if len(nodes) == 0 {
		fmt.Fprintln(writer, "    /* No entities to draw */")
		fmt.Fprintln(writer, "}")
		return nil
	}
	fmt.Fprintf(writer, "    rankdir=%s;\n", f.config.RankDir)
	fmt.Fprintln(writer, "    node [style=filled, fontname=\"Helvetica\"];")
	fmt.Fprintln(writer, "    edge [fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(writer)

	// Cycle edges are consecutive members, including the closing edge
	cycleEdges := make(map[[2]string]bool)
	for _, c := range cycles.Cycles {
		for i, from := range c.Entities {
			cycleEdges[[2]string{from, c.Entities[(i+1)%len(c.Entities)]}] = true
		}
	}

	written := make(map[string]bool)
	if f.config.ClusterCycles {
		for i, c := range cycles.Cycles {
			fmt.Fprintf(writer, "    subgraph cluster_cycle_%d {\n", i)
			fmt.Fprintf(writer, "        label=\"Cycle: %s\";\n", escapeDOTLabel(CycleLabel(c)))
			fmt.Fprintln(writer, "        style=filled;")
			fmt.Fprintln(writer, "        fillcolor=\"#FFEEEE\";")
			fmt.Fprintln(writer, "        color=\"#DC143C\";")
			for _, name := range c.Entities {
				if written[name] || !nodes[name] {
					continue
				}
				f.writeNode(writer, graph.GetNode(name), "        ")
				written[name] = true
			}
			fmt.Fprintln(writer, "    }")
			fmt.Fprintln(writer)
		}
	}

	fmt.Fprintln(writer, "    // Entities")
	for _, name := range graph.Order {
		if written[name] || !nodes[name] {
			continue
		}
		f.writeNode(writer, graph.GetNode(name), "    ")
	}
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "    // Relations")
	f.writeEdges(writer, graph, cycles, cycleEdges)

	if f.config.ShowLegend {
		fmt.Fprintln(writer)
		f.writeLegend(writer)
	}

	fmt.Fprintln(writer, "}")
	return nil
}

// filterNodes returns the set of entities to draw
func (f *DOTFormatter) filterNodes(graph *domain.RelationGraph) map[string]bool {
	result := make(map[string]bool, len(graph.Order))
	for _, name := range graph.Order {
		if f.config.HideIsolated && len(graph.Neighbors(name)) == 0 && len(graph.ReferencedBy(name)) == 0 {
			continue
		}
		result[name] = true
	}
	return result
}

// writeNode writes a single node in DOT format
func (f *DOTFormatter) writeNode(writer io.Writer, node *domain.EntityNode, indent string) {
	if node == nil {
		return
	}
	colors := nodeColors[node.IsComponent]
	kind := "model"
	if node.IsComponent {
		kind = "component"
	}
	fmt.Fprintf(writer, "%s%s [label=\"%s\", shape=%s, fillcolor=\"%s\", color=\"%s\", tooltip=\"%s, %d fields\"];\n",
		indent, escapeDOTID(node.Name), escapeDOTLabel(node.Name),
		colors.shape, colors.fill, colors.border, kind, node.FieldCount)
}

// writeEdges writes one edge per connected pair in declaration order, then
// the dangling references
func (f *DOTFormatter) writeEdges(writer io.Writer, graph *domain.RelationGraph, cycles *domain.CycleAnalysis, cycleEdges map[[2]string]bool) {
	pairs := make(map[[2]string]bool, len(cycles.BidirectionalPairs))
	for _, p := range cycles.BidirectionalPairs {
		pairs[[2]string{p.A, p.B}] = true
	}

	for _, from := range graph.Order {
		for _, to := range graph.Neighbors(from) {
			// Two-way pairs are drawn once, from the smaller name
			if pairs[[2]string{to, from}] {
				continue
			}
			fields := graph.FieldsBetween(from, to)
			first := firstEdge(graph, from, to)

			style := edgeStyles[first.Kind]
			if style.style == "" {
				style = edgeStyles[domain.RelationKindReference]
			}
			fmt.Fprintf(writer, "    %s -> %s [style=%s, arrowhead=%s",
				escapeDOTID(from), escapeDOTID(to), style.style, style.arrow)

			if pairs[[2]string{from, to}] {
				fmt.Fprint(writer, ", dir=both, arrowtail=normal")
			}
			if cycleEdges[[2]string{from, to}] {
				fmt.Fprint(writer, ", penwidth=2, color=\"#DC143C\"")
			}
			if f.config.ShowFieldLabels {
				label := strings.Join(fields, ", ")
				if first.List {
					label += " []"
				}
				fmt.Fprintf(writer, ", label=\"%s\"", escapeDOTLabel(label))
			}
			fmt.Fprintln(writer, "];")
		}
	}

	for i, d := range graph.Dangling {
		missing := fmt.Sprintf("missing_%d", i)
		fmt.Fprintf(writer, "    %s [label=\"%s?\", shape=box, style=\"dashed\", color=\"#DC143C\", fontcolor=\"#DC143C\"];\n",
			missing, escapeDOTLabel(d.Target))
		fmt.Fprintf(writer, "    %s -> %s [style=dotted, color=\"#DC143C\", label=\"%s\"];\n",
			escapeDOTID(d.Entity), missing, escapeDOTLabel(d.Field))
	}
}

// firstEdge returns the first declared edge from -> to
func firstEdge(graph *domain.RelationGraph, from, to string) *domain.RelationEdge {
	for _, e := range graph.GetOutgoingEdges(from) {
		if e.To == to {
			return e
		}
	}
	return &domain.RelationEdge{From: from, To: to, Kind: domain.RelationKindReference}
}

// writeLegend writes the legend subgraph
func (f *DOTFormatter) writeLegend(writer io.Writer) {
	fmt.Fprintln(writer, "    // Legend")
	fmt.Fprintln(writer, "    subgraph cluster_legend {")
	fmt.Fprintln(writer, "        label=\"Legend\";")
	fmt.Fprintln(writer, "        style=filled;")
	fmt.Fprintln(writer, "        fillcolor=\"#F5F5F5\";")
	fmt.Fprintln(writer, "        color=\"#CCCCCC\";")
	fmt.Fprintln(writer, "        fontsize=10;")
	fmt.Fprintf(writer, "        legend_model [label=\"Model\", shape=%s, fillcolor=\"%s\", color=\"%s\"];\n",
		nodeColors[false].shape, nodeColors[false].fill, nodeColors[false].border)
	fmt.Fprintf(writer, "        legend_component [label=\"Component\", shape=%s, fillcolor=\"%s\", color=\"%s\"];\n",
		nodeColors[true].shape, nodeColors[true].fill, nodeColors[true].border)
	fmt.Fprintln(writer, "        legend_model -> legend_component [style=dashed, arrowhead=diamond, label=\"composition\"];")
	fmt.Fprintln(writer, "        legend_model -> legend_model [style=solid, arrowhead=normal, label=\"reference\"];")
	fmt.Fprintln(writer, "        legend_cycle_a [label=\"\", style=invis, width=0, height=0];")
	fmt.Fprintln(writer, "        legend_cycle_b [label=\"cycle\", style=invis, width=0, height=0];")
	fmt.Fprintln(writer, "        legend_cycle_a -> legend_cycle_b [penwidth=2, color=\"#DC143C\", label=\"cycle\"];")
	fmt.Fprintln(writer, "    }")
}

// escapeDOTID escapes a string for use as a DOT node ID
func escapeDOTID(id string) string {
	replacer := strings.NewReplacer(
		"/", "__",
		".", "_",
		"-", "_",
		"@", "_at_",
		" ", "_",
		":", "_",
		"(", "_",
		")", "_",
		"[", "_",
		"]", "_",
		"{", "_",
		"}", "_",
	)
	escaped := replacer.Replace(id)

	// Ensure it starts with a letter or underscore
	if len(escaped) > 0 && !isValidDOTIDStart(escaped[0]) {
		escaped = "_" + escaped
	}

	return escaped
}

// escapeDOTLabel escapes a string for use as a DOT label
func escapeDOTLabel(label string) string {
	// Note: backslash must be first to avoid double-escaping
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\r", "",
		"\t", "\\t",
	)
	return replacer.Replace(label)
}

// isValidDOTIDStart checks if a character can start a DOT ID
func isValidDOTIDStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
