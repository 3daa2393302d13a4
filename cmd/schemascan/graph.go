package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/schemascan/app"
	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/service"
)

var (
	graphOutputFormat  string
	graphOutputPath    string
	graphConfigPath    string
	graphExclude       []string
	graphIncludeSystem bool
	graphNoLegend      bool
	graphNoFieldLabels bool
	graphNoClusters    bool
	graphHideIsolated  bool
	graphRankDir       string
)

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [schema]",
		Short: "Export the relation graph",
		Long: `Export the schema's relation graph for visualization.

Supports multiple output formats:
  - dot:  Graphviz DOT format with cycles clustered
  - json: nodes, edges, dangling references and cycle classification

Examples:
  # Generate DOT and render with Graphviz
  schemascan graph schema.yaml > relations.dot
  dot -Tpng relations.dot -o relations.png

  # Pipe directly to Graphviz
  schemascan graph schema.yaml | dot -Tsvg -o relations.svg

  # Top-to-bottom layout without the legend
  schemascan graph --rank-dir TB --no-legend schema.yaml

  # JSON for programmatic use
  schemascan graph --format json schema.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGraph,
	}

	cmd.Flags().StringVarP(&graphOutputFormat, "format", "f", "dot",
		"Output format: dot, json")
	cmd.Flags().StringVarP(&graphOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&graphConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringSliceVar(&graphExclude, "exclude", nil,
		"Entity name patterns to leave out (gitignore syntax)")
	cmd.Flags().BoolVar(&graphIncludeSystem, "include-system", false,
		"Include platform-internal entities")
	cmd.Flags().BoolVar(&graphNoLegend, "no-legend", false,
		"Disable legend in DOT output")
	cmd.Flags().BoolVar(&graphNoFieldLabels, "no-field-labels", false,
		"Do not label edges with field names")
	cmd.Flags().BoolVar(&graphNoClusters, "no-clusters", false,
		"Do not group cycles in clusters")
	cmd.Flags().BoolVar(&graphHideIsolated, "hide-isolated", false,
		"Leave out entities without relations")
	cmd.Flags().StringVar(&graphRankDir, "rank-dir", "LR",
		"Layout direction for DOT: TB, LR, BT, RL")

	return cmd
}

// graphExport is the JSON shape of the graph command
type graphExport struct {
	Graph  *domain.RelationGraph `json:"graph"`
	Cycles *domain.CycleAnalysis `json:"cycles"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	schemaArgPath := schemaArg(args)

	overrides := &service.ConfigOverrides{ExcludeEntities: graphExclude}
	if cmd.Flags().Changed("include-system") {
		overrides.IncludeSystem = &graphIncludeSystem
	}
	cfg, err := loadCommandConfig(graphConfigPath, schemaArgPath, overrides)
	if err != nil {
		return err
	}

	schemaPath, err := app.NewFileHelper().ResolveSchemaPath(schemaArgPath)
	if err != nil {
		return domain.NewFileNotFoundError(schemaArgPath, err)
	}
	schema, err := service.NewSchemaLoader().LoadFile(schemaPath)
	if err != nil {
		return err
	}

	graph, cycles, err := service.AnalyzeRelations(cfg, schema)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if graphOutputPath != "" {
		file, err := os.Create(graphOutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	switch domain.OutputFormat(graphOutputFormat) {
	case domain.OutputFormatDOT:
		formatter := service.NewDOTFormatter(&service.DOTFormatterConfig{
			ClusterCycles:   !graphNoClusters,
			ShowLegend:      !graphNoLegend,
			ShowFieldLabels: !graphNoFieldLabels,
			HideIsolated:    graphHideIsolated,
			RankDir:         graphRankDir,
		})
		return formatter.WriteRelationGraph(graph, cycles, out)
	case domain.OutputFormatJSON:
		return service.WriteJSON(out, graphExport{Graph: graph, Cycles: cycles})
	default:
		return fmt.Errorf("unsupported graph format: %s (use dot or json)", graphOutputFormat)
	}
}
