package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stacmcp/internal/estimate"
)

var (
	estimateCollections []string
	estimateBBox        []float64
	estimateDatetime    string
	estimateQuery       string
	estimateLimit       int
	estimateMetaOnly    bool
	estimateJSON        bool
	estimateConfigPath  string
	estimateDebug       bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the download size of STAC items matching a query",
	Long: `Runs one data-size estimation against the configured catalog and prints
the result, without transferring any pixel data. The same estimation engine
backs the estimate_data_size MCP tool.

Example:
  stacmcp estimate --collections sentinel-2-l2a \
    --bbox=-105.3,39.9,-105.1,40.1 --datetime 2024-06-01/2024-06-30`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func runEstimate(cmd *cobra.Command, args []string) error {
	if len(estimateCollections) == 0 {
		return fmt.Errorf("at least one --collections value is required")
	}
	if len(estimateBBox) != 0 && len(estimateBBox) != 4 {
		return fmt.Errorf("--bbox needs exactly 4 values: west,south,east,north")
	}

	var query map[string]interface{}
	if estimateQuery != "" {
		if err := json.Unmarshal([]byte(estimateQuery), &query); err != nil {
			return fmt.Errorf("parsing --query: %w", err)
		}
	}

	cfg, err := loadConfig(estimateConfigPath, estimateDebug)
	if err != nil {
		return err
	}
	_, estimator := buildEstimator(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := estimator.Estimate(ctx, estimate.Request{
		Collections:       estimateCollections,
		BBox:              estimateBBox,
		Datetime:          estimateDatetime,
		Query:             query,
		Limit:             estimateLimit,
		ForceMetadataOnly: estimateMetaOnly,
	})
	if err != nil {
		return fmt.Errorf("estimation failed: %w", err)
	}

	if estimateJSON {
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	}

	printReportTables(report)
	return nil
}

func printReportTables(report *estimate.Report) {
	summary := table.NewWriter()
	summary.SetOutputMirror(os.Stdout)
	summary.SetStyle(table.StyleLight)
	summary.AppendHeader(table.Row{"Field", "Value"})
	summary.AppendRows([]table.Row{
		{"Items analyzed", report.ItemCount},
		{"Estimated size", fmt.Sprintf("%.2f MB (%.4f GB)", report.EstimatedMB, report.EstimatedGB)},
		{"Collections", strings.Join(report.Collections, ", ")},
	})
	if report.SensorNativeMB != nil {
		summary.AppendRow(table.Row{"Sensor-native size", fmt.Sprintf("%.2f MB", *report.SensorNativeMB)})
	}
	if len(report.BBoxUsed) == 4 {
		bbox := fmt.Sprintf("[%g, %g, %g, %g]", report.BBoxUsed[0], report.BBoxUsed[1], report.BBoxUsed[2], report.BBoxUsed[3])
		if report.ClippedToAOI {
			bbox += " (clipped to AOI)"
		}
		summary.AppendRow(table.Row{"Bounding box", bbox})
	}
	if report.TemporalExtent != "" {
		summary.AppendRow(table.Row{"Temporal extent", report.TemporalExtent})
	}
	summary.Render()

	if len(report.Variables) > 0 {
		vars := table.NewWriter()
		vars.SetOutputMirror(os.Stdout)
		vars.SetStyle(table.StyleLight)
		vars.AppendHeader(table.Row{"Variable", "Shape", "Dtype", "Size (MB)", "Native dtype"})
		for _, v := range report.Variables {
			native := ""
			if v.SensorNativeRecommended {
				native = v.SensorNativeDtype
			}
			vars.AppendRow(table.Row{v.Variable, fmt.Sprintf("%v", v.Shape), v.Dtype, fmt.Sprintf("%.2f", v.EstimatedMB), native})
		}
		vars.Render()
	}

	if len(report.Assets) > 0 {
		assets := table.NewWriter()
		assets.SetOutputMirror(os.Stdout)
		assets.SetStyle(table.StyleLight)
		assets.AppendHeader(table.Row{"Asset", "Media type", "Size (MB)", "Method"})
		for _, a := range report.Assets {
			assets.AppendRow(table.Row{a.Asset, a.MediaType, fmt.Sprintf("%.2f", a.EstimatedMB), a.Method})
		}
		assets.Render()
	}

	fmt.Println()
	fmt.Println(report.Message)
}

func init() {
	estimateCmd.Flags().StringSliceVar(&estimateCollections, "collections", nil, "Collection IDs to estimate over (required)")
	estimateCmd.Flags().Float64SliceVar(&estimateBBox, "bbox", nil, "Bounding box west,south,east,north")
	estimateCmd.Flags().StringVar(&estimateDatetime, "datetime", "", "Datetime or interval filter (RFC 3339 or start/end)")
	estimateCmd.Flags().StringVar(&estimateQuery, "query", "", "STAC query extension filter as JSON")
	estimateCmd.Flags().IntVar(&estimateLimit, "limit", 0, "Maximum number of items to analyze (default 10)")
	estimateCmd.Flags().BoolVar(&estimateMetaOnly, "force-metadata-only", false, "Use only asset metadata and HEAD probes")
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "Print the raw JSON report")
	estimateCmd.Flags().StringVar(&estimateConfigPath, "config-path", "", "Configuration directory (default ~/.config/stacmcp)")
	estimateCmd.Flags().BoolVar(&estimateDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(estimateCmd)
}
