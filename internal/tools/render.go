package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"stacmcp/internal/estimate"
	"stacmcp/internal/stac"
)

func wantsJSON(args map[string]interface{}) bool {
	return strings.EqualFold(stringArg(args, "output_format"), "json")
}

// jsonResult marshals the payload as an indented JSON text result. The same
// numeric values flow through both output formats; only the framing differs.
func jsonResult(payload interface{}) (*CallToolResult, error) {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to encode response: %v", err)), nil
	}
	return textResult(string(encoded)), nil
}

func renderRootText(catalogURL string, root *stac.RootDocument) string {
	var b strings.Builder
	title := root.Title
	if title == "" {
		title = root.ID
	}
	fmt.Fprintf(&b, "STAC Catalog: %s\n", title)
	fmt.Fprintf(&b, "URL: %s\n", catalogURL)
	if root.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", root.Description)
	}
	fmt.Fprintf(&b, "Conformance classes: %d\n", len(root.ConformsTo))
	return b.String()
}

func conformsContains(conforms []string, check string) bool {
	for _, uri := range conforms {
		if strings.Contains(strings.ToLower(uri), strings.ToLower(check)) {
			return true
		}
	}
	return false
}

func renderConformanceText(conforms []string, check string) string {
	var b strings.Builder
	if check != "" {
		if conformsContains(conforms, check) {
			fmt.Fprintf(&b, "Supported: %s\n\n", check)
		} else {
			fmt.Fprintf(&b, "NOT supported: %s\n\n", check)
		}
	}
	fmt.Fprintf(&b, "Declared conformance classes (%d):\n", len(conforms))
	for _, uri := range conforms {
		fmt.Fprintf(&b, "- %s\n", uri)
	}
	return b.String()
}

func renderCollectionsText(collections []stac.Collection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d collections:\n", len(collections))
	for _, c := range collections {
		if c.Title != "" && c.Title != c.ID {
			fmt.Fprintf(&b, "- %s: %s\n", c.ID, c.Title)
		} else {
			fmt.Fprintf(&b, "- %s\n", c.ID)
		}
	}
	return b.String()
}

func renderCollectionText(c *stac.Collection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Collection: %s\n", c.ID)
	if c.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", c.Title)
	}
	if c.License != "" {
		fmt.Fprintf(&b, "License: %s\n", c.License)
	}
	if c.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", c.Description)
	}
	return b.String()
}

func renderItemsText(items []stac.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d items:\n", len(items))
	for _, item := range items {
		line := item.ID
		if item.Collection != "" {
			line = fmt.Sprintf("%s (%s)", item.ID, item.Collection)
		}
		if ts := item.Datetime(); ts != nil {
			line = fmt.Sprintf("%s %s", line, ts.Format("2006-01-02"))
		}
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

func renderItemText(item *stac.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Item: %s\n", item.ID)
	if item.Collection != "" {
		fmt.Fprintf(&b, "Collection: %s\n", item.Collection)
	}
	if ts := item.Datetime(); ts != nil {
		fmt.Fprintf(&b, "Datetime: %s\n", ts.Format("2006-01-02T15:04:05Z07:00"))
	}
	if len(item.Assets) > 0 {
		names := make([]string, 0, len(item.Assets))
		for name := range item.Assets {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "Assets (%d): %s\n", len(names), strings.Join(names, ", "))
	}
	return b.String()
}

func renderQueryablesText(collectionID string, queryables map[string]interface{}) string {
	var b strings.Builder
	if collectionID != "" {
		fmt.Fprintf(&b, "Queryables for collection %s (%d):\n", collectionID, len(queryables))
	} else {
		fmt.Fprintf(&b, "Catalog queryables (%d):\n", len(queryables))
	}
	names := make([]string, 0, len(queryables))
	for name := range queryables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		line := name
		if spec, ok := queryables[name].(map[string]interface{}); ok {
			if typ, ok := spec["type"].(string); ok {
				line = fmt.Sprintf("%s (%s)", name, typ)
			}
		}
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

func renderAggregationsText(result *stac.AggregationResult) string {
	var b strings.Builder
	if !result.Supported {
		fmt.Fprintf(&b, "Aggregations not available: %s\n", result.Message)
		return b.String()
	}
	fmt.Fprintf(&b, "Aggregations (%d):\n", len(result.Aggregations))
	names := make([]string, 0, len(result.Aggregations))
	for name := range result.Aggregations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %v\n", name, result.Aggregations[name])
	}
	return b.String()
}

func renderReportText(report *estimate.Report) string {
	var b strings.Builder
	b.WriteString("**Data Size Estimation**\n\n")
	fmt.Fprintf(&b, "Items analyzed: %d\n", report.ItemCount)

	if report.ItemCount == 0 {
		fmt.Fprintf(&b, "\n%s\n", report.Message)
		return b.String()
	}

	fmt.Fprintf(&b, "Estimated size: %.2f MB (%.4f GB)\n", report.EstimatedMB, report.EstimatedGB)
	if report.SensorNativeMB != nil {
		fmt.Fprintf(&b, "Sensor-native size: %.2f MB\n", *report.SensorNativeMB)
	}
	if len(report.Collections) > 0 {
		fmt.Fprintf(&b, "Collections: %s\n", strings.Join(report.Collections, ", "))
	}
	if len(report.BBoxUsed) == 4 {
		fmt.Fprintf(&b, "Bounding box: [%g, %g, %g, %g]", report.BBoxUsed[0], report.BBoxUsed[1], report.BBoxUsed[2], report.BBoxUsed[3])
		if report.ClippedToAOI {
			b.WriteString(" (clipped to AOI)")
		}
		b.WriteString("\n")
	}
	if report.TemporalExtent != "" {
		fmt.Fprintf(&b, "Temporal extent: %s\n", report.TemporalExtent)
	}

	if len(report.Variables) > 0 {
		fmt.Fprintf(&b, "\nData variables (%d):\n", len(report.Variables))
		for _, v := range report.Variables {
			fmt.Fprintf(&b, "- %s %v %s: %.2f MB", v.Variable, v.Shape, v.Dtype, v.EstimatedMB)
			if v.SensorNativeRecommended {
				fmt.Fprintf(&b, " (sensor-native %s: %d bytes)", v.SensorNativeDtype, v.SensorNativeBytes)
			}
			b.WriteString("\n")
		}
	}
	if len(report.Assets) > 0 {
		fmt.Fprintf(&b, "\nAssets analyzed (%d):\n", len(report.Assets))
		for _, a := range report.Assets {
			fmt.Fprintf(&b, "- %s: %.2f MB (%s)\n", a.Asset, a.EstimatedMB, a.Method)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", report.Message)
	return b.String()
}
