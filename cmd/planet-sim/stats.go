package main

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"planet-lod/internal/planet"
)

// statsTable renders the active chunk count of every face per depth.
func statsTable(stats []planet.FaceStats) string {
	depths := 0
	for _, s := range stats {
		depths = max(depths, len(s.ActiveByDepth))
	}

	header := []string{"Face"}
	for d := range depths {
		header = append(header, "d"+strconv.Itoa(d))
	}
	header = append(header, "Active", "Splits", "Merges")

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader(header)

	totals := make([]int, depths)
	var active, splits, merges int
	for _, s := range stats {
		row := []string{s.Face}
		for d := range depths {
			n := 0
			if d < len(s.ActiveByDepth) {
				n = s.ActiveByDepth[d]
			}
			totals[d] += n
			row = append(row, strconv.Itoa(n))
		}
		row = append(row,
			strconv.Itoa(s.Active()),
			strconv.Itoa(s.PendingSplits),
			strconv.Itoa(s.PendingMerges),
		)
		table.Append(row)

		active += s.Active()
		splits += s.PendingSplits
		merges += s.PendingMerges
	}

	footer := []string{"TOTAL"}
	for _, n := range totals {
		footer = append(footer, strconv.Itoa(n))
	}
	footer = append(footer, fmt.Sprint(active), fmt.Sprint(splits), fmt.Sprint(merges))
	table.SetFooter(footer)

	table.Render()
	return buf.String()
}
