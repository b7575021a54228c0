// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/report"
)

func printShareTable(w io.Writer, t *report.ShareTable) {
	fmt.Fprintf(w, "\n%s mode share\n", t.Purpose)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "mode\t%s\tTotal\tShare\t\n", strings.Join(t.Segments, "\t"))
	for _, r := range t.Rows {
		fmt.Fprintf(tw, "%s\t", r.Mode)
		for _, seg := range t.Segments {
			fmt.Fprintf(tw, "%.1f\t", r.BySegment[seg])
		}
		fmt.Fprintf(tw, "%.1f\t%.2f%%\t\n", r.Total, 100*r.Share)
	}
	tw.Flush()
}

func printTravel(w io.Writer, travel map[string]*report.Travel) {
	metrics := make([]string, 0, len(travel))
	for m := range travel {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)
	for _, m := range metrics {
		t := travel[m]
		fmt.Fprintf(w, "\n%s total: %.1f\n", m, t.Total)
		if len(t.Groups) == 0 {
			continue
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "group\tProduction\tAttraction\t")
		for _, g := range t.GroupNames() {
			fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t\n", g, t.Groups[g].Production, t.Groups[g].Attraction)
		}
		tw.Flush()
	}
}

func printCategories(w io.Writer, c *report.Categories) {
	fmt.Fprintln(w, "\nmode categories")
	for _, cat := range mode.Categories {
		fmt.Fprintf(w, "  %-15s %6.2f%%\n", cat, 100*c.Share[cat])
	}
}

func printRidership(w io.Writer, r *report.Ridership) {
	fmt.Fprintf(w, "\ntransit ridership: %.1f (PK %.1f, OP %.1f)\n",
		r.Total, r.ByPeriod[mode.Peak], r.ByPeriod[mode.OffPeak])
}
