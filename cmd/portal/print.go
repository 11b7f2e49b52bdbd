package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/no-solace/ev-maintenance-system/internal/dashboard"
	"github.com/no-solace/ev-maintenance-system/internal/format"
)

type table struct {
	tw *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	fmt.Fprintln(t.tw, strings.Join(headers, "\t"))
	return t
}

func (t *table) row(cells ...interface{}) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

func printStats(out io.Writer, s dashboard.Stats) {
	fmt.Fprintf(out, "\nTổng cộng: %d, hoàn thành %s\n", s.Total, format.Percent(s.CompletionRate))
	for _, share := range s.ByStatus {
		fmt.Fprintf(out, "  %-24s %4d  %s\n", share.Label, share.Count, format.Percent(share.Percent))
	}
}
