package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

var csvHeader = []string{
	"stream", "scheme", "source_sent", "source_lost", "repair_sent", "repair_lost",
	"recovered", "unrecovered", "unused_repair", "errors", "duration_ms",
}

func writeCSV(w io.Writer, results []*StreamResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write([]string{
			strconv.Itoa(r.Stream),
			r.Scheme,
			strconv.Itoa(r.SourceSent),
			strconv.Itoa(r.SourceLost),
			strconv.Itoa(r.RepairSent),
			strconv.Itoa(r.RepairLost),
			strconv.Itoa(r.Recovered),
			strconv.Itoa(r.Unrecovered),
			strconv.Itoa(r.UnusedRepair),
			strconv.Itoa(r.Errors),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSummary(w io.Writer, results []*StreamResult) error {
	var total StreamResult
	for _, r := range results {
		total.SourceSent += r.SourceSent
		total.SourceLost += r.SourceLost
		total.RepairSent += r.RepairSent
		total.RepairLost += r.RepairLost
		total.Recovered += r.Recovered
		total.Unrecovered += r.Unrecovered
		total.UnusedRepair += r.UnusedRepair
		total.Errors += r.Errors
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "streams\t%d\n", len(results))
	fmt.Fprintf(tw, "source symbols\t%d sent\t%d lost\n", total.SourceSent, total.SourceLost)
	fmt.Fprintf(tw, "repair symbols\t%d sent\t%d lost\t%d unused\n", total.RepairSent, total.RepairLost, total.UnusedRepair)
	fmt.Fprintf(tw, "recovered\t%d\t%.2f%%\n", total.Recovered, 100*total.RecoveryRatio())
	fmt.Fprintf(tw, "unrecovered\t%d\n", total.Unrecovered)
	if total.Errors > 0 {
		fmt.Fprintf(tw, "errors\t%d\n", total.Errors)
	}
	return tw.Flush()
}
