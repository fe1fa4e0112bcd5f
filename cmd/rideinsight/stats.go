package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the aggregate snapshot of the loaded trips",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx, cancel := newContext()
	defer cancel()

	noAI = true
	app, lg, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	defer func() { _ = lg.Sync() }()

	snap := app.Store.QuickInsights()
	out := cmd.OutOrStdout()
	if statsFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Fprintf(out, "Source:            %s\n", app.Origin)
	fmt.Fprintf(out, "Trips:             %d\n", snap.TotalTrips)
	fmt.Fprintf(out, "Avg group size:    %.1f (median %.1f)\n", snap.AvgGroupSize, snap.MedianGroupSize)
	fmt.Fprintf(out, "Peak hour:         %02d:00\n", snap.PeakHour)
	fmt.Fprintf(out, "Large groups (%d+): %d (%.1f%%)\n", snap.LargeGroupThreshold, snap.LargeGroupsCount, snap.LargeGroupsPct)
	fmt.Fprintf(out, "Unique pickups:    %d\n", snap.UniquePickups)
	fmt.Fprintf(out, "Unique drop-offs:  %d\n", snap.UniqueDropoffs)
	fmt.Fprintln(out, "\nTop drop-offs:")
	for i, lc := range snap.TopDropoffs {
		fmt.Fprintf(out, "  %2d. %-40s %d\n", i+1, lc.Name, lc.Count)
	}
	return nil
}
