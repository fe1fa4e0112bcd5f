// README: Postgres import of a trip CSV export.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rideinsight/internal/infra"
	"rideinsight/internal/modules/trip"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Load a trip CSV export into Postgres",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := newContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DB.DSN == "" {
		return errors.New("RIDEINSIGHT_DB_DSN is required for import")
	}

	trips, report, err := trip.LoadCSVFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	pool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := trip.NewStore(pool).Import(ctx, trips)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rows=%d imported=%d skipped=%d\n", report.Rows, n, report.Skipped)
	return nil
}
