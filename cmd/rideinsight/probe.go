package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the configured AI provider answers",
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := newContext()
	defer cancel()

	app, lg, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	defer func() { _ = lg.Sync() }()

	bot := app.NewBot(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "provider=%s state=%s status=%q\n", app.Config.AI.Provider, bot.AIState(), bot.AIStatus())
	return nil
}
