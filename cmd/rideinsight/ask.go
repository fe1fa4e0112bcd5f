// README: One-shot question command.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askVerbose bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "Print the matched intent and answer path")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := newContext()
	defer cancel()

	app, lg, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	defer func() { _ = lg.Sync() }()

	bot := app.NewBot(ctx)
	reply := bot.Ask(ctx, strings.Join(args, " "))
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, plain(reply.Text))
	if askVerbose {
		fmt.Fprintf(out, "\n[%s] path=%s intent=%s rule=%s took=%s\n", bot.AIStatus(), reply.Path, reply.Intent, reply.Rule, reply.Took)
	}
	return nil
}
