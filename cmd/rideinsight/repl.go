// README: Interactive chat loop over stdin.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive chat session",
	Long:  "Start a chat session on stdin. Type 'history' to show the conversation, 'reset' to clear it and 'quit' to leave.",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	ctx, cancel := newContext()
	defer cancel()

	app, lg, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	defer func() { _ = lg.Sync() }()

	bot := app.NewBot(ctx)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rideinsight: %d trips loaded from %s. %s\n", app.Store.Size(), app.Origin, bot.AIStatus())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "reset":
			bot.Reset()
			fmt.Fprintln(out, "conversation cleared")
			continue
		case "history":
			for _, e := range bot.History() {
				fmt.Fprintf(out, "%s  %-9s %s\n", e.Timestamp.Format("15:04:05"), e.Role, plain(e.Content))
			}
			continue
		}
		fmt.Fprintln(out, plain(bot.ProcessQuery(ctx, line)))
		if ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}
