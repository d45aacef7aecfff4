package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules tried for each line, in priority order",
	Run: func(cmd *cobra.Command, args []string) {
		engine, _ := newEngine()
		printRules(cmd.OutOrStdout(), engine.Priority())
	},
}

func printRules(w io.Writer, priority []string) {
	if len(priority) == 0 {
		fmt.Fprintln(w, "no rules enabled")
		return
	}
	for i, rule := range priority {
		fmt.Fprintf(w, "%d. %s\n", i+1, rule)
	}
}
