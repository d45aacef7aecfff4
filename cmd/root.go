package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile     string
	timeout     time.Duration
	verbose     bool
	showCredits bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "sqlparse [paths...]",
	Short:            "sqlparse - parse SQL statements and fragments line by line",
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("error creating logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if showCredits {
			printCredits(cmd.OutOrStdout())
			return
		}
		// no subcommand
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// Format: sqlparse [path1 path2 ...] => behaves like the parse subcommand
		parseCmd.Run(parseCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the configuration file (default .sqlparse.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for parsing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show failure positions and debug logs")
	rootCmd.Flags().BoolVar(&showCredits, "credits", false, "Show author information")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(watchCmd)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return config.Build()
}

func printCredits(w io.Writer) {
	fmt.Fprintln(w, "SQL Parser")
	fmt.Fprintln(w, "Author: Yaroslav Baranivskyy")
}
