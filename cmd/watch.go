package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theronib/sql-parser/formatter"
	"github.com/theronib/sql-parser/internal"
	tt "github.com/theronib/sql-parser/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-parse files every time they are written",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, config := newEngine()

		watcher, err := internal.NewWatcher(engine, logger, config.Extensions, reportTo(logger))
		if err != nil {
			logger.Fatal("Failed to create watcher", zap.Error(err))
		}
		for _, path := range args {
			if err := watcher.Add(path); err != nil {
				logger.Fatal("Failed to watch path", zap.String("path", path), zap.Error(err))
			}
		}

		fmt.Fprintf(os.Stderr, "watching %d path(s), press Ctrl+C to stop\n", len(args))
		if err := watcher.Run(ctx); err != nil {
			logger.Error("Watcher stopped", zap.Error(err))
		}
	},
}

func reportTo(logger *zap.Logger) internal.ReportFunc {
	return func(filename string, results []tt.LineResult) {
		if err := formatter.Write(os.Stdout, os.Stderr, results, verbose); err != nil {
			logger.Error("Error writing results", zap.String("file", filename), zap.Error(err))
		}
	}
}
