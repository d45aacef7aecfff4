package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theronib/sql-parser/formatter"
	"github.com/theronib/sql-parser/internal"
	tt "github.com/theronib/sql-parser/internal/types"
	"github.com/theronib/sql-parser/parse"
)

var (
	ignoreRules string
	jsonOutput  bool
	outPath     string
)

var parseCmd = &cobra.Command{
	Use:   "parse [paths...]",
	Short: "Parse every line of the given files (\"-\" reads standard input)",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, config := newEngine()

		err := runParseProcess(ctx, logger, engine, config.Extensions, args, jsonOutput, outPath, verbose, os.Stdin, os.Stdout, os.Stderr)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, parseCmd, watchCmd, rulesCmd} {
		c.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to drop from the priority table")
	}
	for _, c := range []*cobra.Command{rootCmd, parseCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
		c.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	}
}

// newEngine loads the configuration and applies --ignore. Failures are fatal.
func newEngine() (*internal.Engine, parse.Config) {
	engine, config, err := parse.New(cfgFile)
	if err != nil {
		logger.Fatal("Failed to initialize parse engine", zap.Error(err))
	}

	if ignoreRules != "" {
		for _, rule := range strings.Split(ignoreRules, ",") {
			engine.IgnoreRule(strings.TrimSpace(rule))
		}
	}
	logger.Debug("engine ready", zap.Strings("priority", engine.Priority()))

	return engine, config
}

// runParseProcess parses paths, reading stdin for "-", and prints the
// results. Lines that do not parse are reported but are not an error.
func runParseProcess(
	ctx context.Context,
	logger *zap.Logger,
	engine parse.ParseEngine,
	extensions []string,
	paths []string,
	isJson bool,
	jsonOutput string,
	verbose bool,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	var results []tt.LineResult
	for _, path := range paths {
		var (
			pathResults []tt.LineResult
			err         error
		)
		if path == stdinPath {
			pathResults, err = processStdin(ctx, logger, engine, stdin)
		} else {
			pathResults, err = parse.ProcessFiles(ctx, logger, engine, []string{path}, extensions, parse.ProcessFile)
		}
		if err != nil {
			return err
		}
		results = append(results, pathResults...)
	}

	if !isJson {
		return formatter.Write(stdout, stderr, results, verbose)
	}
	return writeJSON(results, jsonOutput, stdout)
}

const stdinPath = "-"

func processStdin(ctx context.Context, logger *zap.Logger, engine parse.ParseEngine, stdin io.Reader) ([]tt.LineResult, error) {
	source, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("error reading standard input: %w", err)
	}
	return parse.ProcessSources(ctx, logger, engine, [][]byte{source}, parse.ProcessSource)
}

func writeJSON(results []tt.LineResult, jsonOutput string, stdout io.Writer) error {
	d, err := formatter.GenerateJSON(results)
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}

	if jsonOutput == "" {
		_, err = fmt.Fprintln(stdout, string(d))
		return err
	}

	f, err := os.Create(jsonOutput)
	if err != nil {
		return fmt.Errorf("error creating JSON output file: %w", err)
	}
	defer f.Close()

	if _, err = f.Write(d); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
