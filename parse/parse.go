// Package parse is the entry point for parsing SQL files and sources line by line.
package parse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/theronib/sql-parser/internal"
	tt "github.com/theronib/sql-parser/internal/types"
	"github.com/theronib/sql-parser/sqlgrammar"
)

// DefaultConfigFile is read when no configuration path is given and the
// file exists in the working directory.
const DefaultConfigFile = ".sqlparse.yaml"

var defaultExtensions = []string{".sql"}

type ParseEngine interface {
	Run(filePath string) ([]tt.LineResult, error)
	RunSource(source []byte) ([]tt.LineResult, error)
	IgnoreRule(rule string)
}

// Config is the content of a configuration file.
type Config struct {
	Name string `yaml:"name"`
	// Rules is the dispatcher priority table.
	Rules []string `yaml:"rules"`
	// Extensions selects the files parsed when a directory is given.
	Extensions []string `yaml:"extensions"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Name:       "sqlparse",
		Rules:      slices.Clone(sqlgrammar.DefaultPriority),
		Extensions: slices.Clone(defaultExtensions),
	}
}

// New creates an engine from the configuration file at configurationPath.
func New(configurationPath string) (*internal.Engine, Config, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, config, err
	}

	engine, err := internal.NewEngine(config.Rules)
	if err != nil {
		return nil, config, err
	}
	return engine, config, nil
}

// LoadConfig reads a configuration file. An empty path falls back to
// DefaultConfigFile and then to DefaultConfig. Fields left out of the file,
// or given as empty lists, keep their default values.
func LoadConfig(configurationPath string) (Config, error) {
	config := DefaultConfig()

	if configurationPath == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return config, nil
		}
		configurationPath = DefaultConfigFile
	}

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	var fromFile Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&fromFile); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing configuration file %s: %w", configurationPath, err)
	}

	if fromFile.Name != "" {
		config.Name = fromFile.Name
	}
	if len(fromFile.Rules) > 0 {
		config.Rules = fromFile.Rules
	}
	if len(fromFile.Extensions) > 0 {
		config.Extensions = fromFile.Extensions
	}
	return config, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine ParseEngine,
	sources [][]byte,
	processor func(ParseEngine, []byte) ([]tt.LineResult, error),
) ([]tt.LineResult, error) {
	var allResults []tt.LineResult
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine ParseEngine,
	paths []string,
	extensions []string,
	processor func(ParseEngine, string) ([]tt.LineResult, error),
) ([]tt.LineResult, error) {
	var allResults []tt.LineResult
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, extensions, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

// ProcessPath parses one file, or every file with a matching extension
// below a directory. Files are processed concurrently; the results keep
// the walk order of the files and the line order inside each file.
// A nil extensions list selects ".sql".
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine ParseEngine,
	path string,
	extensions []string,
	processor func(ParseEngine, string) ([]tt.LineResult, error),
) ([]tt.LineResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		return processor(engine, path)
	}

	if extensions == nil {
		extensions = defaultExtensions
	}

	var files []string
	err = filepath.WalkDir(path, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(extensions, filepath.Ext(filePath)) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	// one slot per file keeps the output order independent of scheduling
	perFile := make([][]tt.LineResult, len(files))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, filePath := range files {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			fileResults, err := processor(engine, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
			} else {
				perFile[i] = fileResults
			}
			_ = bar.Add(1)
		}(i, filePath)
	}
	wg.Wait()
	_ = bar.Finish()

	var results []tt.LineResult
	for _, fileResults := range perFile {
		results = append(results, fileResults...)
	}
	return results, nil
}

func ProcessFile(engine ParseEngine, filePath string) ([]tt.LineResult, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine ParseEngine, source []byte) ([]tt.LineResult, error) {
	return engine.RunSource(source)
}
