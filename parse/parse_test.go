package parse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theronib/sql-parser/grammar"
	"github.com/theronib/sql-parser/internal"
	"github.com/theronib/sql-parser/internal/types"
	"github.com/theronib/sql-parser/sqlgrammar"
)

type mockParseEngine struct {
	mock.Mock
}

func (m *mockParseEngine) Run(filePath string) ([]types.LineResult, error) {
	args := m.Called(filePath)
	return args.Get(0).([]types.LineResult), args.Error(1)
}

func (m *mockParseEngine) RunSource(source []byte) ([]types.LineResult, error) {
	args := m.Called(source)
	return args.Get(0).([]types.LineResult), args.Error(1)
}

func (m *mockParseEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func setupMockEngine(expected []types.LineResult, filePath string) *mockParseEngine {
	mockEngine := new(mockParseEngine)
	mockEngine.On("Run", filePath).Return(expected, nil)
	return mockEngine
}

func setupSourceMockEngine(expected []types.LineResult, content []byte) *mockParseEngine {
	mockEngine := new(mockParseEngine)
	mockEngine.On("RunSource", content).Return(expected, nil)
	return mockEngine
}

func TestProcessFile(t *testing.T) {
	t.Parallel()
	expected := []types.LineResult{
		{
			Filename: "test.sql",
			Line:     1,
			Column:   1,
			Text:     "SELECT a FROM b;",
			Rule:     sqlgrammar.RuleQuery,
			Span:     &grammar.Span{Rule: sqlgrammar.RuleQuery, Start: 0, End: 16},
		},
	}
	mockEngine := setupMockEngine(expected, "test.sql")

	results, err := ProcessFile(mockEngine, "test.sql")

	assert.NoError(t, err)
	assert.Equal(t, expected, results)
	mockEngine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()
	expected := []types.LineResult{
		{Line: 1, Column: 1, Text: "SELECT;", Error: "cannot parse line", Offset: 6},
	}
	source := []byte("SELECT;")
	mockEngine := setupSourceMockEngine(expected, source)

	results, err := ProcessSource(mockEngine, source)

	assert.NoError(t, err)
	assert.Equal(t, expected, results)
	mockEngine.AssertExpectations(t)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()

	first := []byte("SELECT a FROM b;")
	second := []byte("age > 1")
	mockEngine := new(mockParseEngine)
	mockEngine.On("RunSource", first).Return([]types.LineResult{{Line: 1, Rule: sqlgrammar.RuleQuery}}, nil)
	mockEngine.On("RunSource", second).Return([]types.LineResult{{Line: 1, Rule: sqlgrammar.RuleCondition}}, nil)

	results, err := ProcessSources(context.Background(), logger, mockEngine, [][]byte{first, second}, ProcessSource)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, sqlgrammar.RuleQuery, results[0].Rule)
	assert.Equal(t, sqlgrammar.RuleCondition, results[1].Rule)
	mockEngine.AssertExpectations(t)
}

func TestProcessSources_Error(t *testing.T) {
	t.Parallel()
	source := []byte("x")
	mockEngine := new(mockParseEngine)
	mockEngine.On("RunSource", source).Return([]types.LineResult(nil), errors.New("boom"))

	_, err := ProcessSources(context.Background(), nil, mockEngine, [][]byte{source}, ProcessSource)
	assert.EqualError(t, err, "boom")
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()

	tempDir := t.TempDir()
	file1 := filepath.Join(tempDir, "a.sql")
	file2 := filepath.Join(tempDir, "b.sql")
	require.NoError(t, os.WriteFile(file1, []byte("SELECT a FROM b;"), 0o644))
	require.NoError(t, os.WriteFile(file2, []byte("SELECT c FROM d;"), 0o644))

	mockEngine := new(mockParseEngine)
	mockEngine.On("Run", file1).Return([]types.LineResult{{Filename: file1, Line: 1}}, nil)
	mockEngine.On("Run", file2).Return([]types.LineResult{{Filename: file2, Line: 1}}, nil)

	results, err := ProcessFiles(context.Background(), logger, mockEngine, []string{file1, file2}, nil, ProcessFile)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, file1, results[0].Filename)
	assert.Equal(t, file2, results[1].Filename)
	mockEngine.AssertExpectations(t)
}

func TestProcessFiles_MissingPath(t *testing.T) {
	t.Parallel()
	mockEngine := new(mockParseEngine)

	_, err := ProcessFiles(context.Background(), nil, mockEngine, []string{filepath.Join(t.TempDir(), "nope.sql")}, nil, ProcessFile)
	assert.Error(t, err)
	mockEngine.AssertNotCalled(t, "Run", mock.Anything)
}

func TestProcessPath_Directory(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()

	tempDir := t.TempDir()
	nested := filepath.Join(tempDir, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))

	files := map[string]string{
		filepath.Join(tempDir, "a.sql"):    "SELECT a FROM b;\nSELECT;\n",
		filepath.Join(nested, "c.sql"):     "INSERT INTO t(a) VALUES(1);\n",
		filepath.Join(tempDir, "notes.md"): "SELECT a FROM b;\n",
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	engine, err := internal.NewEngine(nil)
	require.NoError(t, err)

	results, err := ProcessPath(context.Background(), logger, engine, tempDir, nil, ProcessFile)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(tempDir, "a.sql"), results[0].Filename)
	assert.Equal(t, 1, results[0].Line)
	assert.True(t, results[0].Parsed())
	assert.Equal(t, 2, results[1].Line)
	assert.False(t, results[1].Parsed())
	assert.Equal(t, filepath.Join(nested, "c.sql"), results[2].Filename)
	assert.Equal(t, sqlgrammar.RuleInsert, results[2].Rule)
}

func TestProcessPath_CustomExtensions(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.sql"), []byte("SELECT a FROM b;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "b.txt"), []byte("age > 1"), 0o644))

	engine, err := internal.NewEngine(nil)
	require.NoError(t, err)

	results, err := ProcessPath(context.Background(), nil, engine, tempDir, []string{".txt"}, ProcessFile)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, sqlgrammar.RuleCondition, results[0].Rule)
}

func TestProcessPath_CanceledContext(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.sql"), []byte("SELECT a FROM b;"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockEngine := new(mockParseEngine)
	mockEngine.On("Run", mock.Anything).Return([]types.LineResult{}, nil).Maybe()

	_, err := ProcessPath(ctx, nil, mockEngine, tempDir, nil, ProcessFile)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
