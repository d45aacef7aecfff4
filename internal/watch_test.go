package internal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/theronib/sql-parser/internal/types"
)

type reportRecorder struct {
	mu      sync.Mutex
	reports map[string][]tt.LineResult
}

func (r *reportRecorder) record(filename string, results []tt.LineResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[filename] = results
}

func (r *reportRecorder) get(filename string) ([]tt.LineResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	results, ok := r.reports[filename]
	return results, ok
}

func TestWatcher_ReparsesOnWrite(t *testing.T) {
	dir := t.TempDir()
	sqlPath := filepath.Join(dir, "a.sql")
	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(sqlPath, []byte(""), 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte(""), 0o644))

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	rec := &reportRecorder{reports: make(map[string][]tt.LineResult)}
	w, err := NewWatcher(engine, zap.NewNop(), []string{".sql"}, rec.record)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(txtPath, []byte("SELECT a FROM b;\n"), 0o644))
	require.NoError(t, os.WriteFile(sqlPath, []byte("SELECT a FROM b;\nSELECT;\n"), 0o644))

	require.Eventually(t, func() bool {
		results, ok := rec.get(sqlPath)
		return ok && len(results) == 2
	}, 5*time.Second, 20*time.Millisecond)

	results, _ := rec.get(sqlPath)
	assert.True(t, results[0].Parsed())
	assert.False(t, results[1].Parsed())

	_, sawTxt := rec.get(txtPath)
	assert.False(t, sawTxt)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_AddMissingPath(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	w, err := NewWatcher(engine, nil, nil, nil)
	require.NoError(t, err)
	defer w.watcher.Close()

	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing")))
}

func TestWatcher_Accepts(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	dir := t.TempDir()
	named := filepath.Join(dir, "queries.txt")
	require.NoError(t, os.WriteFile(named, nil, 0o644))

	w, err := NewWatcher(engine, nil, []string{".sql"}, nil)
	require.NoError(t, err)
	defer w.watcher.Close()
	require.NoError(t, w.Add(named))

	assert.True(t, w.accepts(named))
	assert.True(t, w.accepts(filepath.Join(dir, "other.sql")))
	assert.False(t, w.accepts(filepath.Join(dir, "other.txt")))
}

func TestWatcher_SkipsUnchangedFile(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "a.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT a FROM b;\n"), 0o644))

	calls := 0
	w, err := NewWatcher(engine, nil, []string{".sql"}, func(string, []tt.LineResult) { calls++ })
	require.NoError(t, err)
	defer w.watcher.Close()
	w.debounce = 0

	event := fsnotify.Event{Name: path, Op: fsnotify.Write}
	w.handleFileEvent(event)
	w.handleFileEvent(event)
	assert.Equal(t, 1, calls)

	require.NoError(t, os.WriteFile(path, []byte("SELECT a FROM b;\nSELECT;\n"), 0o644))
	w.handleFileEvent(event)
	assert.Equal(t, 2, calls)

	w.handleFileEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod})
	assert.Equal(t, 2, calls)

	// a removed and recreated file is reported even with the same content
	w.handleFileEvent(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	w.handleFileEvent(event)
	assert.Equal(t, 3, calls)
}

func TestWatcher_CachesParsedContent(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "a.sql")
	before := []byte("SELECT a FROM b;\n")
	require.NoError(t, os.WriteFile(path, before, 0o644))

	var reported []tt.LineResult
	w, err := NewWatcher(engine, nil, []string{".sql"}, func(_ string, results []tt.LineResult) { reported = results })
	require.NoError(t, err)
	defer w.watcher.Close()
	w.debounce = 0

	w.handleFileEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	require.Len(t, reported, 1)

	cached, ok := w.cache.Get(path, before)
	require.True(t, ok)
	assert.Equal(t, reported, cached)

	// results are keyed by the bytes that were parsed, not by what is on disk later
	_, ok = w.cache.Get(path, []byte("SELECT a FROM b;\nSELECT;\n"))
	assert.False(t, ok)
}
