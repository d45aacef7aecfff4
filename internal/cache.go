package internal

import (
	"crypto/md5"
	"fmt"
	"sync"

	tt "github.com/theronib/sql-parser/internal/types"
)

type CacheEntry struct {
	Hash    string
	Results []tt.LineResult
}

// Cache keeps the parse results of files keyed by the hash of the content
// they were parsed from.
type Cache struct {
	entries map[string]CacheEntry
	mutex   sync.Mutex
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]CacheEntry),
	}
}

// Set stores results parsed from content.
func (c *Cache) Set(filename string, content []byte, results []tt.LineResult) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[filename] = CacheEntry{
		Hash:    contentHash(content),
		Results: results,
	}
}

// Get returns the cached results of filename if they were parsed from
// content.
func (c *Cache) Get(filename string, content []byte) ([]tt.LineResult, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists || entry.Hash != contentHash(content) {
		return nil, false
	}
	return entry.Results, true
}

func (c *Cache) Invalidate(filename string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, filename)
}

func contentHash(content []byte) string {
	return fmt.Sprintf("%x", md5.Sum(content))
}
