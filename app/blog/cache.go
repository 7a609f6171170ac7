package blog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Cache holds generated posts in memory, hydrated at startup from one JSON
// file per case ID under the configured directory. Set writes memory first and
// then disk; a disk failure is logged and tolerated, so the process keeps
// serving from memory at the cost of durability for that one post.
type Cache struct {
	dir   string
	mu    sync.RWMutex
	posts map[string]*Post
}

// NewCache creates the storage directory if needed and loads every previously
// persisted post into memory.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:   dir,
		posts: make(map[string]*Post),
	}
	c.loadFromDisk()

	return c, nil
}

func (c *Cache) path(id string) string {
	return filepath.Join(c.dir, id+".json")
}

func (c *Cache) loadFromDisk() {
	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		slog.Warn("Failed to scan blog cache directory", "dir", c.dir, "error", err)
		return
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("Failed to read cached blog", "file", file, "error", err)
			continue
		}

		var post Post
		if err := json.Unmarshal(data, &post); err != nil {
			slog.Warn("Failed to parse cached blog, skipping", "file", file, "error", err)
			continue
		}
		if post.ID == "" {
			post.ID = strings.TrimSuffix(filepath.Base(file), ".json")
		}
		c.posts[post.ID] = &post
	}

	slog.Info("Loaded cached blogs from disk", "count", len(c.posts), "dir", c.dir)
}

// Get returns the cached post for a case ID, or nil.
func (c *Cache) Get(id string) *Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.posts[id]
}

// Has reports whether a post exists for the case ID.
func (c *Cache) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.posts[id]
	return ok
}

// Set stores a post in memory and persists it to disk.
func (c *Cache) Set(post *Post) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.posts[post.ID] = post

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		slog.Warn("Failed to encode blog for disk cache", "id", post.ID, "error", err)
		return
	}
	if err := os.WriteFile(c.path(post.ID), data, 0o644); err != nil {
		slog.Warn("Failed to write blog cache to disk", "id", post.ID, "error", err)
	}
}

// All returns every cached post.
func (c *Cache) All() []*Post {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Post, 0, len(c.posts))
	for _, post := range c.posts {
		out = append(out, post)
	}
	return out
}

// Len returns the number of cached posts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}

// Clear removes all posts from memory and disk.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.posts = make(map[string]*Post)

	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		slog.Warn("Failed to scan blog cache directory", "dir", c.dir, "error", err)
		return
	}
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			slog.Warn("Failed to remove cached blog", "file", file, "error", err)
		}
	}
}
