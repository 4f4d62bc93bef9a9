package quill

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post does not exist (or is a
// draft hidden from the current environment).
var ErrNotFound = sql.ErrNoRows

// PostCache is an in-memory snapshot of the visible posts, tags, and
// series with a TTL. "Visible" depends on the environment: development
// includes drafts, production does not.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	tags    []string
	series  map[string][]Post
	fetched time.Time
	ttl     time.Duration
	store   *Store
	drafts  bool
}

// NewPostCache creates a PostCache backed by the given Store.
// includeDrafts should be true only in development.
func NewPostCache(s *Store, ttl time.Duration, includeDrafts bool) *PostCache {
	return &PostCache{store: s, ttl: ttl, drafts: includeDrafts}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.series = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts("", c.drafts)
	if err != nil {
		return err
	}
	if posts == nil {
		// An empty snapshot must stay non-nil or valid() would treat it
		// as never loaded.
		posts = []Post{}
	}
	tags, err := c.store.ListTags(c.drafts)
	if err != nil {
		return err
	}

	series := map[string][]Post{}
	for _, p := range posts {
		if p.Series != nil {
			series[p.Series.Name] = append(series[p.Series.Name], p)
		}
	}
	for name := range series {
		sortSeriesPosts(series[name])
	}

	c.posts = posts
	c.tags = tags
	c.series = series
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the snapshot after refreshing it if stale. It
// tries a read lock first and only takes the write lock on a reload.
func (c *PostCache) ensureLoaded() ([]Post, []string, map[string][]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags, series := c.posts, c.tags, c.series
		c.mu.RUnlock()
		return posts, tags, series, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, nil, err
	}
	return c.posts, c.tags, c.series, nil
}

// ListPosts returns visible posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]Post, error) {
	posts, _, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique display tags from visible posts.
func (c *PostCache) ListTags() ([]string, error) {
	_, tags, _, err := c.ensureLoaded()
	return tags, err
}

// GetPost returns a single visible post by slug.
func (c *PostCache) GetPost(slug string) (Post, error) {
	posts, _, _, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Series returns the posts of a named series in reading order.
func (c *PostCache) Series(name string) ([]Post, error) {
	_, _, series, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return series[strings.ToLower(strings.TrimSpace(name))], nil
}

// SeriesNav resolves the previous and next posts around the given post
// within its series. Posts outside any series get an empty nav.
func (c *PostCache) SeriesNav(post Post) (SeriesNav, error) {
	if post.Series == nil {
		return SeriesNav{}, nil
	}
	posts, err := c.Series(post.Series.Name)
	if err != nil {
		return SeriesNav{}, err
	}
	var nav SeriesNav
	for i := range posts {
		if posts[i].Slug != post.Slug {
			continue
		}
		if i > 0 {
			nav.Prev = &posts[i-1]
		}
		if i < len(posts)-1 {
			nav.Next = &posts[i+1]
		}
		break
	}
	return nav, nil
}

// sortSeriesPosts orders by series index, breaking index ties by
// publish date so misnumbered posts still read chronologically.
func sortSeriesPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Series.Index != posts[j].Series.Index {
			return posts[i].Series.Index < posts[j].Series.Index
		}
		return posts[i].PublishDate.Before(posts[j].PublishDate)
	})
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
