package jobcache

import (
	"sync"
	"time"
)

// Job holds the finished artifacts for one translation job. Entries
// live in process memory only and disappear on restart.
type Job struct {
	ID              string
	Filename        string
	PageCount       int
	ExtractedTexts  []string
	TranslatedTexts []string
	Document        []byte // translated PDF
	CreatedAt       time.Time
}

// Cache keeps finished jobs for a fixed TTL after completion.
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]Job
}

// New builds a cache. now may be nil, which means time.Now; tests pass
// their own clock.
func New(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, items: make(map[string]Job)}
}

// Insert stores a finished job and schedules its eviction.
func (c *Cache) Insert(job Job) {
	c.mu.Lock()
	job.CreatedAt = c.now()
	c.items[job.ID] = job
	c.mu.Unlock()

	time.AfterFunc(c.ttl, func() { c.Evict(job.ID) })
}

// Lookup returns the job if present and not expired. Expiry is also
// checked here so a lagging eviction timer cannot serve a stale entry.
func (c *Cache) Lookup(id string) (Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.items[id]
	if !ok {
		return Job{}, false
	}
	if c.now().Sub(job.CreatedAt) > c.ttl {
		delete(c.items, id)
		return Job{}, false
	}
	return job, true
}

func (c *Cache) Evict(id string) {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}

// Len reports the number of cached jobs, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
