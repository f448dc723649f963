package utilities

import (
	"sync"

	"github.com/antonio-alexander/go-employee-directory/internal/data"
)

type counter struct {
	hit  int
	miss int
}

type cacheCounter struct {
	sync.RWMutex
	counters map[string]*counter
}

// Counter tracks cache hits and misses per key (e.g. employee_1 or
// employees).
type Counter interface {
	Read(key string) (hitCount, missCount int)
	ReadAll() *data.CacheCounters
	IncrementHit(key string) (hitCount int)
	IncrementMiss(key string) (missCount int)
	HitRatio() float64
	Clear()
}

func NewCounter() Counter {
	return &cacheCounter{
		counters: make(map[string]*counter),
	}
}

func (c *cacheCounter) Clear() {
	c.Lock()
	defer c.Unlock()

	c.counters = make(map[string]*counter)
}

// Read returns -1, -1 for a key that has never been counted.
func (c *cacheCounter) Read(key string) (int, int) {
	c.RLock()
	defer c.RUnlock()

	if counter, found := c.counters[key]; found {
		return counter.hit, counter.miss
	}
	return -1, -1
}

func (c *cacheCounter) ReadAll() *data.CacheCounters {
	c.RLock()
	defer c.RUnlock()

	counterHit := make(map[string]int, len(c.counters))
	counterMiss := make(map[string]int, len(c.counters))
	for key, value := range c.counters {
		counterHit[key] = value.hit
		counterMiss[key] = value.miss
	}
	return &data.CacheCounters{
		CounterHits:   counterHit,
		CounterMisses: counterMiss,
	}
}

// HitRatio returns hits/(hits+misses) over all keys, zero when nothing
// has been counted.
func (c *cacheCounter) HitRatio() float64 {
	c.RLock()
	defer c.RUnlock()

	var hits, total int
	for _, value := range c.counters {
		hits += value.hit
		total += value.hit + value.miss
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func (c *cacheCounter) get(key string) *counter {
	cntr, found := c.counters[key]
	if !found {
		cntr = &counter{}
		c.counters[key] = cntr
	}
	return cntr
}

func (c *cacheCounter) IncrementHit(key string) int {
	c.Lock()
	defer c.Unlock()

	cntr := c.get(key)
	cntr.hit++
	return cntr.hit
}

func (c *cacheCounter) IncrementMiss(key string) int {
	c.Lock()
	defer c.Unlock()

	cntr := c.get(key)
	cntr.miss++
	return cntr.miss
}
