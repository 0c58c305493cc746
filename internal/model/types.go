package model

import (
	"sync"
	"time"
)

// Stream identifies which output channel of the producer a monitored file
// carries. Lines from the stderr file are error-classified regardless of
// content.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// Source is one monitored log file. The set of sources is fixed at process
// start.
type Source struct {
	Path   string `json:"path"`
	Stream Stream `json:"stream"`
}

// Category is the semantic bucket a line is styled by.
type Category string

const (
	CategoryError   Category = "error"
	CategoryWarn    Category = "warn"
	CategoryInfo    Category = "info"
	CategorySuccess Category = "success"
	CategoryTool    Category = "tool"
	CategoryRoute   Category = "route"
	CategoryDim     Category = "dim"
	CategoryNone    Category = "none"
)

// Entry is one accepted, classified line held by the display buffer.
type Entry struct {
	Text     string    `json:"text"`
	Stream   Stream    `json:"stream"`
	Category Category  `json:"category"`
	When     time.Time `json:"when"`
}

// Ring buffer for Entry. Oldest entries are evicted first once the capacity
// is reached; capacity never changes after construction.
type Ring struct {
	mu      sync.RWMutex
	buf     []Entry
	cap     int
	start   int
	size    int
	total   uint64 // total pushed
	dropped uint64
}

func NewRing(capacity int) *Ring {
	return &Ring{cap: capacity, buf: make([]Entry, capacity)}
}

func (r *Ring) Push(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size < r.cap {
		r.buf[(r.start+r.size)%r.cap] = e
		r.size++
	} else {
		// overwrite oldest
		r.buf[r.start] = e
		r.start = (r.start + 1) % r.cap
		r.dropped++
	}
	r.total++
}

func (r *Ring) Snapshot() ([]Entry, uint64, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%r.cap]
	}
	return out, r.total, r.dropped
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Ring) ClearVisible() { // does not reset counters
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = 0
	r.start = 0
}
