package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Label      string // "METHOD /pattern" for requests, statement label for queries
	StatusCode int    // 0 for queries
	Duration   time.Duration
	At         time.Time
}

// Collector is a fixed-size ring of timing entries. Writes overwrite the
// oldest entry once full; aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	total   atomic.Int64
	now     func() time.Time
}

// NewCollector creates a collector holding the last size entries.
// PRE: size > 0 (DefaultRingSize otherwise)
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size), now: time.Now}
}

// Record stores e, stamping it with the current time if At is zero.
func (c *Collector) Record(e Entry) {
	if e.At.IsZero() {
		e.At = c.now()
	}
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.total.Add(1)
}

// RecordQuery adapts the collector to a storage query observer.
func (c *Collector) RecordQuery(label string, elapsed time.Duration) {
	c.Record(Entry{Kind: KindQuery, Label: label, Duration: elapsed})
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// Snapshot is the aggregated view served to admins.
type Snapshot struct {
	Since          time.Time `json:"since"`
	TotalRecorded  int64     `json:"total_recorded"`
	Requests       int       `json:"requests"`
	ServerErrors   int       `json:"server_errors"`
	RequestP50Ms   float64   `json:"request_p50_ms"`
	RequestP95Ms   float64   `json:"request_p95_ms"`
	RequestP99Ms   float64   `json:"request_p99_ms"`
	SlowestRoutes  []Stat    `json:"slowest_routes"`
	SlowestQueries []Stat    `json:"slowest_queries"`
}

// Stat aggregates timing for one route or statement label.
type Stat struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	MaxMs float64 `json:"max_ms"`
}

type accum struct {
	count   int
	totalMs float64
	maxMs   float64
}

// Snapshot aggregates entries recorded at or after since, keeping the topN
// slowest labels of each kind by average duration.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}
	routes := make(map[string]*accum)
	queries := make(map[string]*accum)
	var durations []float64

	for _, e := range buf {
		if e.At.IsZero() || e.At.Before(since) {
			continue
		}
		ms := float64(e.Duration.Microseconds()) / 1000.0
		target := queries
		if e.Kind == KindRequest {
			target = routes
			snap.Requests++
			if e.StatusCode >= 500 {
				snap.ServerErrors++
			}
			durations = append(durations, ms)
		}
		a, ok := target[e.Label]
		if !ok {
			a = &accum{}
			target[e.Label] = a
		}
		a.count++
		a.totalMs += ms
		a.maxMs = math.Max(a.maxMs, ms)
	}

	snap.SlowestRoutes = topByAvg(routes, topN)
	snap.SlowestQueries = topByAvg(queries, topN)
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*accum, n int) []Stat {
	list := make([]Stat, 0, len(stats))
	for label, a := range stats {
		list = append(list, Stat{Label: label, Count: a.count, AvgMs: a.totalMs / float64(a.count), MaxMs: a.maxMs})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Label < list[j].Label
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
