// Package profiling accumulates per-frame timings of the LOD passes and the
// tools driving them.
package profiling

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	frameCalls  = make(map[string]int)
)

// Track returns a stop function that records the elapsed time under name.
//
//	defer profiling.Track("planet.Face.UpdateLODs")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		frameCalls[name]++
		mu.Unlock()
	}
}

// ResetFrame clears the totals. Call it at the start of every frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	clear(frameCalls)
	mu.Unlock()
}

// Entry is the time spent under one name during the current frame.
type Entry struct {
	Name     string
	Duration time.Duration
	Calls    int
}

// Snapshot returns the current frame entries, slowest first.
func Snapshot() []Entry {
	mu.Lock()
	entries := make([]Entry, 0, len(frameTotals))
	for name, d := range frameTotals {
		entries = append(entries, Entry{Name: name, Duration: d, Calls: frameCalls[name]})
	}
	mu.Unlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Duration, a.Duration); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// SumWithPrefix returns the total time of every name starting with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()

	var sum time.Duration
	for name, d := range frameTotals {
		if strings.HasPrefix(name, prefix) {
			sum += d
		}
	}
	return sum
}

// TopN formats the n slowest entries of the current frame, for instance
// "planet.Face.UpdateLODs:4.2ms(6), mesh.Make:2.1ms(1)".
func TopN(n int) string {
	entries := Snapshot()
	entries = entries[:min(n, len(entries))]

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s:%.1fms(%d)", e.Name, float64(e.Duration.Microseconds())/1000, e.Calls)
	}
	return strings.Join(parts, ", ")
}
