package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats captures a point-in-time snapshot of execution time and memory
// allocation, such that the cost of a given phase can be reported afterwards.
type PerfStats struct {
	// Time at which the snapshot was taken.
	start time.Time
	// Total bytes allocated at the time of the snapshot.
	allocated uint64
	// Number of garbage collections observed at the time of the snapshot.
	collections uint32
}

// NewPerfStats snapshots the current execution time and memory allocation.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Log reports (at debug level) the time elapsed and memory allocated since
// the snapshot was taken.
func (p *PerfStats) Log(phase string) {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	var (
		seconds     = time.Since(p.start).Seconds()
		allocated   = (m.TotalAlloc - p.allocated) / (1024 * 1024)
		collections = m.NumGC - p.collections
	)
	//
	log.Debugf("%s took %0.2fs using %v Mb (%v GC events) [%v Mb]",
		phase, seconds, allocated, collections, m.Alloc/(1024*1024))
}
