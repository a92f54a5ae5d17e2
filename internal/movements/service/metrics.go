package service

import (
	"sync/atomic"
	"time"
)

// Metrics tracks upload pipeline counters.
type metrics struct {
	uploadsProcessed int64
	uploadsRejected  int64
	recordsParsed    int64
	storeWrites      int64
	storeErrors      int64
	storeLatency     int64 // Total latency in nanoseconds
	cacheHits        int64
	cacheMisses      int64
}

var globalMetrics = &metrics{}

// Snapshot is a point-in-time copy of the pipeline counters.
type Snapshot struct {
	UploadsProcessed int64   `json:"uploads_processed"`
	UploadsRejected  int64   `json:"uploads_rejected"`
	RecordsParsed    int64   `json:"records_parsed"`
	StoreWrites      int64   `json:"store_writes"`
	StoreErrors      int64   `json:"store_errors"`
	StoreLatencyMs   float64 `json:"store_latency_avg_ms"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
}

// GetMetrics returns the current metrics snapshot.
func GetMetrics() Snapshot {
	writes := atomic.LoadInt64(&globalMetrics.storeWrites)
	latency := atomic.LoadInt64(&globalMetrics.storeLatency)

	avgMs := 0.0
	if writes > 0 {
		avgMs = float64(latency) / float64(writes) / 1e6
	}

	return Snapshot{
		UploadsProcessed: atomic.LoadInt64(&globalMetrics.uploadsProcessed),
		UploadsRejected:  atomic.LoadInt64(&globalMetrics.uploadsRejected),
		RecordsParsed:    atomic.LoadInt64(&globalMetrics.recordsParsed),
		StoreWrites:      writes,
		StoreErrors:      atomic.LoadInt64(&globalMetrics.storeErrors),
		StoreLatencyMs:   avgMs,
		CacheHits:        atomic.LoadInt64(&globalMetrics.cacheHits),
		CacheMisses:      atomic.LoadInt64(&globalMetrics.cacheMisses),
	}
}

// ResetMetrics resets all counters (useful for testing).
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.uploadsProcessed, 0)
	atomic.StoreInt64(&globalMetrics.uploadsRejected, 0)
	atomic.StoreInt64(&globalMetrics.recordsParsed, 0)
	atomic.StoreInt64(&globalMetrics.storeWrites, 0)
	atomic.StoreInt64(&globalMetrics.storeErrors, 0)
	atomic.StoreInt64(&globalMetrics.storeLatency, 0)
	atomic.StoreInt64(&globalMetrics.cacheHits, 0)
	atomic.StoreInt64(&globalMetrics.cacheMisses, 0)
}

func recordUpload(records int, rejected bool) {
	if rejected {
		atomic.AddInt64(&globalMetrics.uploadsRejected, 1)
		return
	}
	atomic.AddInt64(&globalMetrics.uploadsProcessed, 1)
	atomic.AddInt64(&globalMetrics.recordsParsed, int64(records))
}

func recordStoreWrite(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.storeWrites, 1)
	atomic.AddInt64(&globalMetrics.storeLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.storeErrors, 1)
	}
}

func recordCacheLookup(hit bool) {
	if hit {
		atomic.AddInt64(&globalMetrics.cacheHits, 1)
	} else {
		atomic.AddInt64(&globalMetrics.cacheMisses, 1)
	}
}
