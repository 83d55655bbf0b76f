package kmetrics

import (
	"runtime"
	"sync"

	"go.opencensus.io/metric"
	"go.opencensus.io/metric/metricdata"

	"github.com/xinkaiwang/solvercore/kcommon"
)

const memStatsMaxAgeMs = 1000

// memStatsSampler caches runtime.MemStats so one scrape reads them once, not once per gauge.
type memStatsSampler struct {
	mu       sync.Mutex
	stats    runtime.MemStats
	sampleMs int64
	sampled  bool
}

func (s *memStatsSampler) get() runtime.MemStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := kcommon.GetMonoTimeMs()
	if !s.sampled || now-s.sampleMs >= memStatsMaxAgeMs {
		runtime.ReadMemStats(&s.stats)
		s.sampleMs = now
		s.sampled = true
	}
	return s.stats
}

// NewProcessRegistry returns derived gauges for the solver process (heap, goroutines, gc), evaluated at read time.
// Add it to metricproducer.GlobalManager() next to the kmetrics registry.
func NewProcessRegistry() (*metric.Registry, error) {
	registry := metric.NewRegistry()
	sampler := &memStatsSampler{}

	int64Gauges := []struct {
		name  string
		desc  string
		unit  metricdata.Unit
		value func() int64
	}{
		{"process_heap_bytes", "heap bytes allocated and in use", metricdata.UnitBytes, func() int64 { return int64(sampler.get().HeapAlloc) }},
		{"process_sys_bytes", "bytes obtained from the OS", metricdata.UnitBytes, func() int64 { return int64(sampler.get().Sys) }},
		{"process_goroutines", "number of goroutines", metricdata.UnitDimensionless, func() int64 { return int64(runtime.NumGoroutine()) }},
		{"process_gc_count", "completed gc cycles", metricdata.UnitDimensionless, func() int64 { return int64(sampler.get().NumGC) }},
		{"process_gc_pause_total_ns", "total gc pause", "ns", func() int64 { return int64(sampler.get().PauseTotalNs) }},
	}
	for _, g := range int64Gauges {
		gauge, err := registry.AddInt64DerivedGauge(g.name, metric.WithDescription(g.desc), metric.WithUnit(g.unit))
		if err != nil {
			return nil, err
		}
		if err := gauge.UpsertEntry(g.value); err != nil {
			return nil, err
		}
	}

	gcFraction, err := registry.AddFloat64DerivedGauge("process_gc_cpu_fraction", metric.WithDescription("fraction of cpu time used by gc"))
	if err != nil {
		return nil, err
	}
	if err := gcFraction.UpsertEntry(func() float64 { return sampler.get().GCCPUFraction }); err != nil {
		return nil, err
	}
	return registry, nil
}
