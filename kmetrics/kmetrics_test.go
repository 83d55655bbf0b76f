package kmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xinkaiwang/solvercore/klogging"
	"go.opencensus.io/metric/metricdata"
)

var _ klogging.LoggerMetricsReporter = (*LogMetricsReporter)(nil)

func findMetric(list []*metricdata.Metric, name string) *metricdata.Metric {
	for _, m := range list {
		if m.Descriptor.Name == name {
			return m
		}
	}
	return nil
}

func TestKmetricCountAndSum(t *testing.T) {
	ctx := context.Background()
	km := CreateKmetric(ctx, "test_step_ms", "desc", []string{"phase"})
	km.GetTimeSequence(ctx, "localSearch").Add(10)
	km.GetTimeSequence(ctx, "localSearch").Add(5)
	km.GetTimeSequence(ctx, "construction").Add(1)

	count, sum := km.GetTimeSequence(ctx, "localSearch").Get()
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(15), sum)

	list := GetKmetricsRegistry().Read()
	countMetric := findMetric(list, "test_step_ms_count")
	require.NotNil(t, countMetric)
	require.Len(t, countMetric.TimeSeries, 2)
	// sorted by tag key: construction, localSearch
	assert.Equal(t, "construction", countMetric.TimeSeries[0].LabelValues[0].Value)
	assert.Equal(t, int64(2), countMetric.TimeSeries[1].Points[0].Value)

	sumMetric := findMetric(list, "test_step_ms_sum")
	require.NotNil(t, sumMetric)
	assert.Equal(t, int64(15), sumMetric.TimeSeries[1].Points[0].Value)
}

func TestKmetricCountOnly(t *testing.T) {
	ctx := context.Background()
	km := CreateKmetric(ctx, "test_corruption", "desc", []string{"mode"}).CountOnly()
	km.GetTimeSequence(ctx, "exact").Touch()

	list := GetKmetricsRegistry().Read()
	assert.NotNil(t, findMetric(list, "test_corruption_count"))
	assert.Nil(t, findMetric(list, "test_corruption_sum"))
}

func TestRegistryGlobalTags(t *testing.T) {
	ctx := context.Background()
	registry := NewKmetricsRegistry()
	km := &Kmetric{metricName: "test_global", tagNames: []string{"phase"}}
	km.collection.Store(&timeSequenceCollection{dict: map[string]*TimeSequence{}})
	registry.RegisterKmetric(km)
	registry.AddGlobalTag("app", "solverdemo")
	km.GetTimeSequence(ctx, "localSearch").Add(1)

	list := registry.Read()
	m := findMetric(list, "test_global_count")
	require.NotNil(t, m)
	assert.Equal(t, []metricdata.LabelKey{{Key: "phase"}, {Key: "app"}}, m.Descriptor.LabelKeys)
	assert.Equal(t, "solverdemo", m.TimeSeries[0].LabelValues[1].Value)
}

func TestLogMetricsReporter(t *testing.T) {
	ctx := context.Background()
	reporter := NewLogMetricsReporter()
	reporter.ReportLogEvent(ctx, "warn", "ScoreCorruption", true)
	reporter.ReportLogEvent(ctx, "warn", "ScoreCorruption", true)
	count, _ := LogEventMetric.GetTimeSequence(ctx, "warn", "ScoreCorruption", "true").Get()
	assert.Equal(t, int64(2), count)
}

func TestProcessRegistry(t *testing.T) {
	registry, err := NewProcessRegistry()
	require.Nil(t, err)
	metrics := registry.Read()
	for _, name := range []string{"process_heap_bytes", "process_sys_bytes", "process_goroutines", "process_gc_count", "process_gc_pause_total_ns", "process_gc_cpu_fraction"} {
		require.NotNil(t, findMetric(metrics, name), name)
	}
	goroutines := findMetric(metrics, "process_goroutines")
	require.Equal(t, 1, len(goroutines.TimeSeries))
	assert.True(t, goroutines.TimeSeries[0].Points[0].Value.(int64) > 0)
	heap := findMetric(metrics, "process_heap_bytes")
	assert.True(t, heap.TimeSeries[0].Points[0].Value.(int64) > 0)
}
