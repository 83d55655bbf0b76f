package kmetrics

import (
	"context"
	"sort"
	"sync"

	"github.com/xinkaiwang/solvercore/klogging"
	"go.opencensus.io/metric/metricdata"
)

// KmetricsRegistry implements the metricproducer.Producer interface.
type KmetricsRegistry struct {
	mu         sync.Mutex
	dict       map[string]*Kmetric
	globalTags map[string]string
}

func NewKmetricsRegistry() *KmetricsRegistry {
	return &KmetricsRegistry{
		dict:       make(map[string]*Kmetric),
		globalTags: make(map[string]string),
	}
}

var kmetricsRegistry = NewKmetricsRegistry()

// GetKmetricsRegistry returns the process wide registry.
func GetKmetricsRegistry() *KmetricsRegistry {
	return kmetricsRegistry
}

func (registry *KmetricsRegistry) RegisterKmetric(km *Kmetric) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, tagName := range km.tagNames {
		if _, exists := registry.globalTags[tagName]; exists {
			klogging.Warning(context.Background()).With("tagName", tagName).With("metricName", km.metricName).Log("TagNameConflict", "metric tag shadows a global tag")
		}
	}
	registry.dict[km.metricName] = km
}

// AddGlobalTag attaches key=value to every metric read from this registry.
func (registry *KmetricsRegistry) AddGlobalTag(key, value string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.globalTags[key] = value
}

// Read implements metricproducer.Producer. Output is sorted by metric name.
func (registry *KmetricsRegistry) Read() []*metricdata.Metric {
	registry.mu.Lock()
	names := make([]string, 0, len(registry.dict))
	kms := make(map[string]*Kmetric, len(registry.dict))
	for name, km := range registry.dict {
		names = append(names, name)
		kms[name] = km
	}
	globalTags := make(map[string]string, len(registry.globalTags))
	for k, v := range registry.globalTags {
		globalTags[k] = v
	}
	registry.mu.Unlock()
	sort.Strings(names)

	list := []*metricdata.Metric{}
	for _, name := range names {
		km := kms[name]
		list = append(list, attachGlobalTags(km.ReadCount(), globalTags))
		if !km.countOnly {
			list = append(list, attachGlobalTags(km.ReadSum(), globalTags))
		}
	}
	return list
}

func attachGlobalTags(metric *metricdata.Metric, globalTags map[string]string) *metricdata.Metric {
	keys := make([]string, 0, len(globalTags))
	for k := range globalTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		metric.Descriptor.LabelKeys = append(metric.Descriptor.LabelKeys, metricdata.LabelKey{Key: key})
		for _, ts := range metric.TimeSeries {
			ts.LabelValues = append(ts.LabelValues, metricdata.NewLabelValue(globalTags[key]))
		}
	}
	return metric
}
