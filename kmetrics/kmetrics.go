package kmetrics

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opencensus.io/metric/metricdata"
	"go.opencensus.io/resource"
)

// Kmetric means 1 metric, exported as "<name>_count" and (unless CountOnly) "<name>_sum".
// For each metric name there are multiple time sequences, one per tag value combination.
type Kmetric struct {
	mu          sync.Mutex // lock this only when adding new TimeSequence
	metricName  string
	description string
	tagNames    []string
	collection  atomic.Pointer[timeSequenceCollection]
	startTime   time.Time
	countOnly   bool
}

func CreateKmetric(ctx context.Context, name string, description string, tags []string) *Kmetric {
	km := &Kmetric{
		metricName:  name,
		description: description,
		tagNames:    tags,
		startTime:   time.Now(),
	}
	km.collection.Store(&timeSequenceCollection{dict: map[string]*TimeSequence{}})
	GetKmetricsRegistry().RegisterKmetric(km)
	return km
}

func (km *Kmetric) CountOnly() *Kmetric {
	km.countOnly = true
	return km
}

func (km *Kmetric) Name() string {
	return km.metricName
}

// GetTimeSequence: the tags list has to be the same len as the tagNames in Kmetric, same order as well.
func (km *Kmetric) GetTimeSequence(ctx context.Context, tags ...string) *TimeSequence {
	key := strings.Join(tags, "-")
	if seq, ok := km.collection.Load().dict[key]; ok {
		return seq
	}

	km.mu.Lock()
	defer km.mu.Unlock()
	// double check after lock
	old := km.collection.Load()
	if seq, ok := old.dict[key]; ok {
		return seq
	}
	// copy on write: readers never see a map under mutation
	newCollection := &timeSequenceCollection{dict: make(map[string]*TimeSequence, len(old.dict)+1)}
	for k, v := range old.dict {
		newCollection.dict[k] = v
	}
	labelValues := make([]metricdata.LabelValue, len(tags))
	for i, tag := range tags {
		labelValues[i] = metricdata.NewLabelValue(tag)
	}
	seq := &TimeSequence{parent: km, labelValues: labelValues}
	newCollection.dict[key] = seq
	km.collection.Store(newCollection)
	return seq
}

func (km *Kmetric) read(suffix string, value func(ts *TimeSequence) int64) *metricdata.Metric {
	keys := make([]metricdata.LabelKey, len(km.tagNames))
	for i, tagName := range km.tagNames {
		keys[i] = metricdata.LabelKey{Key: tagName}
	}
	collection := km.collection.Load()
	seqKeys := make([]string, 0, len(collection.dict))
	for k := range collection.dict {
		seqKeys = append(seqKeys, k)
	}
	sort.Strings(seqKeys)

	now := time.Now()
	timeSeries := make([]*metricdata.TimeSeries, 0, len(seqKeys))
	for _, k := range seqKeys {
		ts := collection.dict[k]
		timeSeries = append(timeSeries, &metricdata.TimeSeries{
			LabelValues: append([]metricdata.LabelValue(nil), ts.labelValues...),
			Points:      []metricdata.Point{metricdata.NewInt64Point(now, value(ts))},
			StartTime:   km.startTime,
		})
	}
	return &metricdata.Metric{
		Descriptor: metricdata.Descriptor{
			Name:        km.metricName + suffix,
			Description: km.description,
			Unit:        metricdata.UnitDimensionless,
			Type:        metricdata.TypeCumulativeInt64,
			LabelKeys:   keys,
		},
		Resource:   &resource.Resource{Type: "solvercore", Labels: map[string]string{}},
		TimeSeries: timeSeries,
	}
}

func (km *Kmetric) ReadCount() *metricdata.Metric {
	return km.read("_count", func(ts *TimeSequence) int64 { c, _ := ts.Get(); return c })
}

func (km *Kmetric) ReadSum() *metricdata.Metric {
	return km.read("_sum", func(ts *TimeSequence) int64 { _, s := ts.Get(); return s })
}

// timeSequenceCollection is immutable once published.
type timeSequenceCollection struct {
	dict map[string]*TimeSequence // key is `-` separated tag values, order same as tagNames array
}

// TimeSequence = 1 unique tag value combination
type TimeSequence struct {
	parent      *Kmetric
	labelValues []metricdata.LabelValue
	count       atomic.Int64
	sum         atomic.Int64
}

func (ts *TimeSequence) Add(val int64) {
	ts.count.Add(1)
	ts.sum.Add(val)
}

// Touch does nothing by itself: GetTimeSequence(...).Touch() exports a rare event (score corruption) at 0 before it first happens.
func (ts *TimeSequence) Touch() {
}

func (ts *TimeSequence) Get() (count int64, sum int64) {
	return ts.count.Load(), ts.sum.Load()
}
