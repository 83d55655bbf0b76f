package etcdprov

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// FakeEtcdProvider keeps everything in memory, every Set bumps the revision.
type FakeEtcdProvider struct {
	mu              sync.RWMutex
	data            map[string]EtcdKvItem
	currentRevision EtcdRevision
}

func NewFakeEtcdProvider() *FakeEtcdProvider {
	return &FakeEtcdProvider{
		data:            make(map[string]EtcdKvItem),
		currentRevision: 1,
	}
}

func (f *FakeEtcdProvider) Get(ctx context.Context, key string) EtcdKvItem {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if item, ok := f.data[key]; ok {
		return item
	}
	return EtcdKvItem{Key: key}
}

func (f *FakeEtcdProvider) List(ctx context.Context, prefix string, maxCount int) []EtcdKvItem {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var items []EtcdKvItem
	for key, item := range f.data {
		if strings.HasPrefix(key, prefix) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	if maxCount > 0 && len(items) > maxCount {
		items = items[:maxCount]
	}
	return items
}

func (f *FakeEtcdProvider) Set(ctx context.Context, key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentRevision++
	f.data[key] = EtcdKvItem{Key: key, Value: value, ModRevision: f.currentRevision}
}
