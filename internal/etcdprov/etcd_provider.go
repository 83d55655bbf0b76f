package etcdprov

import (
	"context"
	"sync"
)

type EtcdRevision int64

type EtcdKvItem struct {
	Key         string
	Value       string
	ModRevision EtcdRevision
}

// EtcdProvider is the slice of etcd the solver uses: solver configs are read from it, run results are written back.
// Implementations panic with a kerror on transport failures.
type EtcdProvider interface {
	// Get returns an item with an empty Value and ModRevision 0 when key does not exist.
	Get(ctx context.Context, key string) EtcdKvItem

	// List returns the items under prefix sorted by key. maxCount 0 means no limit.
	List(ctx context.Context, prefix string, maxCount int) []EtcdKvItem

	Set(ctx context.Context, key, value string)
}

var (
	currentMu           sync.Mutex
	currentEtcdProvider EtcdProvider
)

// GetCurrentEtcdProvider lazily connects the default provider (ETCD_ENDPOINTS, ETCD_DIAL_TIMEOUT).
func GetCurrentEtcdProvider(ctx context.Context) EtcdProvider {
	currentMu.Lock()
	defer currentMu.Unlock()
	if currentEtcdProvider == nil {
		currentEtcdProvider = NewDefaultEtcdProvider(ctx)
	}
	return currentEtcdProvider
}

// RunWithEtcdProvider swaps in provider while fn runs, the previous provider comes back even if fn panics.
func RunWithEtcdProvider(provider EtcdProvider, fn func()) {
	currentMu.Lock()
	old := currentEtcdProvider
	currentEtcdProvider = provider
	currentMu.Unlock()
	defer func() {
		currentMu.Lock()
		currentEtcdProvider = old
		currentMu.Unlock()
	}()
	fn()
}
