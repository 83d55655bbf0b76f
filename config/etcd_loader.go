package config

import (
	"context"

	"github.com/xinkaiwang/solvercore/internal/etcdprov"
	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/klogging"
)

// LoadSolverConfigEtcd reads a yaml (or json, yaml is a superset) solver config stored under key.
// A missing key is EC_NOT_FOUND, transport failures keep the provider's error code.
func LoadSolverConfigEtcd(ctx context.Context, provider etcdprov.EtcdProvider, key string) (*SolverConfigJson, error) {
	var item etcdprov.EtcdKvItem
	if ke := kcommon.TryCatchRun(ctx, func() {
		item = provider.Get(ctx, key)
	}); ke != nil {
		return nil, ke
	}
	if item.ModRevision == 0 {
		return nil, kerror.Create("ConfigNotFound", "no solver config in etcd").With("key", key).WithErrorCode(kerror.EC_NOT_FOUND)
	}
	sjc, err := LoadSolverConfigYaml([]byte(item.Value))
	if err != nil {
		return nil, err
	}
	klogging.Info(ctx).With("key", key).With("revision", item.ModRevision).Log("SolverConfigLoaded", "")
	return sjc, nil
}
