package etcdprov

import (
	"context"
	"os"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/klogging"
)

type etcdDefaultProvider struct {
	client *clientv3.Client
}

// NewDefaultEtcdProvider connects to ETCD_ENDPOINTS (comma separated, default localhost:2379).
func NewDefaultEtcdProvider(ctx context.Context) EtcdProvider {
	endpoints := getEndpointsFromEnv()
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: getDialTimeoutFromEnv(),
	})
	if err != nil {
		panic(kerror.Wrap(err, "EtcdConnectError", "failed to connect to etcd", false).
			WithErrorCode(kerror.EC_INTERNAL_ERROR).
			With("endpoints", strings.Join(endpoints, ",")))
	}
	klogging.Info(ctx).With("endpoints", endpoints).Log("EtcdConnected", "")
	return &etcdDefaultProvider{client: client}
}

func (pvd *etcdDefaultProvider) Get(ctx context.Context, key string) EtcdKvItem {
	resp, err := pvd.client.Get(ctx, key)
	if err != nil {
		panic(kerror.Wrap(err, "EtcdGetError", "failed to get key from etcd", false).
			WithErrorCode(kerror.EC_INTERNAL_ERROR).
			With("key", key))
	}
	if len(resp.Kvs) == 0 {
		return EtcdKvItem{Key: key}
	}
	kv := resp.Kvs[0]
	return EtcdKvItem{
		Key:         string(kv.Key),
		Value:       string(kv.Value),
		ModRevision: EtcdRevision(kv.ModRevision),
	}
}

func (pvd *etcdDefaultProvider) List(ctx context.Context, prefix string, maxCount int) []EtcdKvItem {
	opts := []clientv3.OpOption{
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend),
	}
	if maxCount > 0 {
		opts = append(opts, clientv3.WithLimit(int64(maxCount)))
	}
	resp, err := pvd.client.Get(ctx, prefix, opts...)
	if err != nil {
		panic(kerror.Wrap(err, "EtcdListError", "failed to list keys from etcd", false).
			WithErrorCode(kerror.EC_INTERNAL_ERROR).
			With("prefix", prefix))
	}
	items := make([]EtcdKvItem, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		items = append(items, EtcdKvItem{
			Key:         string(kv.Key),
			Value:       string(kv.Value),
			ModRevision: EtcdRevision(kv.ModRevision),
		})
	}
	klogging.Debug(ctx).With("prefix", prefix).With("count", len(items)).Log("EtcdList", "")
	return items
}

func (pvd *etcdDefaultProvider) Set(ctx context.Context, key, value string) {
	if _, err := pvd.client.Put(ctx, key, value); err != nil {
		panic(kerror.Wrap(err, "EtcdPutError", "failed to set key in etcd", false).
			WithErrorCode(kerror.EC_INTERNAL_ERROR).
			With("key", key))
	}
}

func getEndpointsFromEnv() []string {
	if endpoints := os.Getenv("ETCD_ENDPOINTS"); endpoints != "" {
		return strings.Split(endpoints, ",")
	}
	return []string{"localhost:2379"}
}

// getDialTimeoutFromEnv: ETCD_DIAL_TIMEOUT is a go duration ("3s"), default 5s.
func getDialTimeoutFromEnv() time.Duration {
	if timeout := os.Getenv("ETCD_DIAL_TIMEOUT"); timeout != "" {
		if value, err := time.ParseDuration(timeout); err == nil && value > 0 {
			return value
		}
	}
	return 5 * time.Second
}
