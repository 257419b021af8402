// Package redisstore keeps session data in Redis, for kiosk deployments where
// several terminals of the village office share one store. Keys are
// namespaced per device: <prefix><deviceID>:<key>.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/desabantuin/internal/client/storage"
	"github.com/redis/go-redis/v9"
)

// ErrReadInUpdate is returned by Get on the handle passed to Update:
// MULTI/EXEC queues commands, so values are not available until EXEC.
var ErrReadInUpdate = errors.New("redisstore: reads are not supported inside Update")

type Backend struct {
	rdb       redis.UniversalClient
	namespace string
}

func New(rdb redis.UniversalClient, prefix, deviceID string) *Backend {
	return &Backend{rdb: rdb, namespace: prefix + deviceID + ":"}
}

func (b *Backend) key(k string) string {
	return b.namespace + k
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.rdb.Get(ctx, b.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if err := b.rdb.Set(ctx, b.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.rdb.Del(ctx, b.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Update queues fn's writes in a MULTI/EXEC transaction. Nothing is sent
// when fn fails.
func (b *Backend) Update(ctx context.Context, fn func(ctx context.Context, tx storage.Backend) error) error {
	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return fn(ctx, &txBackend{pipe: pipe, b: b})
	})
	if err != nil {
		return fmt.Errorf("redis update: %w", err)
	}
	return nil
}

type txBackend struct {
	pipe redis.Pipeliner
	b    *Backend
}

func (t *txBackend) Get(context.Context, string) ([]byte, error) {
	return nil, ErrReadInUpdate
}

func (t *txBackend) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	return t.pipe.Set(ctx, t.b.key(key), value, 0).Err()
}

func (t *txBackend) Delete(ctx context.Context, key string) error {
	return t.pipe.Del(ctx, t.b.key(key)).Err()
}
