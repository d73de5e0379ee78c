package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"SearchAPI/internal/logger"
)

const DefaultRedisKey = "searchapi:whitelists"

// LoadRedis builds a registry from the hash at key: one field per entity
// holding the same YAML document as a whitelist file.
func LoadRedis(ctx context.Context, rdb redis.Cmdable, key string) (*Registry, error) {
	docs, err := rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read whitelists from redis: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no whitelists in redis hash %s", key)
	}

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	reg := New()
	for _, name := range names {
		e, err := ParseEntity(name, []byte(docs[name]))
		if err != nil {
			return nil, fmt.Errorf("redis whitelist %s: %w", name, err)
		}
		if err := reg.Register(e); err != nil {
			return nil, err
		}
	}
	logger.Info("whitelists_loaded_from_redis", map[string]any{"key": key, "entities": len(names)})
	return reg, nil
}

// Publish writes every entity of reg into the hash at key, replacing its
// previous contents in one transaction.
func Publish(ctx context.Context, rdb redis.Cmdable, key string, reg *Registry) error {
	values := make(map[string]any, reg.Len())
	for _, name := range reg.Names() {
		e, _ := reg.Get(name)
		doc, err := MarshalEntity(e)
		if err != nil {
			return fmt.Errorf("marshal whitelist %s: %w", name, err)
		}
		values[name] = string(doc)
	}

	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish whitelists to redis: %w", err)
	}
	logger.Info("whitelists_published", map[string]any{"key": key, "entities": len(values)})
	return nil
}
