package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/spigell/sourcer/internal/candidate"
)

const defaultKeyPrefix = "sourcer:profiles:"

// Redis is a durable ProfileCache. Expiry is delegated to the server.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewRedisClient parses a redis:// url and returns a traced client.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("instrumenting redis client: %w", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// NewRedis wraps a redis client. A non-positive ttl means DefaultTTL.
func NewRedis(client redis.Cmdable, ttl time.Duration, prefix string) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &Redis{client: client, ttl: ttl, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, query string) ([]candidate.Raw, bool, error) {
	data, err := r.client.Get(ctx, r.key(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached profiles: %w", err)
	}

	var results []candidate.Raw
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, fmt.Errorf("decoding cached profiles: %w", err)
	}

	return results, true, nil
}

func (r *Redis) Put(ctx context.Context, query string, results []candidate.Raw) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}

	if err := r.client.Set(ctx, r.key(query), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing cached profiles: %w", err)
	}

	return nil
}

func (r *Redis) key(query string) string {
	sum := sha256.Sum256([]byte(NormalizeQuery(query)))
	return r.prefix + hex.EncodeToString(sum[:])
}
