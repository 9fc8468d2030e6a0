package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no decision is cached for the token.
var ErrCacheMiss = errors.New("decision cache miss")

// CachedDecision is the stored snapshot of an authorization outcome. Both
// allow and deny outcomes are cached; a cached allow stays valid for the full
// TTL even if permissions change in that window.
type CachedDecision struct {
	Allow   bool              `json:"allow"`
	Reason  string            `json:"reason,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

// DecisionCache caches authorization outcomes keyed by a hash of the raw
// bearer token. Entries expire by TTL only; there is no revocation path.
type DecisionCache interface {
	Get(ctx context.Context, tokenHash string) (*CachedDecision, error)
	Set(ctx context.Context, tokenHash string, value *CachedDecision, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisClient(url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opt.PoolSize = poolSize

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewDecisionCache(client *redis.Client) DecisionCache {
	return &redisCache{client: client}
}

func (r *redisCache) Get(ctx context.Context, tokenHash string) (*CachedDecision, error) {
	key := decisionKey(tokenHash)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var decision CachedDecision
	if err := json.Unmarshal([]byte(val), &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached decision: %w", err)
	}

	return &decision, nil
}

func (r *redisCache) Set(ctx context.Context, tokenHash string, value *CachedDecision, ttl time.Duration) error {
	key := decisionKey(tokenHash)
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cached decision: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set redis cache: %w", err)
	}

	return nil
}

func decisionKey(tokenHash string) string {
	return fmt.Sprintf("authz:decision:%s", tokenHash)
}
