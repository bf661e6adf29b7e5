// Package redis caches generated action plans in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	goredis "github.com/go-redis/redis/v8"
)

const keyPrefix = "plan:"

// PlanCache implements planner.PlanCache on a Redis server.
type PlanCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewPlanCache connects to addr and verifies the connection with a PING.
func NewPlanCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*PlanCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &PlanCache{client: client, ttl: ttl}, nil
}

// Get returns the cached plan for key. A missing key is not an error.
func (c *PlanCache) Get(ctx context.Context, key string) (domain.ActionPlan, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.ActionPlan{}, false, nil
	}
	if err != nil {
		return domain.ActionPlan{}, false, fmt.Errorf("get cached plan: %w", err)
	}
	var plan domain.ActionPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return domain.ActionPlan{}, false, fmt.Errorf("decode cached plan: %w", err)
	}
	return plan, true, nil
}

// Set stores plan under key with the configured TTL.
func (c *PlanCache) Set(ctx context.Context, key string, plan domain.ActionPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached plan: %w", err)
	}
	return nil
}

// CheckReadiness pings the server.
func (c *PlanCache) CheckReadiness(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *PlanCache) Close() error {
	return c.client.Close()
}
