package planner

import (
	"context"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/lru"
)

// MemoryCache is a process-local PlanCache used when Redis is not configured.
type MemoryCache struct {
	plans *lru.Cache[string, domain.ActionPlan]
}

// NewMemoryCache creates a MemoryCache holding at most size plans.
func NewMemoryCache(size int) *MemoryCache {
	return &MemoryCache{plans: lru.New[string, domain.ActionPlan](size)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.ActionPlan, bool, error) {
	p, ok := c.plans.Get(key)
	return p, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, plan domain.ActionPlan) error {
	c.plans.Put(key, plan)
	return nil
}
