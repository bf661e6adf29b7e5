// Package planner drafts action plans for alerts. A configured text
// generator is asked first; any failure falls back to the canned plan for the
// event type, so Generate always returns a usable plan.
package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
)

// TextGenerator turns a prompt into free text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PlanCache stores generated plans by request key.
type PlanCache interface {
	Get(ctx context.Context, key string) (domain.ActionPlan, bool, error)
	Set(ctx context.Context, key string, plan domain.ActionPlan) error
}

// Source records where a plan came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Request is the incident context handed to the generator.
type Request struct {
	Event              domain.Event
	PredictedSpread    string
	NearbyVillages     []string
	ResourcesAvailable map[string]int
}

// Generator produces action plans.
type Generator struct {
	llm     TextGenerator
	cache   PlanCache
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewGenerator creates a Generator. llm and cache may be nil.
func NewGenerator(llm TextGenerator, cache PlanCache, metrics *observability.Metrics, logger *slog.Logger) *Generator {
	return &Generator{
		llm:     llm,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Generate returns a plan for req and the source that produced it.
func (g *Generator) Generate(ctx context.Context, req Request) (domain.ActionPlan, Source) {
	if g.llm == nil {
		return g.fallback(req), SourceFallback
	}

	key := CacheKey(req)
	if g.cache != nil {
		plan, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("plan cache read failed", "key", key, "error", err)
		} else if ok {
			g.metrics.PlanGenerations.WithLabelValues(string(SourceCache)).Inc()
			return plan, SourceCache
		}
	}

	text, err := g.llm.Generate(ctx, BuildPrompt(req))
	if err != nil {
		g.logger.Warn("plan generation failed, using fallback",
			"event_id", req.Event.ID,
			"error", err,
		)
		return g.fallback(req), SourceFallback
	}

	plan, ok := ExtractPlan(text)
	if !ok {
		g.logger.Warn("no action plan in generated text, using fallback",
			"event_id", req.Event.ID,
			"response_length", len(text),
		)
		return g.fallback(req), SourceFallback
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, plan); err != nil {
			g.logger.Warn("plan cache write failed", "key", key, "error", err)
		}
	}
	g.metrics.PlanGenerations.WithLabelValues(string(SourceLLM)).Inc()
	return plan, SourceLLM
}

func (g *Generator) fallback(req Request) domain.ActionPlan {
	g.metrics.PlanGenerations.WithLabelValues(string(SourceFallback)).Inc()
	return domain.FallbackPlan(req.Event.EventType, req.Event.Location)
}

// CacheKey hashes the parts of req that shape the prompt. The event ID and
// the current time are left out so identical incidents share a plan.
func CacheKey(req Request) string {
	b, _ := json.Marshal(struct {
		Type       domain.EventType `json:"t"`
		Location   string           `json:"l"`
		Confidence float64          `json:"c"`
		Spread     string           `json:"s"`
		Villages   []string         `json:"v"`
		Resources  map[string]int   `json:"r"`
	}{
		Type:       req.Event.EventType,
		Location:   req.Event.Location,
		Confidence: req.Event.Confidence,
		Spread:     req.PredictedSpread,
		Villages:   req.NearbyVillages,
		Resources:  req.ResourcesAvailable,
	})
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:16])
}
