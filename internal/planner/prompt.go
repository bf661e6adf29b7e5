package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
)

// BuildPrompt renders the incident into the instruction sent to the text
// generator. The reply is expected to contain one JSON object.
func BuildPrompt(req Request) string {
	e := req.Event

	eventType := string(e.EventType)
	if eventType == "" {
		eventType = "unknown"
	}
	location := e.Location
	if location == "" {
		location = "Unknown location"
	}
	spread := req.PredictedSpread
	if spread == "" {
		spread = "Unknown"
	}
	villages := strings.Join(req.NearbyVillages, ", ")
	if villages == "" {
		villages = "None identified"
	}

	var b strings.Builder
	b.WriteString("You are an emergency response AI assistant for the Indian government. ")
	b.WriteString("Analyze this environmental incident and generate immediate action recommendations.\n\n")
	b.WriteString("INCIDENT DATA:\n")
	fmt.Fprintf(&b, "- Type: %s\n", eventType)
	fmt.Fprintf(&b, "- Location: %s\n", location)
	fmt.Fprintf(&b, "- Coordinates: %.4f, %.4f\n", e.Latitude, e.Longitude)
	fmt.Fprintf(&b, "- Confidence: %d%%\n", int(math.Round(e.Confidence*100)))
	fmt.Fprintf(&b, "- Predicted Spread: %s\n", spread)
	fmt.Fprintf(&b, "- Nearby Villages: %s\n", villages)
	fmt.Fprintf(&b, "- Resources Available: %s\n", formatResources(req.ResourcesAvailable))
	fmt.Fprintf(&b, "- Time: %s\n\n", domain.Now().Format(time.RFC3339))
	b.WriteString(`Generate a JSON response with:
{
  "immediate": ["action1", "action2", ...] (3-4 critical actions for first hour),
  "medium_term": ["action1", "action2", ...] (2-3 medium-term actions),
  "resources": [{"name": "resource", "quantity": number}, ...],
  "sms": "SMS alert message (max 160 chars)",
  "legal_notice": "If applicable, draft of legal notice"
}

Focus on actionable, specific instructions that government officers can execute immediately.`)
	return b.String()
}

func formatResources(r map[string]int) string {
	if len(r) == 0 {
		return "Not specified"
	}
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %d", name, r[name])
	}
	return strings.Join(parts, ", ")
}
