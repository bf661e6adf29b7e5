package memory

import (
	"context"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
)

// NewDemo returns a store seeded with the demo dataset, timestamped relative
// to the domain clock.
func NewDemo() *Store {
	s := New()
	ctx := context.Background()
	now := domain.Now()
	ago := func(m int) time.Time { return now.Add(-time.Duration(m) * time.Minute) }

	events := []domain.Event{
		{
			ID:         "evt_demo_001",
			Source:     "firms",
			EventType:  domain.EventTypeFire,
			Confidence: 0.94,
			Location:   "Uttarakhand, Northern Ridge",
			Latitude:   30.45,
			Longitude:  78.15,
			Properties: map[string]any{"brightness": 320.0, "satellite": "VIIRS"},
			CreatedAt:  ago(2),
		},
		{
			ID:         "evt_demo_002",
			Source:     "deforestation_model",
			EventType:  domain.EventTypeDeforestation,
			Confidence: 0.87,
			Location:   "Madhya Pradesh",
			Latitude:   22.9,
			Longitude:  78.65,
			Properties: map[string]any{"area_hectares": 250.0},
			CreatedAt:  ago(15),
		},
		{
			ID:         "evt_demo_003",
			Source:     "aqi_api",
			EventType:  domain.EventTypePollution,
			Confidence: 0.91,
			Location:   "Delhi NCR",
			Latitude:   28.5,
			Longitude:  77.1,
			Properties: map[string]any{"aqi": 387.0},
			CreatedAt:  ago(28),
		},
		{
			ID:         "evt_demo_004",
			Source:     "flood_model",
			EventType:  domain.EventTypeFlood,
			Confidence: 0.78,
			Location:   "Bihar, Kosi Basin",
			Latitude:   26.15,
			Longitude:  87.5,
			Properties: map[string]any{"rainfall_mm": 85.0},
			CreatedAt:  ago(60),
		},
	}
	_, _ = s.InsertEvents(ctx, events)

	_ = s.InsertAlerts(ctx, []domain.Alert{{
		ID:       "alrt_demo_001",
		EventID:  "evt_demo_001",
		Severity: domain.ClassifySeverity(domain.EventTypeFire, 0.94),
		Status:   domain.StatusOpen,
		SuggestedActions: domain.ActionPlan{
			Immediate: []string{
				"Evacuate villages within 5km radius",
				"Deploy 8 fire truck units from nearest stations",
				"Alert medical centers for potential casualties",
				"Establish command center at district HQ",
			},
			MediumTerm: []string{
				"Set up 20 relief camps",
				"Arrange food and water supply for 10,000 people",
				"Deploy forest personnel for containment",
			},
			Resources: []domain.Resource{
				{Name: "Fire Trucks", Quantity: 8},
				{Name: "Helicopters", Quantity: 2},
			},
			SMS:         "ALERT: Forest fire near Mussoorie. Evacuate immediately. Call 112. -RAKSHAK",
			LegalNotice: "Government Order issued for immediate evacuation under Disaster Management Act 2005",
		},
		CreatedAt: ago(2),
		UpdatedAt: ago(2),
	}})

	_ = s.InsertEvidence(ctx, domain.Evidence{
		ID:           "evd_demo_001",
		EventID:      "evt_demo_001",
		StoragePath:  "evidence/evt_demo_001/viirs-thermal.png",
		ThumbnailURL: "data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' width='400' height='300'><rect fill='%23ff6b6b' width='400' height='300'/><circle cx='200' cy='150' r='80' fill='%23ff3333'/></svg>",
		Type:         domain.EvidenceSatellite,
		Title:        "Thermal infrared showing active fire hotspot",
		AddedAt:      ago(2),
	})
	return s
}
