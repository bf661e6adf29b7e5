package database

import (
	"encoding/json"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"gorm.io/datatypes"
)

// Timestamps come from the domain clock, so gorm's automatic stamping is off.

type eventModel struct {
	ID         string            `gorm:"column:id;primaryKey"`
	Source     string            `gorm:"column:source;not null"`
	EventType  string            `gorm:"column:event_type;not null;index"`
	Confidence float64           `gorm:"column:confidence;not null"`
	Location   string            `gorm:"column:location"`
	Latitude   float64           `gorm:"column:latitude;not null"`
	Longitude  float64           `gorm:"column:longitude;not null"`
	Properties datatypes.JSONMap `gorm:"column:properties"`
	CreatedAt  time.Time         `gorm:"column:created_at;not null;index;autoCreateTime:false"`
}

func (eventModel) TableName() string {
	return "events"
}

type alertModel struct {
	ID               string                                `gorm:"column:id;primaryKey"`
	EventID          string                                `gorm:"column:event_id;not null;index"`
	Severity         string                                `gorm:"column:severity;not null;index"`
	Status           string                                `gorm:"column:status;not null;index"`
	SuggestedActions datatypes.JSONType[domain.ActionPlan] `gorm:"column:suggested_actions"`
	GeneratedPDFURL  string                                `gorm:"column:generated_pdf_url"`
	CreatedAt        time.Time                             `gorm:"column:created_at;not null;index;autoCreateTime:false"`
	UpdatedAt        time.Time                             `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (alertModel) TableName() string {
	return "alerts"
}

type evidenceModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	EventID      string    `gorm:"column:event_id;not null;index"`
	StoragePath  string    `gorm:"column:storage_path"`
	ThumbnailURL string    `gorm:"column:thumbnail_url"`
	Type         string    `gorm:"column:type;not null"`
	Title        string    `gorm:"column:title"`
	AddedAt      time.Time `gorm:"column:added_at;not null"`
}

func (evidenceModel) TableName() string {
	return "evidences"
}

func fromEvent(e domain.Event) eventModel {
	return eventModel{
		ID:         e.ID,
		Source:     e.Source,
		EventType:  string(e.EventType),
		Confidence: e.Confidence,
		Location:   e.Location,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		Properties: datatypes.JSONMap(e.Properties),
		CreatedAt:  e.CreatedAt.UTC(),
	}
}

func (m eventModel) toDomain() domain.Event {
	props := plainProperties(m.Properties)
	return domain.Event{
		ID:         m.ID,
		Source:     m.Source,
		EventType:  domain.EventType(m.EventType),
		Confidence: m.Confidence,
		Location:   m.Location,
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		Properties: props,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// plainProperties re-decodes a scanned JSONMap so numbers are float64, as
// they are for events that never left memory. JSONMap scans with UseNumber.
func plainProperties(m datatypes.JSONMap) map[string]any {
	props := map[string]any{}
	if len(m) == 0 {
		return props
	}
	raw, err := json.Marshal(map[string]any(m))
	if err != nil {
		return map[string]any(m)
	}
	if err := json.Unmarshal(raw, &props); err != nil {
		return map[string]any(m)
	}
	return props
}

func fromAlert(a domain.Alert) alertModel {
	return alertModel{
		ID:               a.ID,
		EventID:          a.EventID,
		Severity:         string(a.Severity),
		Status:           string(a.Status),
		SuggestedActions: datatypes.NewJSONType(a.SuggestedActions),
		GeneratedPDFURL:  a.GeneratedPDFURL,
		CreatedAt:        a.CreatedAt.UTC(),
		UpdatedAt:        a.UpdatedAt.UTC(),
	}
}

func (m alertModel) toDomain() domain.Alert {
	return domain.Alert{
		ID:               m.ID,
		EventID:          m.EventID,
		Severity:         domain.Severity(m.Severity),
		Status:           domain.AlertStatus(m.Status),
		SuggestedActions: m.SuggestedActions.Data(),
		GeneratedPDFURL:  m.GeneratedPDFURL,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

func fromEvidence(e domain.Evidence) evidenceModel {
	return evidenceModel{
		ID:           e.ID,
		EventID:      e.EventID,
		StoragePath:  e.StoragePath,
		ThumbnailURL: e.ThumbnailURL,
		Type:         string(e.Type),
		Title:        e.Title,
		AddedAt:      e.AddedAt.UTC(),
	}
}

func (m evidenceModel) toDomain() domain.Evidence {
	return domain.Evidence{
		ID:           m.ID,
		EventID:      m.EventID,
		StoragePath:  m.StoragePath,
		ThumbnailURL: m.ThumbnailURL,
		Type:         domain.EvidenceType(m.Type),
		Title:        m.Title,
		AddedAt:      m.AddedAt.UTC(),
	}
}
