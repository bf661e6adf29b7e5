package service

import (
	"context"
	"fmt"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
)

// NewEvent is an event submitted through the API.
type NewEvent struct {
	Source     string
	EventType  domain.EventType
	Confidence float64
	Location   string
	Latitude   float64
	Longitude  float64
	Properties map[string]any
}

// NewEvidence is evidence submitted for an event.
type NewEvidence struct {
	StoragePath  string
	ThumbnailURL string
	Type         domain.EvidenceType
	Title        string
}

func (s *Service) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	return s.store.ListEvents(ctx, filter)
}

func (s *Service) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	return s.store.GetEvent(ctx, id)
}

// CreateEvent stores an operator-submitted event under a fresh ID.
func (s *Service) CreateEvent(ctx context.Context, in NewEvent) (domain.Event, error) {
	props := in.Properties
	if props == nil {
		props = map[string]any{}
	}
	e := domain.Event{
		ID:         domain.NewEventID(),
		Source:     in.Source,
		EventType:  in.EventType,
		Confidence: in.Confidence,
		Location:   in.Location,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Properties: props,
		CreatedAt:  domain.Now(),
	}
	if err := e.Validate(); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if _, err := s.store.InsertEvents(ctx, []domain.Event{e}); err != nil {
		return domain.Event{}, err
	}
	s.logger.Info("event created", "event_id", e.ID, "event_type", e.EventType, "source", e.Source)
	s.publishEvents(ctx, e)
	return e, nil
}

// AddEvidence attaches evidence to an existing event.
func (s *Service) AddEvidence(ctx context.Context, eventID string, in NewEvidence) (domain.Evidence, error) {
	if !in.Type.Valid() {
		return domain.Evidence{}, fmt.Errorf("%w: unknown evidence type %q", ErrInvalid, in.Type)
	}
	ev := domain.Evidence{
		ID:           domain.NewEvidenceID(),
		EventID:      eventID,
		StoragePath:  in.StoragePath,
		ThumbnailURL: in.ThumbnailURL,
		Type:         in.Type,
		Title:        in.Title,
		AddedAt:      domain.Now(),
	}
	if err := s.store.InsertEvidence(ctx, ev); err != nil {
		return domain.Evidence{}, err
	}
	s.logger.Info("evidence attached", "evidence_id", ev.ID, "event_id", eventID, "type", ev.Type)
	return ev, nil
}
