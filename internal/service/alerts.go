package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/planner"
)

// GenerateRequest asks for an action plan. EventID may be empty when the
// alert already exists; EventDetails, when set, replaces the stored event's
// descriptive fields in the prompt.
type GenerateRequest struct {
	EventID            string
	EventDetails       *EventDetails
	PredictedSpread    string
	NearbyVillages     []string
	ResourcesAvailable map[string]int
}

// EventDetails overrides parts of the stored event for plan generation.
// Zero fields keep the stored value.
type EventDetails struct {
	EventType  domain.EventType
	Confidence float64
	Location   string
	Latitude   float64
	Longitude  float64
}

// PlanResult is the outcome of GeneratePlan.
type PlanResult struct {
	Alert   domain.Alert      `json:"alert"`
	Actions domain.ActionPlan `json:"actions"`
	Source  planner.Source    `json:"source"`
}

// AlertPatch is a partial alert update. Nil fields are left unchanged.
type AlertPatch struct {
	Severity         *domain.Severity
	Status           *domain.AlertStatus
	SuggestedActions *domain.ActionPlan
	GeneratedPDFURL  *string
}

func (s *Service) ListAlerts(ctx context.Context, filter domain.AlertFilter) ([]domain.AlertDetail, error) {
	return s.store.ListAlerts(ctx, filter)
}

func (s *Service) GetAlert(ctx context.Context, id string) (domain.AlertDetail, error) {
	return s.store.GetAlert(ctx, id)
}

// GeneratePlan drafts a plan for an event and stores it on the event's
// alert, creating the alert when the event has none yet.
func (s *Service) GeneratePlan(ctx context.Context, alertID string, req GenerateRequest) (PlanResult, error) {
	eventID, err := s.resolveEventID(ctx, alertID, req.EventID)
	if err != nil {
		return PlanResult{}, err
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return PlanResult{}, err
	}
	if req.EventDetails != nil {
		event = req.EventDetails.apply(event)
	}

	plan, source := s.plans.Generate(ctx, planner.Request{
		Event:              event,
		PredictedSpread:    req.PredictedSpread,
		NearbyVillages:     req.NearbyVillages,
		ResourcesAvailable: req.ResourcesAvailable,
	})

	now := domain.Now()
	alert, err := s.store.AlertForEvent(ctx, eventID)
	switch {
	case err == nil:
		alert.SuggestedActions = plan
		alert.UpdatedAt = now
		if err := s.store.UpdateAlert(ctx, alert); err != nil {
			return PlanResult{}, err
		}
	case errors.Is(err, domain.ErrNotFound):
		alert = domain.Alert{
			ID:               domain.AlertID(eventID),
			EventID:          eventID,
			Severity:         domain.ClassifySeverity(event.EventType, event.Confidence),
			Status:           domain.StatusOpen,
			SuggestedActions: plan,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.store.InsertAlerts(ctx, []domain.Alert{alert}); err != nil {
			return PlanResult{}, err
		}
		s.metrics.AlertsCreated.WithLabelValues("operator").Inc()
	default:
		return PlanResult{}, err
	}

	s.logger.Info("action plan generated", "alert_id", alert.ID, "event_id", eventID, "source", source)
	s.publishAlerts(ctx, alert)
	return PlanResult{Alert: alert, Actions: plan, Source: source}, nil
}

// resolveEventID prefers the explicit event ID and falls back to the event
// of the addressed alert.
func (s *Service) resolveEventID(ctx context.Context, alertID, eventID string) (string, error) {
	if eventID != "" {
		return eventID, nil
	}
	if alertID == "" {
		return "", ErrNoEvent
	}
	detail, err := s.store.GetAlert(ctx, alertID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", ErrNoEvent
	}
	if err != nil {
		return "", err
	}
	return detail.EventID, nil
}

// UpdateAlert merges the patch into the stored alert and stamps updated_at.
func (s *Service) UpdateAlert(ctx context.Context, id string, patch AlertPatch) (domain.Alert, error) {
	detail, err := s.store.GetAlert(ctx, id)
	if err != nil {
		return domain.Alert{}, err
	}
	alert := detail.Alert

	if patch.Severity != nil {
		if !patch.Severity.Valid() {
			return domain.Alert{}, fmt.Errorf("%w: unknown severity %q", ErrInvalid, *patch.Severity)
		}
		alert.Severity = *patch.Severity
	}
	if patch.Status != nil {
		if !alert.Status.CanTransition(*patch.Status) {
			return domain.Alert{}, fmt.Errorf("%s to %s: %w", alert.Status, *patch.Status, domain.ErrInvalidTransition)
		}
		alert.Status = *patch.Status
	}
	if patch.SuggestedActions != nil {
		alert.SuggestedActions = *patch.SuggestedActions
	}
	if patch.GeneratedPDFURL != nil {
		alert.GeneratedPDFURL = *patch.GeneratedPDFURL
	}
	alert.UpdatedAt = domain.Now()

	if err := s.store.UpdateAlert(ctx, alert); err != nil {
		return domain.Alert{}, err
	}
	s.publishAlerts(ctx, alert)
	return alert, nil
}

func (s *Service) Acknowledge(ctx context.Context, id string) (domain.Alert, error) {
	status := domain.StatusAcknowledged
	return s.UpdateAlert(ctx, id, AlertPatch{Status: &status})
}

func (s *Service) Resolve(ctx context.Context, id string) (domain.Alert, error) {
	status := domain.StatusResolved
	return s.UpdateAlert(ctx, id, AlertPatch{Status: &status})
}

func (d EventDetails) apply(e domain.Event) domain.Event {
	if d.EventType != "" {
		e.EventType = d.EventType
	}
	if d.Confidence != 0 {
		e.Confidence = d.Confidence
	}
	if d.Location != "" {
		e.Location = d.Location
	}
	if d.Latitude != 0 {
		e.Latitude = d.Latitude
	}
	if d.Longitude != 0 {
		e.Longitude = d.Longitude
	}
	return e
}
