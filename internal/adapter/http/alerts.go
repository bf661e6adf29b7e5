package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/service"
	"github.com/gin-gonic/gin"
)

type generateRequest struct {
	EventID            string            `json:"event_id"`
	EventDetails       *eventDetailsBody `json:"event_details"`
	PredictedSpread    string            `json:"predicted_spread"`
	NearbyVillages     []string          `json:"nearby_villages"`
	ResourcesAvailable map[string]int    `json:"resources_available"`
}

type eventDetailsBody struct {
	EventType  string  `json:"event_type" validate:"omitempty,oneof=fire deforestation pollution flood"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	Location   string  `json:"location"`
	Latitude   float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type alertPatchRequest struct {
	Severity         *string            `json:"severity" validate:"omitempty,oneof=critical high medium low"`
	Status           *string            `json:"status" validate:"omitempty,oneof=open acknowledged resolved"`
	SuggestedActions *domain.ActionPlan `json:"suggested_actions"`
	GeneratedPDFURL  *string            `json:"generated_pdf_url" validate:"omitempty,url"`
}

func (h *handlers) listAlerts(c *gin.Context) {
	var filter domain.AlertFilter
	if s := c.Query("severity"); s != "" {
		sev, err := domain.ParseSeverity(s)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Severity = sev
	}
	if s := c.Query("status"); s != "" {
		st, err := domain.ParseAlertStatus(s)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Status = st
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	filter.Limit = limit

	alerts, err := h.svc.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "", "Failed to fetch alerts")
		return
	}
	if alerts == nil {
		alerts = []domain.AlertDetail{}
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *handlers) getAlert(c *gin.Context) {
	a, err := h.svc.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Alert not found", "Failed to fetch alert")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) generatePlan(c *gin.Context) {
	var req generateRequest
	// An empty body is allowed: the alert in the path names the event.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
			return
		}
	}
	if req.EventDetails != nil && !h.check(c, req.EventDetails) {
		return
	}

	in := service.GenerateRequest{
		EventID:            req.EventID,
		PredictedSpread:    req.PredictedSpread,
		NearbyVillages:     req.NearbyVillages,
		ResourcesAvailable: req.ResourcesAvailable,
	}
	if d := req.EventDetails; d != nil {
		in.EventDetails = &service.EventDetails{
			EventType:  domain.EventType(d.EventType),
			Confidence: d.Confidence,
			Location:   d.Location,
			Latitude:   d.Latitude,
			Longitude:  d.Longitude,
		}
	}

	res, err := h.svc.GeneratePlan(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err, "Event not found", "Failed to generate action")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) updateAlert(c *gin.Context) {
	var req alertPatchRequest
	if !h.bind(c, &req) {
		return
	}

	var patch service.AlertPatch
	if req.Severity != nil {
		sev := domain.Severity(*req.Severity)
		patch.Severity = &sev
	}
	if req.Status != nil {
		st := domain.AlertStatus(*req.Status)
		patch.Status = &st
	}
	patch.SuggestedActions = req.SuggestedActions
	patch.GeneratedPDFURL = req.GeneratedPDFURL

	a, err := h.svc.UpdateAlert(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err, "Alert not found", "Failed to update alert")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) acknowledgeAlert(c *gin.Context) {
	a, err := h.svc.Acknowledge(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Alert not found", "Failed to acknowledge alert")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) resolveAlert(c *gin.Context) {
	a, err := h.svc.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Alert not found", "Failed to resolve alert")
		return
	}
	c.JSON(http.StatusOK, a)
}
