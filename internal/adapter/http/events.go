package http

import (
	"net/http"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/service"
	"github.com/gin-gonic/gin"
)

type createEventRequest struct {
	Source     string         `json:"source" validate:"required"`
	EventType  string         `json:"event_type" validate:"required,oneof=fire deforestation pollution flood"`
	Confidence *float64       `json:"confidence" validate:"required,gte=0,lte=1"`
	Location   string         `json:"location" validate:"required"`
	Latitude   *float64       `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude  *float64       `json:"longitude" validate:"required,gte=-180,lte=180"`
	Properties map[string]any `json:"properties"`
}

type addEvidenceRequest struct {
	StoragePath  string `json:"storage_path" validate:"required"`
	ThumbnailURL string `json:"thumbnail_url"`
	Type         string `json:"type" validate:"required,oneof=satellite sensor model"`
	Title        string `json:"title" validate:"required"`
}

func (h *handlers) listEvents(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	h.respondEvents(c, domain.EventFilter{Limit: limit})
}

func (h *handlers) listEventsByType(c *gin.Context) {
	t, err := domain.ParseEventType(c.Param("type"))
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	h.respondEvents(c, domain.EventFilter{Type: t, Limit: limit})
}

func (h *handlers) listEventsBySeverity(c *gin.Context) {
	sev, err := domain.ParseSeverity(c.Param("severity"))
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	h.respondEvents(c, domain.EventFilter{Severity: sev, Limit: limit})
}

func (h *handlers) respondEvents(c *gin.Context, filter domain.EventFilter) {
	events, err := h.svc.ListEvents(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "", "Failed to fetch events")
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func (h *handlers) getEvent(c *gin.Context) {
	e, err := h.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Event not found", "Failed to fetch event")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) createEvent(c *gin.Context) {
	var req createEventRequest
	if !h.bind(c, &req) {
		return
	}

	e, err := h.svc.CreateEvent(c.Request.Context(), service.NewEvent{
		Source:     req.Source,
		EventType:  domain.EventType(req.EventType),
		Confidence: *req.Confidence,
		Location:   req.Location,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Properties: req.Properties,
	})
	if err != nil {
		h.fail(c, err, "", "Failed to create event")
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *handlers) addEvidence(c *gin.Context) {
	var req addEvidenceRequest
	if !h.bind(c, &req) {
		return
	}

	ev, err := h.svc.AddEvidence(c.Request.Context(), c.Param("id"), service.NewEvidence{
		StoragePath:  req.StoragePath,
		ThumbnailURL: req.ThumbnailURL,
		Type:         domain.EvidenceType(req.Type),
		Title:        req.Title,
	})
	if err != nil {
		h.fail(c, err, "Event not found", "Failed to add evidence")
		return
	}
	c.JSON(http.StatusCreated, ev)
}
