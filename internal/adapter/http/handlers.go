package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type handlers struct {
	svc          *service.Service
	ingester     Ingester
	integrations map[string]bool
	validate     *validator.Validate
	logger       *slog.Logger
}

// bind decodes the JSON body into dst and validates it. On failure the 400
// response is already written and bind returns false.
func (h *handlers) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return false
	}
	return h.check(c, dst)
}

func (h *handlers) check(c *gin.Context, v any) bool {
	err := h.validate.Struct(v)
	if err == nil {
		return true
	}
	missing, invalid, ok := fieldErrors(err)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}

	body := gin.H{}
	var msgs []string
	if len(missing) > 0 {
		body["missing"] = missing
		msgs = append(msgs, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		body["invalid"] = invalid
		msgs = append(msgs, "Invalid fields: "+strings.Join(invalid, ", "))
	}
	body["error"] = strings.Join(msgs, "; ")
	c.JSON(http.StatusBadRequest, body)
	return false
}

// fail maps a service error onto a status code. notFound is the message
// used for 404s and failed describes the operation for 500s.
func (h *handlers) fail(c *gin.Context, err error, notFound, failed string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalid), errors.Is(err, service.ErrNoEvent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(strings.ToLower(failed), "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failed})
	}
}

// queryLimit reads ?limit=. Absent means the store default.
func queryLimit(c *gin.Context) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return domain.ClampLimit(n), true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
