package participants

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prizedraw/backend/internal/models"
	"github.com/prizedraw/backend/internal/validate"
	"github.com/prizedraw/backend/pkg/response"
)

const (
	defaultDatesLimit = 30
	maxDatesLimit     = 365
)

// Reader is the read side of the store the admin API serves.
type Reader interface {
	ListByDate(ctx context.Context, day time.Time) ([]models.ParticipantEntry, error)
	ListDates(ctx context.Context, limit int) ([]time.Time, error)
	Stats(ctx context.Context) (Stats, error)
}

// Handler handles admin HTTP endpoints over the participant store.
type Handler struct {
	store  Reader
	logger *zap.Logger
}

// NewHandler creates a participants handler.
func NewHandler(store Reader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// ListByDate handles GET /participants?date=DD.MM.YYYY. A malformed date
// is a 400; a valid date with no entries is a 200 with an empty list.
func (h *Handler) ListByDate(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		response.BadRequest(c, "date is required, format DD.MM.YYYY")
		return
	}
	day, err := validate.DrawDate(raw)
	if err != nil {
		response.BadRequest(c, "invalid date, expected DD.MM.YYYY")
		return
	}

	entries, err := h.store.ListByDate(c.Request.Context(), day)
	if err != nil {
		h.logger.Error("list participants failed", zap.Error(err), zap.String("date", raw))
		response.Internal(c, "failed to list participants")
		return
	}
	response.OK(c, gin.H{
		"date":         day.Format("02.01.2006"),
		"total":        len(entries),
		"participants": entries,
	})
}

// ListDates handles GET /participants/dates. Returns the days that have
// entries, newest first.
func (h *Handler) ListDates(c *gin.Context) {
	limit := defaultDatesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxDatesLimit {
			response.BadRequest(c, "limit must be between 1 and "+strconv.Itoa(maxDatesLimit))
			return
		}
		limit = n
	}

	dates, err := h.store.ListDates(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list dates failed", zap.Error(err))
		response.Internal(c, "failed to list dates")
		return
	}
	out := []string{}
	for _, d := range dates {
		out = append(out, d.Format("02.01.2006"))
	}
	response.OK(c, gin.H{"dates": out})
}

// GetStats handles GET /stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		response.Internal(c, "failed to compute stats")
		return
	}
	response.OK(c, stats)
}
