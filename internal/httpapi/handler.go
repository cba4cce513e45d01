package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janbrzo/edooqoo/internal/store"
	"github.com/janbrzo/edooqoo/internal/worksheet"
)

const (
	dailyLimitMessage = "You have reached your daily limit of worksheet generations. Please try again tomorrow."
	generationMessage = "Failed to generate the worksheet. Please try again."
)

// errorEnvelope is the error body shape for all non-2xx responses.
type errorEnvelope struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorEnvelope{Error: msg})
}

// generateRequest is the inbound generation payload. The exercise count
// is derived from the lesson duration mentioned in the prompt text, not
// sent explicitly.
type generateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

// generateResponse is the stored document plus its identifier.
type generateResponse struct {
	ID string `json:"id"`
	*worksheet.Worksheet
}

// WorksheetHandler serves worksheet generation and retrieval.
type WorksheetHandler struct {
	pipeline   *worksheet.Orchestrator
	rateLimits *store.RateLimitRepo
	worksheets *store.WorksheetRepo
	cfg        worksheet.Config
	log        *zap.Logger

	// now is swappable for rate-limit boundary tests.
	now func() time.Time
}

// NewWorksheetHandler wires the pipeline and repositories.
func NewWorksheetHandler(pipeline *worksheet.Orchestrator, st *store.Store, cfg worksheet.Config, log *zap.Logger) *WorksheetHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorksheetHandler{
		pipeline:   pipeline,
		rateLimits: st.RateLimits(),
		worksheets: st.Worksheets(),
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// Generate runs the full pipeline for one request. The rate limit is
// consumed before any generation call is attempted.
func (h *WorksheetHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "prompt and user_id are required")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(c, http.StatusBadRequest, "prompt must not be empty")
		return
	}

	remaining, err := h.rateLimits.Take(c.Request.Context(), req.UserID, h.cfg.DailyLimit, h.now())
	if errors.Is(err, store.ErrDailyLimit) {
		respondError(c, http.StatusTooManyRequests, dailyLimitMessage)
		return
	}
	if err != nil {
		h.log.Error("rate limit check failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, generationMessage)
		return
	}

	ws, err := h.pipeline.Build(c.Request.Context(), req.Prompt)
	if err != nil {
		h.log.Error("worksheet generation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, generationMessage)
		return
	}

	doc, err := json.Marshal(ws)
	if err != nil {
		h.log.Error("worksheet encode failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, generationMessage)
		return
	}

	id, err := h.worksheets.Save(c.Request.Context(), req.UserID, req.Prompt, doc)
	if err != nil {
		// The document was generated; losing persistence should not cost
		// the user their result.
		h.log.Error("worksheet save failed", zap.Error(err))
		id = ""
	}

	h.log.Info("worksheet generated",
		zap.String("worksheet_id", id),
		zap.Int("exercises", len(ws.Exercises)),
		zap.Int("remaining_today", remaining),
	)

	c.JSON(http.StatusOK, generateResponse{ID: id, Worksheet: ws})
}

// Get returns a previously generated worksheet document.
func (h *WorksheetHandler) Get(c *gin.Context) {
	rec, err := h.worksheets.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "worksheet not found")
		return
	}
	if err != nil {
		h.log.Error("worksheet fetch failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load worksheet")
		return
	}

	var ws worksheet.Worksheet
	if err := json.Unmarshal(rec.Document, &ws); err != nil {
		h.log.Error("stored worksheet decode failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load worksheet")
		return
	}

	c.JSON(http.StatusOK, generateResponse{ID: rec.ID, Worksheet: &ws})
}

// ListByUser returns the user's recent worksheets without documents.
func (h *WorksheetHandler) ListByUser(c *gin.Context) {
	recs, err := h.worksheets.ListByUser(c.Request.Context(), c.Param("userId"), 20)
	if err != nil {
		h.log.Error("worksheet list failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list worksheets")
		return
	}

	type item struct {
		ID        string    `json:"id"`
		Prompt    string    `json:"prompt"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]item, 0, len(recs))
	for _, r := range recs {
		out = append(out, item{ID: r.ID, Prompt: r.Prompt, CreatedAt: r.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"worksheets": out})
}
