// README: Intent parsing endpoints (single and batch).
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gkatsarova/planzy-sub001/internal/http/middleware"
	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

// MaxBatchSize caps texts per batch request.
const MaxBatchSize = 20

type IntentHandler struct {
	parser      IntentParser
	quota       Quota
	concurrency int
}

func NewIntentHandler(parser IntentParser, quota Quota, concurrency int) *IntentHandler {
	return &IntentHandler{parser: parser, quota: quota, concurrency: concurrency}
}

type parseReq struct {
	Text string `json:"text"`
}

type batchReq struct {
	Texts []string `json:"texts"`
}

type batchItem struct {
	Intent *intent.VacationIntent `json:"intent,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// Parse handles POST /api/intents/parse.
func (h *IntentHandler) Parse(c *gin.Context) {
	var req parseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, "missing text")
		return
	}
	uid := middleware.CallerUID(c)
	if !checkQuota(c, h.quota, uid) {
		return
	}

	vi, err := h.parser.ParseIntent(c.Request.Context(), req.Text).Get()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !chargeQuota(c, h.quota, uid) {
		return
	}
	writeJSON(c, http.StatusOK, vi)
}

// Batch handles POST /api/intents/batch. Per-text failures are reported inline.
func (h *IntentHandler) Batch(c *gin.Context) {
	var req batchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Texts) == 0 {
		writeError(c, http.StatusBadRequest, "missing texts")
		return
	}
	if len(req.Texts) > MaxBatchSize {
		writeError(c, http.StatusBadRequest, "too many texts")
		return
	}
	uid := middleware.CallerUID(c)
	if !checkQuota(c, h.quota, uid) {
		return
	}

	results := h.parser.ParseBatch(c.Request.Context(), req.Texts, h.concurrency)
	items := make([]batchItem, len(results))
	succeeded := 0
	for i, r := range results {
		vi, err := r.Get()
		if err != nil {
			_, msg := statusFor(err)
			items[i] = batchItem{Error: msg}
			continue
		}
		items[i] = batchItem{Intent: &vi}
		succeeded++
	}
	// One token per batch, charged only when something parsed.
	if succeeded > 0 && !chargeQuota(c, h.quota, uid) {
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"results": items})
}
