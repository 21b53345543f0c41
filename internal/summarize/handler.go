package summarize

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfmark-backend/internal/llm"
	"pdfmark-backend/internal/shared/server/middleware"
	"pdfmark-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the summary route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:documentId/summary", h.summarize)
}

type summaryResponse struct {
	DocumentID string   `json:"documentId"`
	Summary    string   `json:"summary"`
	KeyPhrases []string `json:"keyPhrases"`
	Cached     bool     `json:"cached"`
}

func (h *Handler) summarize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	res, err := h.Svc.Summarize(c.Request.Context(), userID, documentID)
	if err != nil {
		var providerErr *ProviderError
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrNoText):
			respond.Error(c, http.StatusPreconditionFailed, "precondition_failed", "document has no extracted text to summarize", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable", "summarization is not configured", nil)
		case errors.As(err, &providerErr):
			respond.Error(c, http.StatusBadGateway, "llm_error", "summarization failed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to summarize document", nil)
		}
		return
	}

	keyPhrases := res.KeyPhrases
	if keyPhrases == nil {
		keyPhrases = []string{}
	}
	respond.JSON(c, http.StatusOK, summaryResponse{
		DocumentID: documentID,
		Summary:    res.Summary,
		KeyPhrases: keyPhrases,
		Cached:     res.Cached,
	})
}
