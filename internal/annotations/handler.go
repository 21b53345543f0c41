package annotations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches annotation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/annotations/:documentId", h.create)
	rg.GET("/annotations/:documentId", h.list)
	rg.PUT("/annotations/:annotationId", h.updateNote)
}

type createRequest struct {
	Kind        string       `json:"kind"`
	PageNumber  int          `json:"pageNumber"`
	SpanText    string       `json:"spanText"`
	BoundingBox *BoundingBox `json:"boundingBox"`
	StrokeData  string       `json:"strokeData"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	ann, err := h.Svc.CreateOrUpdate(c.Request.Context(), userID, documentID, CreateInput{
		Kind:        req.Kind,
		PageNumber:  req.PageNumber,
		SpanText:    req.SpanText,
		BoundingBox: req.BoundingBox,
		StrokeData:  req.StrokeData,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid annotation payload", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save annotation", nil)
		}
		return
	}

	c.Set("annotationId", ann.ID)

	// Drawings replace the existing page drawing, so they answer 200.
	status := http.StatusCreated
	if ann.Kind == KindDrawing {
		status = http.StatusOK
	}
	respond.JSON(c, status, toResponse(ann))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	anns, err := h.Svc.List(c.Request.Context(), userID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list annotations", nil)
		}
		return
	}

	resp := make([]AnnotationResponse, 0, len(anns))
	for _, ann := range anns {
		resp = append(resp, toResponse(ann))
	}

	respond.JSON(c, http.StatusOK, resp)
}

type noteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) updateNote(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	annotationID := c.Param("annotationId")
	c.Set("annotationId", annotationID)

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	ann, err := h.Svc.UpdateNote(c.Request.Context(), userID, annotationID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "annotation not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update note", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(ann))
}
