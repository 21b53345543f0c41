package annotations

import "time"

// AnnotationResponse is the outward-facing representation of an annotation.
type AnnotationResponse struct {
	AnnotationID string       `json:"annotationId"`
	DocumentID   string       `json:"documentId"`
	PageNumber   int          `json:"pageNumber"`
	Kind         Kind         `json:"kind"`
	SpanText     string       `json:"spanText,omitempty"`
	BoundingBox  *BoundingBox `json:"boundingBox,omitempty"`
	StrokeData   string       `json:"strokeData,omitempty"`
	Note         string       `json:"note"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func toResponse(ann Annotation) AnnotationResponse {
	return AnnotationResponse{
		AnnotationID: ann.ID,
		DocumentID:   ann.DocumentID,
		PageNumber:   ann.PageNumber,
		Kind:         ann.Kind,
		SpanText:     ann.SpanText,
		BoundingBox:  ann.BoundingBox,
		StrokeData:   ann.StrokeData,
		Note:         ann.Note,
		CreatedAt:    ann.CreatedAt,
		UpdatedAt:    ann.UpdatedAt,
	}
}
