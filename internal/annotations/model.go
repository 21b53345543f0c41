package annotations

import "time"

// Kind discriminates the two annotation variants.
type Kind string

const (
	KindText    Kind = "text"
	KindDrawing Kind = "drawing"
)

// BoundingBox positions a text highlight relative to the rendered page.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Annotation is a user-authored marking tied to one page of one document.
// Text highlights accumulate per page; at most one drawing exists per
// (document, user, page) and saves replace its stroke data in place.
type Annotation struct {
	ID          string
	DocumentID  string
	UserID      string
	PageNumber  int
	Kind        Kind
	SpanText    string
	BoundingBox *BoundingBox
	StrokeData  string
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
