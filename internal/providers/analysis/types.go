package analysis

import (
	"context"

	"declutterai/internal/domain"
)

// AnalyzeRequest carries one room photo plus the options shaping the redesign
// prompt.
type AnalyzeRequest struct {
	// ImageBase64 is the raw photo, base64 encoded without a data: prefix.
	ImageBase64 string
	// ImageMIME defaults to image/jpeg when empty.
	ImageMIME string
	Mode      domain.TransformMode
	// CustomPrompt is only consulted when Mode is custom.
	CustomPrompt string
	Plan         domain.Plan
}

// RoomAnalyzer produces a clutter analysis and redesign prompt for one room
// photo.
type RoomAnalyzer interface {
	AnalyzeRoom(ctx context.Context, req AnalyzeRequest) (*domain.AnalysisResult, error)
}
