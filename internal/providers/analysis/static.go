package analysis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"declutterai/internal/domain"
)

// StaticAnalyzer produces a canned analysis so the design flow keeps working
// when the model API is unreachable.
type StaticAnalyzer struct {
	titler cases.Caser
}

func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{titler: cases.Title(language.English)}
}

func (s *StaticAnalyzer) AnalyzeRoom(_ context.Context, req AnalyzeRequest) (*domain.AnalysisResult, error) {
	mode := req.Mode
	if !domain.ValidTransformMode(mode) {
		mode = domain.TransformRestyle
	}
	label := s.titler.String(string(mode))
	prompt := fmt.Sprintf("A %s makeover of the photographed room: decluttered surfaces, balanced layout, warm neutral palette, soft natural light, photorealistic interior render.", strings.ToLower(string(mode)))
	if mode == domain.TransformCustom && strings.TrimSpace(req.CustomPrompt) != "" {
		prompt = fmt.Sprintf("The photographed room reimagined as requested: %s. Photorealistic interior render.", strings.TrimSpace(req.CustomPrompt))
	}
	return &domain.AnalysisResult{
		ClutterLevel: "medium",
		QuickSummary: fmt.Sprintf("%s plan generated offline. The room has workable bones; start by clearing surfaces and opening walkways.", label),
		TopFixes: []domain.TopFix{
			{Title: "Clear the surfaces", Action: "Remove loose items from tables and shelves, keep at most three decor pieces per surface."},
			{Title: "Open the walkway", Action: "Pull furniture at least 60cm away from the main path through the room."},
			{Title: "Anchor with a rug", Action: "Place a rug large enough that front furniture legs rest on it."},
		},
		FurnitureTips: []domain.FurnitureSuggestion{
			{Item: "Sofa", Move: "Face the main light source", Reason: "Natural light makes the seating area the room's anchor."},
			{Item: "Storage unit", Move: "Against the longest wall", Reason: "Keeps clutter contained without narrowing the walkway."},
		},
		DesignPrompt: prompt,
	}, nil
}

var _ RoomAnalyzer = (*StaticAnalyzer)(nil)
