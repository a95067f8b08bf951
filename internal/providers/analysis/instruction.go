package analysis

import (
	"fmt"
	"strings"

	"declutterai/internal/domain"
)

var modeDirectives = map[domain.TransformMode]string{
	domain.TransformRestyle:   "Propose a full restyle of the room while keeping its structural layout.",
	domain.TransformRefurnish: "Focus on replacing and rearranging furniture, keep walls and flooring unchanged.",
	domain.TransformLighting:  "Focus on lighting fixtures, natural light usage and ambience.",
	domain.TransformPaint:     "Focus on wall colors, paint finishes and accent walls.",
	domain.TransformFlooring:  "Focus on flooring material, rugs and floor-level styling.",
}

func buildInstruction(req AnalyzeRequest) string {
	var b strings.Builder
	b.WriteString("You are an interior design assistant. Analyze the attached room photo.\n")
	if directive, ok := modeDirectives[req.Mode]; ok {
		b.WriteString(directive)
		b.WriteString("\n")
	}
	if req.Mode == domain.TransformCustom && strings.TrimSpace(req.CustomPrompt) != "" {
		fmt.Fprintf(&b, "Apply this request from the user: %s\n", strings.TrimSpace(req.CustomPrompt))
	}
	switch req.Plan {
	case domain.PlanPro:
		b.WriteString("Provide five top fixes and five furniture suggestions with detailed reasoning.\n")
	case domain.PlanBasic:
		b.WriteString("Provide four top fixes and three furniture suggestions.\n")
	default:
		b.WriteString("Provide three top fixes and two furniture suggestions.\n")
	}
	b.WriteString(`Respond with JSON only, using this shape:
{"clutter_level":"low|medium|high","quick_summary":"...","top_fixes":[{"title":"...","action":"..."}],"furniture_tips":[{"item":"...","move":"...","reason":"..."}],"design_prompt":"a single detailed prompt for an image generation model"}`)
	return b.String()
}
