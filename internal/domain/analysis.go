package domain

import "time"

// TransformMode selects how a redesign prompt should reinterpret the room.
type TransformMode string

const (
	TransformRestyle   TransformMode = "restyle"
	TransformRefurnish TransformMode = "refurnish"
	TransformLighting  TransformMode = "lighting"
	TransformPaint     TransformMode = "paint"
	TransformFlooring  TransformMode = "flooring"
	TransformCustom    TransformMode = "custom"
)

// ValidTransformMode reports whether m is a supported transform mode.
func ValidTransformMode(m TransformMode) bool {
	switch m {
	case TransformRestyle, TransformRefurnish, TransformLighting, TransformPaint, TransformFlooring, TransformCustom:
		return true
	}
	return false
}

// TopFix is one prioritized cleanup action for the room.
type TopFix struct {
	Title  string `json:"title"`
	Action string `json:"action"`
}

// FurnitureSuggestion proposes moving one furniture item.
type FurnitureSuggestion struct {
	Item   string `json:"item"`
	Move   string `json:"move"`
	Reason string `json:"reason"`
}

// AnalysisResult is one AI-produced room analysis, the unit metered by the
// usage ledger.
type AnalysisResult struct {
	ClutterLevel  string                `json:"clutter_level"`
	QuickSummary  string                `json:"quick_summary"`
	TopFixes      []TopFix              `json:"top_fixes"`
	FurnitureTips []FurnitureSuggestion `json:"furniture_tips"`
	DesignPrompt  string                `json:"design_prompt"`
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn in the design-assistant conversation.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
