package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"declutterai/internal/domain"
)

// DesignChat answers follow-up questions about a generated room design.
type DesignChat interface {
	Reply(ctx context.Context, req ReplyRequest) (*domain.ChatMessage, error)
}

type ReplyRequest struct {
	Plan         domain.Plan
	DesignPrompt string
	History      []domain.ChatMessage
	Message      string
}

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Now        func() time.Time
}

type GeminiChat struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

const (
	defaultTimeout    = 30 * time.Second
	maxHistoryTurns   = 20
	freePersona       = "You are a friendly home organization assistant. Keep answers short and practical, and suggest upgrading for detailed design plans when the question needs one."
	paidPersona       = "You are a professional interior designer. Give specific, actionable advice with materials, measurements and placement details."
)

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiChat(opts GeminiOptions) (*GeminiChat, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &GeminiChat{apiKey: opts.APIKey, model: model, baseURL: baseURL, client: client, now: now}, nil
}

func (g *GeminiChat) Reply(ctx context.Context, req ReplyRequest) (*domain.ChatMessage, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.New("chat message is required")
	}
	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: persona(req)}}},
		Contents:          buildContents(req.History, message),
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: chat api status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode chat response: %v", domain.ErrProviderFailure, err)
	}
	text := extractText(out)
	if text == "" {
		return nil, fmt.Errorf("%w: empty chat candidate", domain.ErrProviderFailure)
	}
	return &domain.ChatMessage{
		Role:      domain.ChatRoleModel,
		Text:      strings.TrimSpace(text),
		Timestamp: g.now().UTC(),
	}, nil
}

func (g *GeminiChat) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func persona(req ReplyRequest) string {
	base := freePersona
	if req.Plan == domain.PlanBasic || req.Plan == domain.PlanPro {
		base = paidPersona
	}
	if strings.TrimSpace(req.DesignPrompt) != "" {
		return fmt.Sprintf("%s\nThe current redesign concept is: %s", base, strings.TrimSpace(req.DesignPrompt))
	}
	return base
}

// buildContents keeps only the most recent turns so long sessions stay under
// the model's context limit.
func buildContents(history []domain.ChatMessage, message string) []geminiContent {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	contents := make([]geminiContent, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Role == domain.ChatRoleModel {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: msg.Text}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})
	return contents
}

func extractText(resp geminiResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

var _ DesignChat = (*GeminiChat)(nil)
