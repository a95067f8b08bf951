package analysis

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

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   RoomAnalyzer
}

// GeminiAnalyzer asks the Gemini generateContent API to analyze a room photo
// and falls back to a static analyzer when the call cannot be made or parsed.
type GeminiAnalyzer struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	fallback RoomAnalyzer
}

const geminiDefaultTimeout = 30 * time.Second

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiAnalysisPayload struct {
	ClutterLevel  string `json:"clutter_level"`
	QuickSummary  string `json:"quick_summary"`
	TopFixes      []struct {
		Title  string `json:"title"`
		Action string `json:"action"`
	} `json:"top_fixes"`
	FurnitureTips []struct {
		Item   string `json:"item"`
		Move   string `json:"move"`
		Reason string `json:"reason"`
	} `json:"furniture_tips"`
	DesignPrompt string `json:"design_prompt"`
}

func NewGeminiAnalyzer(opts GeminiOptions) (*GeminiAnalyzer, error) {
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
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiAnalyzer{
		apiKey:   opts.APIKey,
		model:    model,
		baseURL:  baseURL,
		client:   client,
		fallback: opts.Fallback,
	}, nil
}

func (g *GeminiAnalyzer) AnalyzeRoom(ctx context.Context, req AnalyzeRequest) (*domain.AnalysisResult, error) {
	if req.ImageBase64 == "" {
		return nil, errors.New("room image is required")
	}
	mime := req.ImageMIME
	if mime == "" {
		mime = "image/jpeg"
	}
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{MIMEType: mime, Data: req.ImageBase64}},
				{Text: buildInstruction(req)},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.4,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return g.useFallback(ctx, req)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return g.useFallback(ctx, req)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return g.useFallback(ctx, req)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return g.useFallback(ctx, req)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return g.useFallback(ctx, req)
	}
	text := extractText(out)
	if text == "" {
		return g.useFallback(ctx, req)
	}
	parsed, err := parseAnalysisPayload(text)
	if err != nil {
		return g.useFallback(ctx, req)
	}
	return parsed, nil
}

func (g *GeminiAnalyzer) useFallback(ctx context.Context, req AnalyzeRequest) (*domain.AnalysisResult, error) {
	if g.fallback == nil {
		return nil, domain.ErrProviderFailure
	}
	return g.fallback.AnalyzeRoom(ctx, req)
}

func (g *GeminiAnalyzer) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
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

func parseAnalysisPayload(text string) (*domain.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	var payload geminiAnalysisPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		return nil, fmt.Errorf("parse analysis payload: %w", err)
	}
	if payload.QuickSummary == "" && payload.DesignPrompt == "" {
		return nil, errors.New("empty analysis payload")
	}
	result := &domain.AnalysisResult{
		ClutterLevel: payload.ClutterLevel,
		QuickSummary: payload.QuickSummary,
		DesignPrompt: payload.DesignPrompt,
	}
	for _, fix := range payload.TopFixes {
		result.TopFixes = append(result.TopFixes, domain.TopFix{Title: fix.Title, Action: fix.Action})
	}
	for _, tip := range payload.FurnitureTips {
		result.FurnitureTips = append(result.FurnitureTips, domain.FurnitureSuggestion{Item: tip.Item, Move: tip.Move, Reason: tip.Reason})
	}
	return result, nil
}

var _ RoomAnalyzer = (*GeminiAnalyzer)(nil)
