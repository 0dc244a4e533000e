package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

type GeminiOptions struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the Gemini API endpoint.
	BaseURL string
}

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, opt GeminiOptions) (*Gemini, error) {
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cc := &genai.ClientConfig{
		APIKey:     opt.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if opt.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opt.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	model := opt.Model
	// the shared default names a Groq model
	if model == "" || model == DefaultOpenAIModel {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), gc)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return trimmed(resp.Text())
}
