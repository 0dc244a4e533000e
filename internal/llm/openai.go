package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOpenAIBase  = "https://api.groq.com/openai/v1"
	DefaultOpenAIModel = "llama3-8b-8192"
)

type OpenAIOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Client  *http.Client
}

// OpenAI speaks the chat completions protocol shared by OpenAI, Groq and
// most self-hosted gateways.
type OpenAI struct {
	key    string
	base   string
	model  string
	client *http.Client
}

func NewOpenAI(opt OpenAIOptions) *OpenAI {
	o := &OpenAI{
		key:    opt.APIKey,
		base:   strings.TrimRight(opt.BaseURL, "/"),
		model:  opt.Model,
		client: opt.Client,
	}
	if o.base == "" {
		o.base = DefaultOpenAIBase
	}
	if o.model == "" {
		o.model = DefaultOpenAIModel
	}
	if o.client == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		o.client = &http.Client{Timeout: timeout}
	}
	return o
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	var msgs []chatMessage
	if req.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       o.model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat completions: build request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+o.key)

	resp, err := o.client.Do(hreq)
	if err != nil {
		return "", fmt.Errorf("chat completions: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("chat completions: read body: %w", err)
	}
	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("chat completions: status %d: decode: %w", resp.StatusCode, err)
	}
	if resp.StatusCode/100 != 2 {
		msg := http.StatusText(resp.StatusCode)
		if cr.Error != nil && cr.Error.Message != "" {
			msg = cr.Error.Message
		}
		return "", fmt.Errorf("chat completions: status %d: %s", resp.StatusCode, msg)
	}
	if len(cr.Choices) == 0 {
		return "", ErrEmpty
	}
	return trimmed(cr.Choices[0].Message.Content)
}
