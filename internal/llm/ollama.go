package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
)

// Ollama calls a local Ollama instance.
type Ollama struct {
	model  string
	client *resty.Client
}

// NewOllama creates a new Ollama client.
func NewOllama(url, model string, timeout time.Duration) *Ollama {
	return &Ollama{
		model: model,
		client: resty.New().
			SetBaseURL(url).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// Complete sends a prompt to Ollama's generate endpoint.
func (o *Ollama) Complete(ctx context.Context, prompt string) (*Response, error) {
	reqBody := map[string]any{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.7,
			"num_predict": 1024,
		},
	}

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		Post("/api/generate")
	if err != nil {
		return nil, providerErr("ollama", "request: %w", err)
	}
	if resp.IsError() {
		return nil, providerErr("ollama", "status %d: %s", resp.StatusCode(), resp.Body())
	}

	var result struct {
		Response        string `json:"response"`
		PromptEvalCount int    `json:"prompt_eval_count"`
		EvalCount       int    `json:"eval_count"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, providerErr("ollama", "decode response: %w", err)
	}

	return &Response{
		Content:    result.Response,
		Provider:   "ollama",
		TokensUsed: result.PromptEvalCount + result.EvalCount,
	}, nil
}
