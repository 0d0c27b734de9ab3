package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
)

const geminiAPI = "https://generativelanguage.googleapis.com"

// Gemini calls the Generative Language generateContent endpoint.
type Gemini struct {
	apiKey string
	model  string
	client *resty.Client
}

// NewGemini creates a Gemini client against baseURL.
func NewGemini(baseURL, apiKey, model string, timeout time.Duration) *Gemini {
	return &Gemini{
		apiKey: apiKey,
		model:  model,
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// Complete sends a single-turn prompt and returns the first candidate's text.
func (g *Gemini) Complete(ctx context.Context, prompt string) (*Response, error) {
	reqBody := map[string]any{
		"contents": []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(reqBody).
		Post("/v1/models/" + g.model + ":generateContent")
	if err != nil {
		return nil, providerErr("gemini", "request: %w", err)
	}
	if resp.IsError() {
		return nil, providerErr("gemini", "status %d: %s", resp.StatusCode(), resp.Body())
	}

	var result struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			TotalTokenCount int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, providerErr("gemini", "decode response: %w", err)
	}

	text := ""
	if len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
		text = result.Candidates[0].Content.Parts[0].Text
	}

	return &Response{
		Content:    text,
		Provider:   "gemini",
		TokensUsed: result.UsageMetadata.TotalTokenCount,
	}, nil
}
