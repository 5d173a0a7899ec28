// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/craaper/pkg/types"
)

// openaiAPIURL is the chat completions endpoint. Package-level var for test
// substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// defaultMaxOutputTokens caps the structured response when no limit is
// configured.
const defaultMaxOutputTokens = 1000

// OpenAIBackend calls the OpenAI chat completions API in JSON-object mode.
// Calls are not retried: an API-level failure is fatal for the entry being
// assessed and surfaces to the caller unchanged.
type OpenAIBackend struct {
	APIKey    string
	Model     string
	MaxTokens int
	Client    *http.Client
}

// openaiRequest is the request body for the chat completions API.
type openaiRequest struct {
	Model          string               `json:"model"`
	ResponseFormat openaiResponseFormat `json:"response_format"`
	MaxTokens      int                  `json:"max_tokens"`
	Messages       []openaiMessage      `json:"messages"`
}

type openaiResponseFormat struct {
	Type string `json:"type"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiResponse is the subset of the chat completions response we consume.
type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// NewOpenAIBackend builds a backend from AI settings.
func NewOpenAIBackend(cfg types.AIConfig, client *http.Client) *OpenAIBackend {
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	return &OpenAIBackend{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: maxTokens,
		Client:    client,
	}
}

// Assess sends the prompt pair and returns the raw structured content along
// with the token counts the API reported.
func (o *OpenAIBackend) Assess(ctx context.Context, req Request) (Response, error) {
	body := openaiRequest{
		Model:          o.Model,
		ResponseFormat: openaiResponseFormat{Type: "json_object"},
		MaxTokens:      o.MaxTokens,
		Messages: []openaiMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return Response{}, fmt.Errorf("OpenAI API returned %d: %s", httpResp.StatusCode, string(respBody))
	}

	var result openaiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&result); err != nil {
		return Response{}, fmt.Errorf("decoding OpenAI response: %w", err)
	}

	if len(result.Choices) == 0 {
		return Response{}, fmt.Errorf("OpenAI API returned no choices")
	}
	content := result.Choices[0].Message.Content
	if content == "" {
		return Response{}, fmt.Errorf("empty content in OpenAI response")
	}

	return Response{
		Content:      content,
		InputTokens:  result.Usage.PromptTokens,
		OutputTokens: result.Usage.CompletionTokens,
	}, nil
}
