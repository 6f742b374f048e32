package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ontoplan/ontoplan/pkg/config"
	"github.com/ontoplan/ontoplan/pkg/httpclient"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	config     *config.LLMConfig
	httpClient *httpclient.Client
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []choice   `json:"choices"`
	Usage   usage      `json:"usage"`
	Error   *wireError `json:"error,omitempty"`
}

type choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type wireError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// NewOpenAIProvider builds a provider from config. Defaults must already be
// applied.
func NewOpenAIProvider(cfg *config.LLMConfig) *OpenAIProvider {
	httpClient := httpclient.New(
		httpclient.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		}),
		httpclient.WithMaxRetries(cfg.MaxRetries),
		httpclient.WithBaseDelay(time.Duration(cfg.RetryDelay)*time.Second),
	)

	return &OpenAIProvider{
		config:     cfg,
		httpClient: httpClient,
	}
}

func (p *OpenAIProvider) ModelName() string {
	return p.config.Model
}

func (p *OpenAIProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	wireReq := openAIRequest{
		Model:    p.config.Model,
		Messages: req.Messages,
	}
	if p.config.MaxTokens > 0 {
		wireReq.MaxTokens = &p.config.MaxTokens
	}
	if p.config.Temperature != nil {
		wireReq.Temperature = *p.config.Temperature
	}
	if req.ForceJSON {
		wireReq.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	wireResp, err := p.makeRequest(ctx, wireReq)
	if err != nil {
		return nil, err
	}

	if wireResp.Error != nil {
		return nil, &APIError{
			Message: wireResp.Error.Message,
			Type:    wireResp.Error.Type,
			Code:    wireResp.Error.Code,
		}
	}
	if len(wireResp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	return &Response{
		Text:             wireResp.Choices[0].Message.Content,
		PromptTokens:     wireResp.Usage.PromptTokens,
		CompletionTokens: wireResp.Usage.CompletionTokens,
		TotalTokens:      wireResp.Usage.TotalTokens,
	}, nil
}

func (p *OpenAIProvider) makeRequest(ctx context.Context, request openAIRequest) (*openAIResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/chat/completions", bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(requestBody)), nil
	}

	req.Header.Set("Content-Type", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.httpClient.Do(req)
	if resp != nil {
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, readErr := io.ReadAll(resp.Body)
			if readErr == nil {
				if apiErr := parseErrorResponse(resp.StatusCode, body); apiErr != nil {
					return nil, apiErr
				}
			}
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	var response openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}

// parseErrorResponse extracts a structured API error from an error body, if
// the body carries one.
func parseErrorResponse(statusCode int, body []byte) *APIError {
	var wrapper struct {
		Error *wireError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || wrapper.Error == nil {
		return nil
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    wrapper.Error.Message,
		Type:       wrapper.Error.Type,
		Code:       wrapper.Error.Code,
	}
}
