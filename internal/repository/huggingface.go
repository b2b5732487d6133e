// Package repository holds the summarization backends.
package repository

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
	BackendHuggingFace = "huggingface"
	BackendGemini      = "gemini"

	DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models"
)

// GenerationParams are the decoding settings sent with every request.
type GenerationParams struct {
	MaxLength     int  `json:"max_length,omitempty"`
	MinLength     int  `json:"min_length,omitempty"`
	NumBeams      int  `json:"num_beams,omitempty"`
	EarlyStopping bool `json:"early_stopping"`
}

// HuggingFaceConfig configures the inference client.
type HuggingFaceConfig struct {
	BaseURL string
	Token   string
	Model   string
	UseGPU  bool
	Params  GenerationParams
	Timeout time.Duration
}

// HuggingFaceClient calls a hosted seq2seq summarization model through the
// Hugging Face Inference API or a compatible endpoint.
type HuggingFaceClient struct {
	baseURL    string
	token      string
	model      string
	useGPU     bool
	params     GenerationParams
	httpClient *http.Client
}

// NewHuggingFaceClient creates a new inference client
func NewHuggingFaceClient(cfg HuggingFaceConfig) *HuggingFaceClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultHuggingFaceURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HuggingFaceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   cfg.Token,
		model:   cfg.Model,
		useGPU:  cfg.UseGPU,
		params:  cfg.Params,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type hfRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters GenerationParams `json:"parameters"`
	Options    hfOptions        `json:"options"`
}

type hfOptions struct {
	UseGPU       bool `json:"use_gpu"`
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type hfSummary struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Name returns the backend name.
func (c *HuggingFaceClient) Name() string {
	return BackendHuggingFace
}

// Summarize sends input to the model and returns the generated summary.
func (c *HuggingFaceClient) Summarize(ctx context.Context, input string) (string, error) {
	reqBody := hfRequest{
		Inputs:     input,
		Parameters: c.params,
		Options: hfOptions{
			UseGPU:       c.useGPU,
			WaitForModel: true,
			UseCache:     true,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var apiErr hfError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var summaries []hfSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(summaries) == 0 {
		return "", fmt.Errorf("no summary in response")
	}

	text := summaries[0].SummaryText
	if text == "" {
		text = summaries[0].GeneratedText
	}
	return strings.TrimSpace(text), nil
}
