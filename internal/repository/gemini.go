package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const t5Prefix = "summarize:"

// GeminiClient summarizes with the Gemini API through the official SDK.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a client for modelName. maxOutputTokens bounds the
// summary length; zero leaves the model default.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, maxOutputTokens int) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	if maxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(maxOutputTokens))
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// Name returns the backend name.
func (g *GeminiClient) Name() string {
	return BackendGemini
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// Summarize converts the seq2seq input into an instruction prompt and
// returns the generated text.
func (g *GeminiClient) Summarize(ctx context.Context, input string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildGeminiPrompt(input)))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return responseText(resp)
}

func buildGeminiPrompt(input string) string {
	reviews := strings.Split(strings.TrimSpace(strings.TrimPrefix(input, t5Prefix)), " [REVIEW] ")

	var b strings.Builder
	b.WriteString("Summarize the following product reviews in a few plain sentences. ")
	b.WriteString("Mention price, durability, ease of use, quality and performance when the reviews discuss them. ")
	b.WriteString("Reply with the summary only.\n\n")
	for i, r := range reviews {
		fmt.Fprintf(&b, "Review %d: %s\n", i+1, r)
	}
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text in response")
	}
	return strings.TrimSpace(b.String()), nil
}
