package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/cadence/pkg/domain/ai"
)

// Preset describes an OpenAI-compatible chat-completions endpoint.
type Preset struct {
	Name         string
	BaseURL      string
	DefaultModel string
	APIKeyEnv    string // empty when the endpoint needs no key
}

var (
	PresetGroq = Preset{
		Name:         "groq",
		BaseURL:      "https://api.groq.com/openai/v1/chat/completions",
		DefaultModel: "llama-3.3-70b-versatile",
		APIKeyEnv:    "GROQ_API_KEY",
	}
	PresetOpenAI = Preset{
		Name:         "openai",
		BaseURL:      "https://api.openai.com/v1/chat/completions",
		DefaultModel: "gpt-4o",
		APIKeyEnv:    "OPENAI_API_KEY",
	}
	PresetOllama = Preset{
		Name:         "ollama",
		BaseURL:      "http://localhost:11434/v1/chat/completions",
		DefaultModel: "llama3",
	}
)

var safeModelName = regexp.MustCompile(`^[a-zA-Z0-9:._/-]+$`)

type OpenAIProvider struct {
	Model      string
	APIKey     string
	preset     Preset
	baseURL    string
	httpClient *http.Client // defaults to http.DefaultClient
}

// NewOpenAIProvider creates a client for the given preset. An empty model
// selects the preset's default.
func NewOpenAIProvider(preset Preset, model, apiKey string) *OpenAIProvider {
	if model == "" {
		model = preset.DefaultModel
	}
	return &OpenAIProvider{
		Model:   model,
		APIKey:  apiKey,
		preset:  preset,
		baseURL: preset.BaseURL,
	}
}

// NewOpenAIProviderWithClient creates a provider with custom HTTP client and base URL (for testing).
func NewOpenAIProviderWithClient(preset Preset, model, apiKey, baseURL string, client *http.Client) *OpenAIProvider {
	p := NewOpenAIProvider(preset, model, apiKey)
	if baseURL != "" {
		p.baseURL = baseURL
	}
	p.httpClient = client
	return p
}

// SetBaseURL points the provider at another OpenAI-compatible endpoint.
func (p *OpenAIProvider) SetBaseURL(url string) {
	if url != "" {
		p.baseURL = url
	}
}

func (p *OpenAIProvider) ID() string {
	return p.preset.Name + ":" + p.Model
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float32        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if p.APIKey == "" && p.preset.APIKeyEnv != "" {
		return nil, fmt.Errorf("%w (set %s)", ai.ErrMissingAPIKey, p.preset.APIKeyEnv)
	}
	if !safeModelName.MatchString(p.Model) {
		return nil, fmt.Errorf("invalid model name: %s", p.Model)
	}
	if req.Temperature < 0 {
		return nil, fmt.Errorf("invalid temperature")
	}

	chat := req.ChatMessages()
	messages := make([]openAIMessage, 0, len(chat))
	for _, m := range chat {
		messages = append(messages, openAIMessage{Role: m.Role, Content: m.Content})
	}

	payload := openAIRequest{
		Model:     p.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		payload.Temperature = &temp
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	client := p.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.preset.Name, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read body

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s API returned status %s: %s", p.preset.Name, resp.Status, strings.TrimSpace(string(snippet)))
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", p.preset.Name, err)
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, ai.ErrEmptyResponse
	}

	return &ai.CompletionResponse{
		Text:  out.Choices[0].Message.Content,
		Model: p.Model,
		Usage: ai.TokenUsage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
		},
	}, nil
}
