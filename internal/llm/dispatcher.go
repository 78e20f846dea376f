package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultBaseURL      = "https://openrouter.ai/api/v1"
	defaultModelTimeout = 20 * time.Second
)

// DefaultModels is the ordered fallback cascade: the primary model first,
// then successively cheaper alternates.
var DefaultModels = []string{
	"openai/gpt-4o",
	"google/gemini-pro",
	"openai/gpt-4o-mini",
}

const systemPrompt = `You are a helpful assistant for booking appointments on Google Calendar.
You can check availability and book meetings.
If the user asks to book, extract the date, time, and details.
If the user asks for available slots, extract the date.`

// Dispatcher sends fallback messages through an ordered cascade of models on
// an OpenAI-compatible endpoint.
type Dispatcher struct {
	client       openaigo.Client
	models       []string
	modelTimeout time.Duration
	apiKey       string
}

// Config holds dispatcher settings; zero values fall back to defaults.
type Config struct {
	APIKey       string
	BaseURL      string
	Models       []string
	ModelTimeout time.Duration
}

func NewDispatcher(cfg Config) *Dispatcher {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	models := cfg.Models
	if len(models) == 0 {
		models = DefaultModels
	}
	modelTimeout := cfg.ModelTimeout
	if modelTimeout <= 0 {
		modelTimeout = defaultModelTimeout
	}

	// Retries stay off: a failing model falls through to the next one in the
	// cascade immediately, keeping the user-visible latency low.
	client := openaigo.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)

	return &Dispatcher{
		client:       client,
		models:       models,
		modelTimeout: modelTimeout,
		apiKey:       cfg.APIKey,
	}
}

// IsConfigured returns true if the dispatcher has an API key.
func (d *Dispatcher) IsConfigured() bool {
	return d.apiKey != ""
}

// Dispatch tries each model in order and returns the first successful
// completion. A model gets exactly one attempt; any failure falls through to
// the next model, and only the last model's failure reaches the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) (string, error) {
	var lastErr error
	for _, model := range d.models {
		reply, err := d.complete(ctx, model, message)
		if err != nil {
			fmt.Printf("LLM model %s failed: %v\n", model, err)
			lastErr = err
			continue
		}
		return reply, nil
	}

	if lastErr == nil {
		return "", fmt.Errorf("no models configured")
	}
	return "", fmt.Errorf("all fallback models failed: %w", lastErr)
}

func (d *Dispatcher) complete(ctx context.Context, model, message string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, d.modelTimeout)
	defer cancel()

	completion, err := d.client.Chat.Completions.New(attemptCtx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(systemPrompt),
			openaigo.UserMessage(message),
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion from model %s", model)
	}

	return completion.Choices[0].Message.Content, nil
}
