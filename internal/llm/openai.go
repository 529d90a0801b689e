package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// TokenUsage tracks usage counts per model.
type TokenUsage struct {
	CompletionTokens int64 `json:"completion_tokens"`
	PromptTokens     int64 `json:"prompt_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// OpenAILLM wraps the OpenAI client and tracks token usage across calls.
type OpenAILLM struct {
	client  openai.Client
	model   string // e.g. "gpt-4o"
	timeout time.Duration

	mu    sync.Mutex
	usage TokenUsage
}

func NewOpenAILLM(apiKey, model string, timeout time.Duration) *OpenAILLM {
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	return &OpenAILLM{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: timeout,
	}
}

func (o *OpenAILLM) Generate(ctx context.Context, messages []Message, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}

	res, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       o.model,
		Messages:    params,
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		return "", fmt.Errorf("openai generation failed: %w", err)
	}

	o.mu.Lock()
	o.usage.CompletionTokens += res.Usage.CompletionTokens
	o.usage.PromptTokens += res.Usage.PromptTokens
	o.usage.TotalTokens += res.Usage.TotalTokens
	o.mu.Unlock()

	if len(res.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}

// Usage returns the tokens consumed so far.
func (o *OpenAILLM) Usage() TokenUsage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.usage
}
