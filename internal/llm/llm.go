package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Generator abstracts the hosted chat-completion model so handlers and tests can stub it.
type Generator interface {
	Generate(ctx context.Context, messages []Message, temperature float64) (string, error)
}
