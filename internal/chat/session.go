package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"unsc-explorer/internal/answer"
	"unsc-explorer/internal/database"
	"unsc-explorer/internal/dataset"
	"unsc-explorer/internal/llm"
	"unsc-explorer/internal/llm/prompts"
	"unsc-explorer/internal/sandbox"
)

const (
	defaultCodeTemperature    = 0.3
	defaultExplainTemperature = 0.2

	explanationFallback = "Could not generate explanation."
)

// Turn is the assistant's side of one completed chat exchange.
type Turn struct {
	Reply       string
	Code        string
	Explanation string
	Charts      []answer.Chart
	ExecFailed  bool
	Timestamp   time.Time
}

// Session drives one chat session: every Ask generates analysis code from the question and the
// prior transcript, runs it against the dataset, asks the model to explain the code, and persists
// both sides of the exchange.
type Session struct {
	mu        sync.Mutex
	db        *gorm.DB
	sessionID uuid.UUID

	generator llm.Generator
	executor  *sandbox.Executor
	frame     *dataset.Frame

	codeTemperature    float64
	explainTemperature float64
}

func NewSession(db *gorm.DB, sessionID uuid.UUID, generator llm.Generator, executor *sandbox.Executor, frame *dataset.Frame, codeTemperature, explainTemperature float64) *Session {
	if codeTemperature <= 0 {
		codeTemperature = defaultCodeTemperature
	}
	if explainTemperature <= 0 {
		explainTemperature = defaultExplainTemperature
	}
	return &Session{
		db:                 db,
		sessionID:          sessionID,
		generator:          generator,
		executor:           executor,
		frame:              frame,
		codeTemperature:    codeTemperature,
		explainTemperature: explainTemperature,
	}
}

// Ask runs one full turn. Model and execution failures become the assistant's reply text, exactly
// as the user would see them in the chat pane; only persistence failures are returned as errors.
func (s *Session) Ask(ctx context.Context, question string) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := GetTurns(s.db, s.sessionID)
	if err != nil {
		return nil, fmt.Errorf("could not load chat history: %w", err)
	}

	if err := SaveTurn(s.db, &database.ChatTurn{
		SessionID: s.sessionID,
		Role:      database.RoleUser,
		Content:   question,
		Timestamp: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("could not save user turn: %w", err)
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompts.CodegenSystemPrompt(question)})
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == database.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	raw, err := s.generator.Generate(ctx, messages, s.codeTemperature)
	if err != nil {
		slog.Error("code generation failed", "session_id", s.sessionID, "error", err)
		return s.saveAssistantTurn(&Turn{
			Reply:      fmt.Sprintf("Error generating response: %v", err),
			ExecFailed: true,
		})
	}

	code := llm.ExtractCode(raw)

	turn := &Turn{Code: code}
	ans, execErr := s.executor.Run(ctx, code, s.frame)
	if execErr != nil {
		slog.Warn("snippet execution failed", "session_id", s.sessionID, "error", execErr)
		turn.Reply = fmt.Sprintf("Execution error:\n\n%v", execErr)
		turn.ExecFailed = true
	} else {
		turn.Reply = ans.Text()
		turn.Charts = ans.Charts
	}

	turn.Explanation = s.explain(ctx, question, code)

	return s.saveAssistantTurn(turn)
}

func (s *Session) explain(ctx context.Context, question, code string) string {
	messages := []llm.Message{{Role: llm.RoleUser, Content: prompts.ExplainPrompt(question, code)}}
	explanation, err := s.generator.Generate(ctx, messages, s.explainTemperature)
	if err != nil {
		slog.Warn("explanation generation failed", "session_id", s.sessionID, "error", err)
		return explanationFallback
	}
	return explanation
}

func (s *Session) saveAssistantTurn(turn *Turn) (*Turn, error) {
	var chartsJSON datatypes.JSON
	if len(turn.Charts) > 0 {
		b, err := json.Marshal(turn.Charts)
		if err != nil {
			return nil, fmt.Errorf("could not marshal charts: %w", err)
		}
		chartsJSON = datatypes.JSON(b)
	}

	turn.Timestamp = time.Now()
	if err := SaveTurn(s.db, &database.ChatTurn{
		SessionID:   s.sessionID,
		Role:        database.RoleAssistant,
		Content:     turn.Reply,
		Code:        turn.Code,
		Explanation: turn.Explanation,
		Charts:      chartsJSON,
		ExecFailed:  turn.ExecFailed,
		Timestamp:   turn.Timestamp,
	}); err != nil {
		return nil, fmt.Errorf("could not save assistant turn: %w", err)
	}

	return turn, nil
}
