package api

import (
	"encoding/json"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	Title string `json:"title"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

type ChatSessionMetadata struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CreationTime string    `json:"creation_time"`
}

type GetSessionsResponse struct {
	Sessions []ChatSessionMetadata `json:"sessions"`
}

type ListSessionsParams struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}

type RenameSessionRequest struct {
	Title string `json:"title"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply       string          `json:"reply"`
	Code        string          `json:"code,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
	Charts      json.RawMessage `json:"charts,omitempty"`
	ExecFailed  bool            `json:"exec_failed,omitempty"`
	Timestamp   string          `json:"timestamp"`
}

type ChatHistoryItem struct {
	Role        string          `json:"role"` // "user" or "assistant"
	Content     string          `json:"content"`
	Code        string          `json:"code,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
	Charts      json.RawMessage `json:"charts,omitempty"`
	ExecFailed  bool            `json:"exec_failed,omitempty"`
	Timestamp   string          `json:"timestamp"`
}
