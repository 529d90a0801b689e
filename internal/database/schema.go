package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatSession struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `json:"title"`
	CreationTime time.Time `json:"creation_time"`
}

// ChatTurn is one entry of a session transcript, appended in arrival order. Assistant turns carry
// the generated snippet, its plain-English explanation, and any chart payloads alongside the
// displayed text; ExecFailed marks turns whose snippet did not run to completion.
type ChatTurn struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SessionID   uuid.UUID      `gorm:"type:uuid;index" json:"session_id"`
	Role        string         `gorm:"size:20;not null" json:"role"`
	Content     string         `json:"content"`
	Code        string         `json:"code,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Charts      datatypes.JSON `json:"charts,omitempty"`
	ExecFailed  bool           `json:"exec_failed,omitempty"`
	Timestamp   time.Time      `gorm:"index" json:"timestamp"`
}
