package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"unsc-explorer/internal/chat"
	"unsc-explorer/internal/database"
	"unsc-explorer/pkg/api"
)

const timestampFormat = "2006-01-02 15:04:05"

type ChatService struct {
	db    *gorm.DB
	cache *chat.SessionCache
}

func NewChatService(db *gorm.DB, cache *chat.SessionCache) *ChatService {
	return &ChatService{db: db, cache: cache}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Get("/sessions", RestHandler(s.GetSessions))
		r.Post("/sessions", RestHandler(s.StartSession))
		r.Get("/sessions/{session_id}", RestHandler(s.GetSession))
		r.Post("/sessions/{session_id}/rename", RestHandler(s.RenameSession))
		r.Delete("/sessions/{session_id}", RestHandler(s.DeleteSession))
		r.Post("/sessions/{session_id}/messages", RestHandler(s.SendMessage))
		r.Get("/sessions/{session_id}/history", RestHandler(s.GetHistory))
	})
}

func (s *ChatService) GetSessions(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.ListSessionsParams](r)
	if err != nil {
		return nil, err
	}

	sessions, err := chat.GetSessions(s.db)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch sessions")
	}

	if params.Offset > 0 {
		if params.Offset >= len(sessions) {
			sessions = nil
		} else {
			sessions = sessions[params.Offset:]
		}
	}
	if params.Limit > 0 && params.Limit < len(sessions) {
		sessions = sessions[:params.Limit]
	}

	resp := api.GetSessionsResponse{Sessions: []api.ChatSessionMetadata{}}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, sessionMetadata(session))
	}
	return resp, nil
}

func (s *ChatService) StartSession(r *http.Request) (any, error) {
	req, err := ParseRequest[api.StartSessionRequest](r)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New session"
	}

	sessionID := uuid.New()
	if err := chat.CreateSession(s.db, &database.ChatSession{
		ID:           sessionID,
		Title:        title,
		CreationTime: time.Now(),
	}); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to create session")
	}

	return api.StartSessionResponse{SessionID: sessionID.String()}, nil
}

func (s *ChatService) GetSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	session, err := s.lookupSession(sessionID)
	if err != nil {
		return nil, err
	}

	return sessionMetadata(session), nil
}

func (s *ChatService) RenameSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}
	req, err := ParseRequest[api.RenameSessionRequest](r)
	if err != nil {
		return nil, err
	}

	if _, err := s.lookupSession(sessionID); err != nil {
		return nil, err
	}

	if err := chat.UpdateSessionTitle(s.db, sessionID, req.Title); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to rename session")
	}

	return nil, nil
}

func (s *ChatService) DeleteSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if _, err := s.lookupSession(sessionID); err != nil {
		return nil, err
	}

	if err := chat.DeleteSession(s.db, sessionID); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to delete session")
	}
	s.cache.Drop(sessionID)

	return nil, nil
}

func (s *ChatService) SendMessage(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "message is required")
	}

	if _, err := s.lookupSession(sessionID); err != nil {
		return nil, err
	}

	turn, err := s.cache.Get(sessionID).Ask(r.Context(), req.Message)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "chat turn failed: %v", err)
	}

	resp := api.ChatResponse{
		Reply:       turn.Reply,
		Code:        turn.Code,
		Explanation: turn.Explanation,
		ExecFailed:  turn.ExecFailed,
		Timestamp:   turn.Timestamp.Format(timestampFormat),
	}
	if len(turn.Charts) > 0 {
		charts, err := json.Marshal(turn.Charts)
		if err != nil {
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to serialize charts")
		}
		resp.Charts = charts
	}

	return resp, nil
}

func (s *ChatService) GetHistory(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if _, err := s.lookupSession(sessionID); err != nil {
		return nil, err
	}

	turns, err := chat.GetTurns(s.db, sessionID)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch history")
	}

	resp := []api.ChatHistoryItem{}
	for _, turn := range turns {
		resp = append(resp, api.ChatHistoryItem{
			Role:        turn.Role,
			Content:     turn.Content,
			Code:        turn.Code,
			Explanation: turn.Explanation,
			Charts:      json.RawMessage(turn.Charts),
			ExecFailed:  turn.ExecFailed,
			Timestamp:   turn.Timestamp.Format(timestampFormat),
		})
	}

	return resp, nil
}

func (s *ChatService) lookupSession(sessionID uuid.UUID) (database.ChatSession, error) {
	session, err := chat.GetSession(s.db, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session, CodedErrorf(http.StatusNotFound, "session not found")
		}
		return session, CodedErrorf(http.StatusInternalServerError, "failed to fetch session")
	}
	return session, nil
}

func sessionMetadata(session database.ChatSession) api.ChatSessionMetadata {
	return api.ChatSessionMetadata{
		ID:           session.ID,
		Title:        session.Title,
		CreationTime: session.CreationTime.Format(timestampFormat),
	}
}
