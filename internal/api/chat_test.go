package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"unsc-explorer/internal/chat"
	"unsc-explorer/internal/database"
	"unsc-explorer/internal/dataset"
	"unsc-explorer/internal/llm"
	"unsc-explorer/internal/sandbox"
	pkgapi "unsc-explorer/pkg/api"
)

func testFrame() *dataset.Frame {
	columns := dataset.ColumnNames()
	rows := [][]string{
		{"1", "1994", "1994-05-31", "924 (1994)", "S/1994/646", "Adopted unanimously", "Yemen", "Country-specific", "Middle East", "Yes", "France"},
		{"2", "2002", "2002-03-14", "", "S/2002/275", "Not adopted - veto", "Middle East", "Country-specific", "Middle East", "No", "United States"},
		{"3", "2004", "2004-06-01", "", "S/2004/100", "Not adopted - veto", "Cyprus", "Country-specific", "Europe", "No", "Russian Federation"},
	}
	return dataset.NewFrame("votes", columns, rows)
}

// scriptedGenerator returns a canned snippet for codegen calls and a canned explanation for
// everything else.
type scriptedGenerator struct{}

func (scriptedGenerator) Generate(_ context.Context, messages []llm.Message, _ float64) (string, error) {
	if len(messages) > 0 && messages[0].Role == llm.RoleSystem {
		return "```go\nfiltered := df.Where(\"Vote\", \"==\", \"No\")\nout.Textf(\"found %d No votes\", filtered.NumRows())\n```", nil
	}
	return "- Filtered to No votes and counted them.", nil
}

func newTestRouter(t *testing.T) chi.Router {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.GetMigrator(db).Migrate())

	frame := testFrame()
	cache := chat.NewSessionCache(4, db, scriptedGenerator{}, sandbox.NewExecutor(0), frame, 0, 0)

	router := chi.NewRouter()
	NewDatasetService(frame).AddRoutes(router)
	NewChatService(db, cache).AddRoutes(router)
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var data T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&data))
	return data
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/chat/sessions", pkgapi.StartSessionRequest{Title: "Veto research"})
	require.Equal(t, http.StatusOK, rec.Code)
	start := decodeJSON[pkgapi.StartSessionResponse](t, rec)
	require.NotEmpty(t, start.SessionID)

	rec = doJSON(t, router, http.MethodGet, "/chat/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sessions := decodeJSON[pkgapi.GetSessionsResponse](t, rec)
	require.Len(t, sessions.Sessions, 1)
	assert.Equal(t, "Veto research", sessions.Sessions[0].Title)

	rec = doJSON(t, router, http.MethodGet, "/chat/sessions/"+start.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	meta := decodeJSON[pkgapi.ChatSessionMetadata](t, rec)
	assert.Equal(t, "Veto research", meta.Title)

	rec = doJSON(t, router, http.MethodPost, "/chat/sessions/"+start.SessionID+"/rename", pkgapi.RenameSessionRequest{Title: "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/chat/sessions/"+start.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	meta = decodeJSON[pkgapi.ChatSessionMetadata](t, rec)
	assert.Equal(t, "Renamed", meta.Title)

	rec = doJSON(t, router, http.MethodDelete, "/chat/sessions/"+start.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/chat/sessions/"+start.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartSessionDefaultTitle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/chat/sessions", pkgapi.StartSessionRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	start := decodeJSON[pkgapi.StartSessionResponse](t, rec)

	rec = doJSON(t, router, http.MethodGet, "/chat/sessions/"+start.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	meta := decodeJSON[pkgapi.ChatSessionMetadata](t, rec)
	assert.Equal(t, "New session", meta.Title)
}

func TestListSessionsPagination(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/chat/sessions", pkgapi.StartSessionRequest{Title: fmt.Sprintf("session %d", i)})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/chat/sessions?offset=1&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sessions := decodeJSON[pkgapi.GetSessionsResponse](t, rec)
	require.Len(t, sessions.Sessions, 1)
	assert.Equal(t, "session 1", sessions.Sessions[0].Title)

	rec = doJSON(t, router, http.MethodGet, "/chat/sessions?offset=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sessions = decodeJSON[pkgapi.GetSessionsResponse](t, rec)
	assert.Empty(t, sessions.Sessions)
}

func TestSendMessageAndHistory(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/chat/sessions", pkgapi.StartSessionRequest{Title: "Q&A"})
	require.Equal(t, http.StatusOK, rec.Code)
	start := decodeJSON[pkgapi.StartSessionResponse](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/chat/sessions/"+start.SessionID+"/messages",
		pkgapi.ChatRequest{Message: "How many No votes are there?"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[pkgapi.ChatResponse](t, rec)

	assert.Equal(t, "found 2 No votes", resp.Reply)
	assert.Contains(t, resp.Code, "df.Where")
	assert.Equal(t, "- Filtered to No votes and counted them.", resp.Explanation)
	assert.False(t, resp.ExecFailed)
	assert.NotEmpty(t, resp.Timestamp)

	rec = doJSON(t, router, http.MethodGet, "/chat/sessions/"+start.SessionID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeJSON[[]pkgapi.ChatHistoryItem](t, rec)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "How many No votes are there?", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "found 2 No votes", history[1].Content)
	assert.NotEmpty(t, history[1].Code)
}

func TestSendMessageValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/chat/sessions", pkgapi.StartSessionRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	start := decodeJSON[pkgapi.StartSessionResponse](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/chat/sessions/"+start.SessionID+"/messages", pkgapi.ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/chat/sessions/not-a-uuid/messages", pkgapi.ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/chat/sessions/00000000-0000-0000-0000-000000000001/messages", pkgapi.ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
