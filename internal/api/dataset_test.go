package api

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unsc-explorer/internal/dataset"
	pkgapi "unsc-explorer/pkg/api"
)

func newDatasetRouter() chi.Router {
	router := chi.NewRouter()
	NewDatasetService(testFrame()).AddRoutes(router)
	return router
}

func TestHealth(t *testing.T) {
	router := newDatasetRouter()
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetDataset(t *testing.T) {
	router := newDatasetRouter()

	rec := doJSON(t, router, http.MethodGet, "/dataset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	info := decodeJSON[pkgapi.DatasetInfo](t, rec)
	assert.Equal(t, "votes", info.Name)
	assert.Equal(t, 3, info.Rows)
	require.Len(t, info.Columns, len(dataset.Schema))
	assert.Equal(t, dataset.ColYear, info.Columns[1].Name)
	assert.Equal(t, "int", info.Columns[1].Kind)
	assert.NotEmpty(t, info.Columns[1].Description)
}

func TestQueryDataset(t *testing.T) {
	router := newDatasetRouter()

	rec := doJSON(t, router, http.MethodPost, "/dataset/query",
		pkgapi.QueryRequest{Query: `Vote = "No" AND Year > 2002`})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[pkgapi.QueryResponse](t, rec)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, dataset.ColumnNames(), resp.Columns)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Russian Federation", resp.Rows[0][len(resp.Rows[0])-1])
}

func TestQueryDatasetLimit(t *testing.T) {
	router := newDatasetRouter()

	rec := doJSON(t, router, http.MethodPost, "/dataset/query",
		pkgapi.QueryRequest{Query: `Year > 1900`, Limit: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[pkgapi.QueryResponse](t, rec)
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Rows, 2)
}

func TestQueryDatasetErrors(t *testing.T) {
	router := newDatasetRouter()

	rec := doJSON(t, router, http.MethodPost, "/dataset/query", pkgapi.QueryRequest{Query: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/dataset/query", pkgapi.QueryRequest{Query: `Vote LIKE "No"`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
