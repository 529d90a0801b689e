package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"unsc-explorer/internal/dataset"
	"unsc-explorer/internal/dataset/query"
	"unsc-explorer/pkg/api"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// DatasetService serves read-only views of the loaded voting table: its schema and a
// deterministic filter-query endpoint that needs no model call.
type DatasetService struct {
	frame *dataset.Frame
}

func NewDatasetService(frame *dataset.Frame) *DatasetService {
	return &DatasetService{frame: frame}
}

func (s *DatasetService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/dataset", func(r chi.Router) {
		r.Get("/", RestHandler(s.GetDataset))
		r.Post("/query", RestHandler(s.QueryDataset))
	})
}

func (s *DatasetService) GetDataset(r *http.Request) (any, error) {
	info := api.DatasetInfo{
		Name: s.frame.Name(),
		Rows: s.frame.NumRows(),
	}
	for _, col := range dataset.Schema {
		info.Columns = append(info.Columns, api.ColumnInfo{
			Name:        col.Name,
			Kind:        col.Kind.String(),
			Description: col.Description,
		})
	}
	return info, nil
}

func (s *DatasetService) QueryDataset(r *http.Request) (any, error) {
	req, err := ParseRequest[api.QueryRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Query) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "query is required")
	}

	filter, err := query.Parse(req.Query)
	if err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "%v", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	matched := query.Apply(s.frame, filter)

	return api.QueryResponse{
		Total:   matched.NumRows(),
		Columns: matched.Columns(),
		Rows:    matched.Rows(limit),
	}, nil
}
