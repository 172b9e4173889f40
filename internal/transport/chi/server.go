package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/itemdex/internal/db"
	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/price"
	"github.com/kailas-cloud/itemdex/internal/domain/search/result"
	"github.com/kailas-cloud/itemdex/internal/logger"
	healthuc "github.com/kailas-cloud/itemdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/itemdex/internal/usecase/search"
)

// ErrorCode is the machine-readable part of an error response.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest   ErrorCode = "bad_request"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeUnavailable  ErrorCode = "unavailable"
	ErrorCodeInternal     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q      string  `json:"q"`
	Source *string `json:"source,omitempty"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query  string        `json:"query"`
	Source string        `json:"source"`
	Groups []GroupResult `json:"groups"`
}

// GroupResult is one titled group of hits.
type GroupResult struct {
	Title string       `json:"title,omitempty"`
	Kind  string       `json:"kind,omitempty"`
	Notes []string     `json:"notes,omitempty"`
	Items []ItemResult `json:"items"`
}

// ItemResult is one hit.
type ItemResult struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server serves search over HTTP.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	source price.Source
	logger *zap.Logger
}

// NewServer creates a Server. source is used when a request does not name one.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	source price.Source,
	logger *zap.Logger,
) *Server {
	if source == "" {
		source = price.DefaultSource
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{search: search, health: health, source: source, logger: logger}
}

// Routes mounts the handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &params.Q); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid format for parameter q")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "source", r.URL.Query(), &params.Source); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid format for parameter source")
		return
	}

	source := s.source
	if params.Source != nil {
		parsed, err := price.ParseSource(*params.Source)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
			return
		}
		source = parsed
	}

	ctx := r.Context()
	groups, err := s.search.Search(ctx, params.Q, source)
	if err != nil {
		s.handleSearchError(ctx, w, err)
		return
	}

	resp := SearchResponse{
		Query:  params.Q,
		Source: string(source),
		Groups: make([]GroupResult, 0, len(groups)),
	}
	for i := range groups {
		g, err := groupToResult(ctx, &groups[i])
		if err != nil {
			s.handleSearchError(ctx, w, err)
			return
		}
		resp.Groups = append(resp.Groups, g)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func groupToResult(ctx context.Context, g *result.Group) (GroupResult, error) {
	out := GroupResult{
		Title: g.Title(),
		Kind:  string(g.Kind()),
		Notes: g.Notes(),
		Items: make([]ItemResult, 0, g.Len()),
	}
	for _, rec := range g.Items() {
		it := ItemResult{Index: rec.Index()}
		if err := item.DecodeField(ctx, rec, item.FieldName, &it.Name); err != nil {
			return GroupResult{}, err
		}
		if err := item.DecodeField(ctx, rec, item.FieldImage, &it.Image); err != nil {
			return GroupResult{}, err
		}
		out.Items = append(out.Items, it)
	}
	return out, nil
}

func (s *Server) handleSearchError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)
	var dbErr *db.Error
	switch {
	case errors.Is(err, searchuc.ErrNoSnapshot):
		log.Warn("search before catalog load", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, ErrorCodeUnavailable, "catalog not loaded")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn("search aborted", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, ErrorCodeUnavailable, "request aborted")
	case errors.As(err, &dbErr):
		log.Error("store error", zap.String("op", dbErr.Op), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, ErrorCodeUnavailable, "store unavailable")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrorCodeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
