package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/soaringjerry/kuesioner/internal/middleware"
	"github.com/soaringjerry/kuesioner/internal/services"
	"github.com/soaringjerry/kuesioner/internal/utils"
)

// HistoryStore lists recorded runs, newest first.
type HistoryStore interface {
	ListRuns(ctx context.Context, limit int) ([]*services.Run, error)
}

type Router struct {
	source  services.TableSource
	queries *services.QueryService
	summary *services.SummaryService
	history HistoryStore
	auth    *middleware.Authenticator
	log     *zap.Logger
}

type Options struct {
	Source   services.TableSource
	Recorder services.RunRecorder
	History  HistoryStore
	Auth     *middleware.Authenticator
	Log      *zap.Logger
}

func NewRouter(opts Options) *Router {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	auth := opts.Auth
	if auth == nil {
		auth = middleware.NewAuthenticator("", "", 0)
	}
	return &Router{
		source:  opts.Source,
		queries: services.NewQueryService(opts.Source, opts.Recorder, log),
		summary: services.NewSummaryService(opts.Source),
		history: opts.History,
		auth:    auth,
		log:     log,
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	protect := func(h http.HandlerFunc) http.Handler { return rt.auth.Require(h) }
	mux.HandleFunc("GET /health", rt.handleHealth)
	mux.HandleFunc("POST /api/auth/token", rt.handleToken)
	mux.Handle("GET /api/queries", protect(rt.handleListQueries))
	mux.Handle("GET /api/queries/{id}", protect(rt.handleQuery))
	mux.Handle("GET /api/summary", protect(rt.handleSummary))
	mux.Handle("GET /api/export", protect(rt.handleExport))
	mux.Handle("GET /api/history", protect(rt.handleHistory))
}

// Handler wires the routes behind the shared middleware chain.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	rt.Register(mux)
	return middleware.SecureHeaders(middleware.NoStore(middleware.CORS(middleware.LocaleMiddleware(mux))))
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"name":   "kuesioner",
		"locale": locale,
		"msg":    utils.T(locale, "health.ok"),
		"auth":   rt.auth.Enabled(),
	})
}

// POST /api/auth/token {"password": "..."}
func (rt *Router) handleToken(w http.ResponseWriter, r *http.Request) {
	if !rt.auth.Enabled() {
		rt.writeError(w, r, services.NewNotFoundError("authentication is not configured"))
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rt.writeError(w, r, services.NewInvalidError("invalid json body"))
		return
	}
	token, err := rt.auth.Login(body.Password)
	if err != nil {
		if errors.Is(err, middleware.ErrBadPassword) {
			rt.log.Warn("rejected login", zap.String("remote", r.RemoteAddr))
			rt.writeError(w, r, services.NewUnauthorizedError("invalid password"))
			return
		}
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (rt *Router) handleListQueries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"queries": services.Queries()})
}

// GET /api/queries/{id}
func (rt *Router) handleQuery(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	answer, err := rt.queries.Answer(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	qid, _ := services.ParseQueryID(id)
	writeJSON(w, http.StatusOK, map[string]string{"query": string(qid), "answer": answer})
}

func (rt *Router) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := rt.summary.Summary(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	for i := range sum.Sentiment {
		sum.Sentiment[i].Label = utils.T(locale, "sentiment."+string(sum.Sentiment[i].Sentiment))
	}
	writeJSON(w, http.StatusOK, sum)
}

// GET /api/export?format=wide|long
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.ExportWide
	}
	table, err := rt.source.LoadTable(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	data, err := services.ExportCSV(table, format)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"kuesioner_"+format+".csv\"")
	_, _ = w.Write(data)
}

// GET /api/history?limit=N
func (rt *Router) handleHistory(w http.ResponseWriter, r *http.Request) {
	if rt.history == nil {
		rt.writeError(w, r, services.NewNotFoundError("history is not enabled"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			rt.writeError(w, r, services.NewInvalidError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	runs, err := rt.history.ListRuns(r.Context(), limit)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*services.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	if se, ok := services.AsServiceError(err); ok {
		code = string(se.Code)
		status = statusFor(se.Code)
	}
	if status >= http.StatusInternalServerError {
		rt.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  code,
		"hint":  utils.T(locale, "error."+code),
	})
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid, services.ErrorUnknownQuery:
		return http.StatusBadRequest
	case services.ErrorSchema:
		return http.StatusUnprocessableEntity
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
