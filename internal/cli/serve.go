package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tmarceau/croquis/pkg/buildinfo"
	"github.com/tmarceau/croquis/pkg/cache"
	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/formats"
	"github.com/tmarceau/croquis/pkg/pipeline"
)

const (
	defaultServeAddr = ":8080"

	// maxRenderBody caps request bodies; treebanks beyond this are a job
	// for the CLI, not an API call.
	maxRenderBody = 16 << 20
)

// serveCommand creates the serve command, which exposes the conversion
// pipeline as an HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, redisAddr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion pipeline over HTTP",
		Long: `Serve starts an HTTP server exposing the pipeline.

Endpoints:
  POST /v1/render   convert a treebank; body: {"content": "...", "format": "...", "outputs": [...]}
  GET  /v1/healthz  liveness probe
  GET  /v1/version  build information`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			if addr == "" {
				addr = defaultServeAddr
			}
			if redisAddr == "" {
				redisAddr = c.Config.Serve.RedisAddr
			}
			return c.runServe(cmd.Context(), addr, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the artifact cache (default: file cache)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr string, noCache bool) error {
	store, err := c.newServeCache(ctx, redisAddr, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, c.Logger)
	defer runner.Close()

	srv := &server{runner: runner, logger: c.Logger}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (c *CLI) newServeCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr, appName)
	}
	return c.newCache(false)
}

// server holds the HTTP handler state.
type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// routes builds the router with request-ID and recovery middleware.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Get("/healthz", s.handleHealthz)
		r.Get("/version", s.handleVersion)
	})
	return r
}

// requestID tags every request with a UUID, echoed in the X-Request-Id
// header and attached to log lines.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		s.logger.Debug("request", "request_id", id, "method", r.Method, "path", r.URL.Path)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestIDKey is the context key for the request ID.
const requestIDKey ctxKey = 1

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// renderRequest is the body of POST /v1/render. The pipeline options are
// embedded, so format, outputs, keep_going, detailed, and refresh are
// top-level fields.
type renderRequest struct {
	Content string `json:"content"`
	pipeline.Options
}

// renderResponse is the reply of POST /v1/render. Artifact bytes are
// base64-encoded by the JSON encoder.
type renderResponse struct {
	RequestID string            `json:"request_id"`
	Dialect   formats.Name      `json:"dialect"`
	Trees     int               `json:"trees"`
	Words     int               `json:"words"`
	Skipped   int               `json:"skipped,omitempty"`
	Cached    bool              `json:"cached"`
	Artifacts map[string][]byte `json:"artifacts"`
}

// errorResponse is the reply for any failed request.
type errorResponse struct {
	RequestID string      `json:"request_id"`
	Code      errors.Code `json:"code"`
	Error     string      `json:"error"`
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req renderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRenderBody))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, ctx, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Content == "" {
		s.writeError(w, ctx, errors.New(errors.ErrCodeInvalidInput, "content must not be empty"))
		return
	}

	result, err := s.runner.Execute(ctx, []byte(req.Content), req.Options)
	if err != nil {
		s.writeError(w, ctx, err)
		return
	}

	s.writeJSON(w, http.StatusOK, renderResponse{
		RequestID: requestIDFrom(ctx),
		Dialect:   result.Dialect,
		Trees:     result.Stats.TreeCount,
		Words:     result.Stats.WordCount,
		Skipped:   result.Skipped,
		Cached:    result.CacheInfo.RenderHit,
		Artifacts: result.Artifacts,
	})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

func (s *server) writeError(w http.ResponseWriter, ctx context.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidField, errors.ErrCodeStructure,
		errors.ErrCodeInvalidOutput, errors.ErrCodeFormatGuess, errors.ErrCodeUnknownFormat:
		status = http.StatusBadRequest
	case "":
		code = errors.ErrCodeInternal
	}

	s.logger.Error("request failed", "request_id", requestIDFrom(ctx), "code", code, "err", err)
	s.writeJSON(w, status, errorResponse{
		RequestID: requestIDFrom(ctx),
		Code:      code,
		Error:     errors.UserMessage(err),
	})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}
