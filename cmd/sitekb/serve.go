package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/sitekb"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It blocks until deps.Ctx is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := deps.Config.Serve.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(deps, ln, !c.NoStart)
}

func serve(deps *Dependencies, ln net.Listener, runAtStart bool) error {
	ctx := deps.Ctx
	logger := deps.Logger

	if err := deps.Scheduler.Start(ctx); err != nil {
		return err
	}
	if runAtStart {
		go func() {
			if _, err := deps.Ingester.IngestAll(ctx); err != nil && ctx.Err() == nil {
				logger.Error("startup ingestion failed", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Handler:           NewServer(deps.Ingester, deps.Feedback, deps.Metrics, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	logger.Info("listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
	case err := <-errc:
		<-deps.Scheduler.Stop().Done()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-deps.Scheduler.Stop().Done()
	logger.Info("server stopped")
	return err
}

// NewServer returns the HTTP handler exposing health, metrics, on-demand
// ingestion and feedback capture.
func NewServer(ingester sitekb.Ingester, feedback FeedbackAppender, metrics http.Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	mux.HandleFunc("POST /ingest", func(w http.ResponseWriter, r *http.Request) {
		res, err := ingester.IngestAll(r.Context())
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newIngestResponse(res))
	})

	mux.HandleFunc("POST /feedback", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
			writeError(w, logger, sitekb.Errorf(sitekb.EINVALID, "invalid JSON body"))
			return
		}
		if err := feedback.Append(r.Context(), req.Text); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

type sourceResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type ingestResponse struct {
	RunID      string           `json:"run_id"`
	Aggregated int              `json:"aggregated"`
	Added      int              `json:"added"`
	Created    bool             `json:"created"`
	Sources    []sourceResponse `json:"sources"`
}

func newIngestResponse(res *sitekb.IngestResult) *ingestResponse {
	resp := &ingestResponse{
		RunID:      res.RunID,
		Aggregated: res.Aggregated,
		Added:      res.Added,
		Created:    res.Created,
		Sources:    make([]sourceResponse, 0, len(res.Sources)),
	}
	for _, sr := range res.Sources {
		r := sourceResponse{Name: sr.Name, Count: sr.Count}
		if sr.Err != nil {
			r.Error = sr.Err.Error()
		}
		resp.Sources = append(resp.Sources, r)
	}
	return resp
}

// errorStatus maps application error codes to HTTP status codes.
var errorStatus = map[string]int{
	sitekb.EINVALID:  http.StatusBadRequest,
	sitekb.ENOTFOUND: http.StatusNotFound,
	sitekb.ECONFLICT: http.StatusConflict,
	sitekb.EINTERNAL: http.StatusInternalServerError,
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := sitekb.ErrorCode(err)
	status, ok := errorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": sitekb.ErrorMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
