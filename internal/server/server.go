package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kernelsight/roofline-analyzer/internal/extractor"
	"github.com/kernelsight/roofline-analyzer/internal/roofline"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a completed analysis snapshot to the presentation layer as
// a read-only JSON API. It holds no mutable state: the snapshot is fixed at
// construction time.
type Server struct {
	log      logr.Logger
	result   extractor.Result
	analysis roofline.Analysis
}

// New creates a server over an extraction result and its roofline analysis.
func New(log logr.Logger, result extractor.Result, analysis roofline.Analysis) *Server {
	s := &Server{
		log:      log,
		result:   result,
		analysis: analysis,
	}
	recordAnalysis(result, analysis)
	return s
}

// Handler builds the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kernels", s.handleKernels)
	mux.HandleFunc("GET /api/roofline", s.handleRoofline)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Run serves the API until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("Serving analysis API", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// handleKernels returns the table-ready kernel rows. Display formatting
// (unit suffixes, rounding) is the UI's responsibility.
func (s *Server) handleKernels(w http.ResponseWriter, _ *http.Request) {
	rows := s.result.Metrics
	if rows == nil {
		// the table consumer expects an array, not null
		rows = []extractor.KernelMetric{}
	}
	s.writeJSON(w, rows)
}

type rooflineResponse struct {
	Curve   []roofline.Point       `json:"curve"`
	Kernels []roofline.KernelPoint `json:"kernels"`
}

// handleRoofline returns the two series for the log-log chart.
func (s *Server) handleRoofline(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, rooflineResponse{
		Curve:   s.analysis.Curve,
		Kernels: s.analysis.Kernels,
	})
}

type summaryResponse struct {
	roofline.Summary
	Focus        roofline.Focus `json:"focus"`
	RejectedRows int            `json:"rejectedRows"`
}

// handleSummary returns the flat summary scalars, the guidance focus flag
// and the rejected-row diagnostic count.
func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, summaryResponse{
		Summary:      s.analysis.Summary,
		Focus:        s.analysis.Focus,
		RejectedRows: s.result.Rejected,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error(err, "Failed to encode response")
	}
}
