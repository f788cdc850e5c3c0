// Package daemon hosts reminder delivery for state written by other tempo
// processes and exposes local health and metrics endpoints.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	reminderin "tempo/internal/modules/reminder/port/in"
	trackerin "tempo/internal/modules/tracker/port/in"
)

type Server struct {
	tracker   trackerin.Usecase
	reminders reminderin.Usecase
	logger    hclog.Logger
	addr      string
	reload    time.Duration
}

func New(tracker trackerin.Usecase, reminders reminderin.Usecase, logger hclog.Logger, addr string, reload time.Duration) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{tracker: tracker, reminders: reminders, logger: logger, addr: addr, reload: reload}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", s.health)
	r.Get("/reminders", s.pending)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Run serves HTTP and reloads state until ctx is cancelled, then shuts the
// server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("daemon listening", "addr", s.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var tick <-chan time.Time
	if s.reload > 0 {
		ticker := time.NewTicker(s.reload)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("daemon shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err, ok := <-serveErr:
			if ok {
				return err
			}
			return nil
		case <-tick:
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn("reload failed", "error", err)
			}
		}
	}
}

// Reload re-reads storage, drops reminders of activities that were deleted
// or had reminders switched off, and re-arms the rest.
func (s *Server) Reload(ctx context.Context) error {
	report, err := s.tracker.Load(ctx)
	if err != nil {
		return err
	}
	for _, msg := range report.Errors {
		s.logger.Warn("reload degraded", "error", msg)
	}

	enabled := map[string]bool{}
	for _, a := range s.tracker.ListActivities(ctx) {
		enabled[a.ID] = a.Notification != nil && a.Notification.Enabled
	}
	for _, p := range s.reminders.Pending(ctx) {
		if enabled[p.ActivityID] {
			continue
		}
		if err := s.reminders.Cancel(ctx, p.ActivityID, p.Handle); err != nil {
			s.logger.Warn("cancel stale reminder", "activity", p.ActivityID, "error", err)
		}
	}
	return s.tracker.RescheduleAll(ctx)
}

type healthResponse struct {
	Status           string     `json:"status"`
	Activities       int        `json:"activities"`
	Records          int        `json:"records"`
	PendingReminders int        `json:"pendingReminders"`
	LastError        *errorBody `json:"lastError,omitempty"`
}

type errorBody struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type reminderBody struct {
	ActivityID string    `json:"activityId"`
	Handle     string    `json:"handle"`
	FireAt     time.Time `json:"fireAt"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := s.tracker.Snapshot(ctx)
	resp := healthResponse{
		Status:           "ok",
		Activities:       len(snap.Activities),
		Records:          len(snap.Records),
		PendingReminders: len(s.reminders.Pending(ctx)),
	}
	if last, ok := s.tracker.LastError(ctx); ok {
		resp.Status = "degraded"
		resp.LastError = &errorBody{Kind: last.Kind, Message: last.Message, At: last.At}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) pending(w http.ResponseWriter, r *http.Request) {
	pending := s.reminders.Pending(r.Context())
	out := make([]reminderBody, 0, len(pending))
	for _, p := range pending {
		out = append(out, reminderBody{ActivityID: p.ActivityID, Handle: p.Handle, FireAt: p.FireAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
