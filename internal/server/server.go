package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"LevelSentinel/internal/analyzer"
	"LevelSentinel/internal/model"
)

// Server exposes the analyzer over HTTP.
type Server struct {
	Service *analyzer.Service
	// BaseInterval and Confirm fill in missing query parameters.
	BaseInterval model.Interval
	Confirm      []model.Interval
	LookbackDays int
	// Now is used to default the date window.
	Now func() time.Time
}

// New creates a Server with the given defaults.
func New(svc *analyzer.Service, base model.Interval, confirm []model.Interval, lookbackDays int) *Server {
	return &Server{
		Service:      svc,
		BaseInterval: base,
		Confirm:      confirm,
		LookbackDays: lookbackDays,
		Now:          time.Now,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.StrictSlash(true)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/significant-levels/", s.handleSignificantLevels).Methods(http.MethodGet)
	router.HandleFunc("/validated-levels/", s.handleValidatedLevels).Methods(http.MethodGet)
	router.HandleFunc("/trend/", s.handleTrend).Methods(http.MethodGet)
	router.Use(logRequests)
	return router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Handler:           s.Router(),
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("http server stopped")
	return nil
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"query":   r.URL.RawQuery,
			"elapsed": time.Since(began).Round(time.Millisecond),
		}).Debug("request served")
	})
}
