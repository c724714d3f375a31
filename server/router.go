package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

type handler struct {
	svc *Service
}

// NewRouter registers every endpoint under /api and, for older clients,
// the unprefixed /config, /state, /step and /reset.
func NewRouter(svc *Service) *mux.Router {
	h := &handler{svc: svc}
	r := mux.NewRouter()
	r.Use(logRequests, cors)

	for _, prefix := range []string{"/api", ""} {
		r.HandleFunc(prefix+"/config", h.getConfig).Methods(http.MethodGet)
		r.HandleFunc(prefix+"/config", h.postConfig).Methods(http.MethodPost)
		r.HandleFunc(prefix+"/state", h.state).Methods(http.MethodGet)
		r.HandleFunc(prefix+"/step", h.step).Methods(http.MethodPost)
		r.HandleFunc(prefix+"/reset", h.reset).Methods(http.MethodPost)
	}
	r.HandleFunc("/api/metrics", h.metrics).Methods(http.MethodGet)
	r.HandleFunc("/api/now", h.now).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", h.resource).Methods(http.MethodGet)
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// Router middleware only wraps matched routes. The OPTIONS catch-all
	// matches every path, so any other unmatched request is a method mismatch.
	r.MethodNotAllowedHandler = logRequests(cors(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorRsp{Error: fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path)})
	})))

	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		logrus.WithFields(logrus.Fields{
			"request_id": xid.New().String(),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     sr.status,
			"duration":   time.Since(start),
		}).Info("request")
	})
}

// ListenAndServe serves the router on addr until ctx is cancelled. ready, if
// non-nil, receives the bound address once the listener is open.
func ListenAndServe(ctx context.Context, addr string, svc *Service, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
