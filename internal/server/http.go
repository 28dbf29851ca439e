package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"SimTuning/internal/constants"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type valueDTO struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func newMux(consts constants.Reader, hub *Hub, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /constants", func(w http.ResponseWriter, r *http.Request) {
		tbl, err := consts.Get()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorDTO{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, tbl.Map())
	})
	mux.HandleFunc("GET /constants/{name}", func(w http.ResponseWriter, r *http.Request) {
		tbl, err := consts.Get()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorDTO{Error: err.Error()})
			return
		}
		name := r.PathValue("name")
		v, ok := tbl.Value(name)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorDTO{Error: "unknown constant " + name})
			return
		}
		writeJSON(w, http.StatusOK, valueDTO{Name: name, Value: v})
	})
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(consts, hub, logger, w, r)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// startServer serves h on ln until ctx ends. Shutdown does not track
// hijacked connections, so the hub closes open WebSockets itself.
func startServer(ctx context.Context, ln net.Listener, h http.Handler, hub *Hub, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.RegisterOnShutdown(hub.CloseAll)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down constants server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
