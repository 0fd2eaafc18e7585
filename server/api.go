package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type api struct {
	store *Store
	log   *slog.Logger
	bus   *EventBus
}

func newAPI(store *Store, log *slog.Logger) *api {
	return &api{store: store, log: log, bus: NewEventBus()}
}

func parseID(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, r.Body)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// writeDomainError maps the core's sentinel errors to responses.
// Returns false when the error is not a domain condition and the
// caller should treat it as internal.
func writeDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, 404, "not found")
	case errors.Is(err, ErrTooFewColumns):
		writeError(w, 400, "at least 3 columns required")
	case errors.Is(err, ErrBoardExists):
		writeError(w, 409, "board name already taken")
	case errors.Is(err, ErrStale):
		writeError(w, 409, "card changed concurrently")
	case errors.Is(err, ErrCardBlocked):
		writeError(w, 409, "card is blocked")
	case errors.Is(err, ErrLastActiveColumn):
		writeError(w, 409, "card is on the last active column")
	case errors.Is(err, ErrAlreadyCancelled):
		writeError(w, 409, "card already cancelled")
	case errors.Is(err, ErrAlreadyBlocked):
		writeError(w, 409, "card already blocked")
	case errors.Is(err, ErrNotBlocked):
		writeError(w, 409, "card is not blocked")
	default:
		return false
	}
	return true
}

func (a *api) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", a.handleHealth)

	mux.HandleFunc("GET /api/boards", a.handleListBoards)
	mux.HandleFunc("POST /api/boards", a.handleCreateBoard)
	mux.HandleFunc("GET /api/boards/{ref}", a.handleGetBoard)
	mux.HandleFunc("DELETE /api/boards/{id}", a.handleDeleteBoard)
	mux.HandleFunc("GET /api/boards/{id}/columns", a.handleColumnsByBoard)
	mux.HandleFunc("GET /api/boards/{id}/cards", a.handleCardsByBoard)
	mux.HandleFunc("POST /api/boards/{id}/cards", a.handleCreateCard)
	mux.HandleFunc("GET /api/boards/{id}/history", a.handleBoardHistory)
	mux.HandleFunc("GET /api/boards/{id}/events", a.handleBoardEvents)

	mux.HandleFunc("GET /api/boards/{id}/reports/movement", a.handleMovementReport)
	mux.HandleFunc("GET /api/boards/{id}/reports/blocked", a.handleBlockedReport)

	mux.HandleFunc("GET /api/columns/{id}/cards", a.handleCardsByColumn)

	mux.HandleFunc("POST /api/cards/{id}/move", a.handleMoveCard)
	mux.HandleFunc("POST /api/cards/{id}/cancel", a.handleCancelCard)
	mux.HandleFunc("POST /api/cards/{id}/block", a.handleBlockCard)
	mux.HandleFunc("POST /api/cards/{id}/unblock", a.handleUnblockCard)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }

// Implement http.Flusher if underlying writer supports it (needed for SSE)
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func withLogging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sw, r)
		log.Info("http", "method", r.Method, "path", r.URL.Path, "status", sw.status, "dur_ms", time.Since(start).Milliseconds())
	})
}
