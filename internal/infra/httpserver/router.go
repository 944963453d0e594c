package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Idosegev23/GameChanger/internal/application/access"
	appanalyses "github.com/Idosegev23/GameChanger/internal/application/analyses"
	"github.com/Idosegev23/GameChanger/internal/application/report"
	domai "github.com/Idosegev23/GameChanger/internal/domain/ai"
	domain "github.com/Idosegev23/GameChanger/internal/domain/analyses"
	"github.com/Idosegev23/GameChanger/internal/middleware"
)

// Dispatcher schedules background processing without blocking the caller.
type Dispatcher interface {
	Enqueue(id domain.AnalysisID)
}

type Router struct {
	svc        *appanalyses.Service
	checker    *access.Checker
	dispatcher Dispatcher
}

func NewRouter(svc *appanalyses.Service, checker *access.Checker, dispatcher Dispatcher) http.Handler {
	r := &Router{svc: svc, checker: checker, dispatcher: dispatcher}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Get("/analyses", r.wrap(r.handleStatus))
	mux.Post("/analyses", r.wrap(r.handleTrigger))
	mux.Get("/analyses/latest", r.wrap(r.handleLatest))
	mux.Get("/analyses/{id}/report", r.wrap(r.handleReport))
	mux.Get("/analyses/{id}/recording", r.wrap(r.handleRecording))
	mux.Get("/analyses/{id}/errors", r.wrap(r.handleTaskErrors))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// httpError carries a status code with the message; everything else is 500.
type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(msg string) error   { return &httpError{code: http.StatusBadRequest, msg: msg} }
func unauthorized(msg string) error { return &httpError{code: http.StatusUnauthorized, msg: msg} }
func forbidden(msg string) error    { return &httpError{code: http.StatusForbidden, msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var herr *httpError
		switch {
		case errors.As(err, &herr):
			writeJSON(w, herr.code, map[string]string{"error": herr.msg})
		case errors.Is(err, sql.ErrNoRows):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		case errors.Is(err, domain.ErrNoRecording):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "recording not available"})
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "ai quota exceeded"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// analysisID validates the identifier before anything touches the store.
func analysisID(raw string) (domain.AnalysisID, error) {
	if raw == "" {
		return "", badRequest("missing analysis id")
	}
	if err := middleware.ValidateAnalysisID(raw); err != nil {
		return "", badRequest(err.Error())
	}
	return domain.AnalysisID(raw), nil
}

var statusMessages = map[domain.Status]string{
	domain.StatusPending:    "analysis is waiting to be processed",
	domain.StatusProcessing: "analysis is being processed",
	domain.StatusDone:       "analysis is complete",
	domain.StatusError:      "analysis failed",
}

// GET /analyses?id=<id>
// Read-only snapshot of the lifecycle state; safe to poll.
func (r *Router) handleStatus(w http.ResponseWriter, req *http.Request) error {
	id, err := analysisID(req.URL.Query().Get("id"))
	if err != nil {
		return err
	}

	a, err := r.svc.Get(req.Context(), id)
	if err != nil {
		return err
	}

	msg, ok := statusMessages[a.Status]
	if !ok {
		msg = "analysis status is unknown"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      a.ID,
		"status":  a.Status,
		"message": msg,
	})
	return nil
}

// POST /analyses?id=<id>
// Schedules the processing task and acknowledges immediately. The task runs
// detached from this request; its errors are dead-lettered, never returned
// here.
func (r *Router) handleTrigger(w http.ResponseWriter, req *http.Request) error {
	id, err := analysisID(req.URL.Query().Get("id"))
	if err != nil {
		return err
	}

	r.dispatcher.Enqueue(id)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"id":      id,
		"message": "analysis processing started",
		"status":  domain.StatusPending,
	})
	return nil
}

// GET /analyses/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	viewer := middleware.CurrentUser(req.Context())
	if viewer == nil {
		return unauthorized("authentication required")
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.LatestByOwner(req.Context(), viewer.ID, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /analyses/{id}/report
// Server-side render decision: the permission outcome and the lifecycle
// state select the view. Denied viewers get the no-access view, not an
// error: it is a renderable state.
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	id, err := analysisID(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}

	a, err := r.svc.Get(req.Context(), id)
	if err != nil {
		return err
	}

	viewer := middleware.CurrentUser(req.Context())
	decision := r.checker.Check(req.Context(), viewer, a)

	writeJSON(w, http.StatusOK, report.Render(decision, a))
	return nil
}

// GET /analyses/{id}/recording
// Short-lived playback link for the call audio; same read permission as the
// report.
func (r *Router) handleRecording(w http.ResponseWriter, req *http.Request) error {
	id, err := analysisID(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}

	a, err := r.svc.Get(req.Context(), id)
	if err != nil {
		return err
	}

	viewer := middleware.CurrentUser(req.Context())
	if r.checker.Check(req.Context(), viewer, a) != access.Granted {
		return forbidden("you do not have permission to view this analysis")
	}

	link, err := r.svc.RecordingLink(req.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
	return nil
}

// GET /analyses/{id}/errors?limit=50
// Dead-letter entries for debugging; same read permission as the report.
func (r *Router) handleTaskErrors(w http.ResponseWriter, req *http.Request) error {
	id, err := analysisID(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}

	a, err := r.svc.Get(req.Context(), id)
	if err != nil {
		return err
	}

	viewer := middleware.CurrentUser(req.Context())
	if r.checker.Check(req.Context(), viewer, a) != access.Granted {
		return forbidden("you do not have permission to view this analysis")
	}

	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.svc.TaskErrors(req.Context(), id, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}
