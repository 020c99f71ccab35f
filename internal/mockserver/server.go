package mockserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schedge-app/schedge/internal/wire"
)

// Server is the mock schedge backend.
type Server struct {
	db   *DB
	hub  *Hub
	http *http.Server
}

// NewServer wires a mock server around an open database.
func NewServer(db *DB) *Server {
	return &Server{db: db, hub: NewHub()}
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v0/user/{userID}", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/task", s.handleListTasks)
		r.Post("/task", s.handleCreateTask)
		r.Get("/task/{taskID}", s.handleGetTask)
		r.Put("/task/{taskID}", s.handleUpdateTask)
		r.Delete("/task/{taskID}", s.handleDeleteTask)
		r.Get("/slot", s.handleSlots)
		r.Get("/queue", s.handleGetQueue)
		r.Post("/queue", s.handlePostQueue)
		r.Post("/compute_slot_request", s.handleComputeSlots)
		r.Get("/events", s.handleEvents)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, "health", map[string]string{"status": "healthy"})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() { errc <- s.http.ListenAndServe() }()
	log.Printf("[mock] listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

// ─── Handlers ───────────────────────────────────────────────────────────────

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "state")
	if !ok {
		return
	}
	st, err := s.db.State(userID)
	if err != nil {
		writeError(w, "state", http.StatusInternalServerError, err.Error())
		return
	}
	writeOK(w, "state", st)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "task")
	if !ok {
		return
	}
	tasks, err := s.db.Tasks(userID)
	if err != nil {
		writeError(w, "task", http.StatusInternalServerError, err.Error())
		return
	}
	writeOK(w, "task", tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "task")
	if !ok {
		return
	}
	var wt wire.Task
	if err := json.NewDecoder(r.Body).Decode(&wt); err != nil {
		writeError(w, "task", http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if wt.ID == "" {
		wt.ID = uuid.New().String()
	}
	if wt.Dependencies == nil {
		wt.Dependencies = []string{}
	}
	if _, err := wire.DecodeTask(wt); err != nil {
		writeError(w, "task", http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.PutTask(userID, wt); err != nil {
		writeError(w, "task", http.StatusInternalServerError, err.Error())
		return
	}
	s.broadcast(userID)
	writeOK(w, "task", wt)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "task")
	if !ok {
		return
	}
	wt, err := s.db.Task(userID, chi.URLParam(r, "taskID"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, "task", http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		writeError(w, "task", http.StatusInternalServerError, err.Error())
		return
	}
	writeOK(w, "task", wt)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "task")
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "taskID")
	if _, err := s.db.Task(userID, taskID); errors.Is(err, sql.ErrNoRows) {
		writeError(w, "task", http.StatusNotFound, "Task not found")
		return
	} else if err != nil {
		writeError(w, "task", http.StatusInternalServerError, err.Error())
		return
	}

	var wt wire.Task
	if err := json.NewDecoder(r.Body).Decode(&wt); err != nil {
		writeError(w, "task", http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	wt.ID = taskID
	if wt.Dependencies == nil {
		wt.Dependencies = []string{}
	}
	if _, err := wire.DecodeTask(wt); err != nil {
		writeError(w, "task", http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.PutTask(userID, wt); err != nil {
		writeError(w, "task", http.StatusInternalServerError, err.Error())
		return
	}
	s.broadcast(userID)
	writeOK(w, "task", wt)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "task")
	if !ok {
		return
	}
	existed, err := s.db.DeleteTask(userID, chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, "task", http.StatusInternalServerError, err.Error())
		return
	}
	if !existed {
		writeError(w, "task", http.StatusNotFound, "Task not found")
		return
	}
	s.broadcast(userID)
	writeOK(w, "task", nil)
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "slot")
	if !ok {
		return
	}
	slots, err := s.db.Slots(userID)
	if err != nil {
		writeError(w, "slot", http.StatusInternalServerError, err.Error())
		return
	}
	writeOK(w, "slot", slots)
}

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "queue")
	if !ok {
		return
	}
	queue, err := s.db.Queue(userID)
	if err != nil {
		writeError(w, "queue", http.StatusInternalServerError, err.Error())
		return
	}
	writeOK(w, "queue", queue)
}

func (s *Server) handlePostQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "queue")
	if !ok {
		return
	}
	var queue []int64
	if err := json.NewDecoder(r.Body).Decode(&queue); err != nil {
		writeError(w, "queue", http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.db.ReplaceQueue(userID, queue); err != nil {
		writeError(w, "queue", http.StatusInternalServerError, err.Error())
		return
	}
	s.broadcast(userID)
	writeOK(w, "queue", queue)
}

func (s *Server) handleComputeSlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "compute_slot_request")
	if !ok {
		return
	}
	if err := s.reschedule(userID); err != nil {
		writeError(w, "compute_slot_request", http.StatusInternalServerError, err.Error())
		return
	}
	writeOK(w, "compute_slot_request", nil)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r, "events")
	if !ok {
		return
	}
	st, err := s.db.State(userID)
	if err != nil {
		writeError(w, "events", http.StatusInternalServerError, err.Error())
		return
	}
	PushClients.Inc()
	defer PushClients.Dec()
	s.hub.ServeSSE(w, r, userID, st)
}

// ─── Internals ──────────────────────────────────────────────────────────────

// reschedule recomputes and stores a user's slots, then broadcasts.
func (s *Server) reschedule(userID int64) error {
	ScheduleRuns.Inc()
	tasks, err := s.db.Tasks(userID)
	if err != nil {
		return err
	}
	slots, err := ComputeSlots(tasks)
	if err != nil {
		return err
	}
	if err := s.db.ReplaceSlots(userID, slots); err != nil {
		return err
	}
	s.broadcast(userID)
	return nil
}

// broadcast pushes the user's current snapshot to all stream clients.
func (s *Server) broadcast(userID int64) {
	st, err := s.db.State(userID)
	if err != nil {
		log.Printf("[mock] broadcast user %d: %v", userID, err)
		return
	}
	s.hub.Broadcast(st)
}

func userParam(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, route, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

// writeOK writes a success envelope.
func writeOK(w http.ResponseWriter, route string, result any) {
	RequestsTotal.WithLabelValues(route, "ok").Inc()
	raw, err := json.Marshal(result)
	if err != nil {
		writeError(w, route, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(wire.Response{Status: "ok", Result: raw})
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, route string, status int, msg string) {
	RequestsTotal.WithLabelValues(route, "error").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(wire.Response{Status: "error", Message: msg})
}
