package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/schedge-app/schedge/internal/domain"
	"github.com/schedge-app/schedge/internal/wire"
)

func okJSON(w http.ResponseWriter, result any) {
	raw, _ := json.Marshal(result)
	json.NewEncoder(w).Encode(wire.Response{Status: "ok", Result: raw})
}

func errJSON(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(wire.Response{Status: "error", Message: msg})
}

func sampleWireTask(id string) wire.Task {
	return wire.Task{
		ID: id, Type: "fixed", Name: "Walk", Color: "#3498DB", Leisure: true,
		Dependencies: []string{}, Nonce: 1,
		Start: "2025-04-28T16:00:00+0300",
		End:   "2025-04-28T18:00:00+0300",
	}
}

func newTestServer(t *testing.T) (*Client, chi.Router) {
	t.Helper()
	r := chi.NewRouter()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL), r
}

func TestClient_State(t *testing.T) {
	client, r := newTestServer(t)
	task := sampleWireTask("1")
	r.Get("/api/v0/user/{userID}/state", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "userID") != "7" {
			errJSON(w, http.StatusNotFound, "unknown user")
			return
		}
		okJSON(w, wire.State{
			UserID: 7,
			Tasks:  []wire.Task{task},
			Slots:  []wire.Slot{{Start: task.Start, End: task.End, Task: task}},
		})
	})

	st, err := client.State(context.Background(), 7)
	if err != nil {
		t.Fatalf("State error: %v", err)
	}
	if st.UserID != 7 || len(st.Tasks) != 1 || len(st.Slots) != 1 {
		t.Fatalf("State = %+v", st)
	}
	if st.Tasks[0].Base().Name != "Walk" {
		t.Errorf("task name = %q", st.Tasks[0].Base().Name)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	client, r := newTestServer(t)
	r.Get("/api/v0/user/{userID}/task/{taskID}", func(w http.ResponseWriter, req *http.Request) {
		errJSON(w, http.StatusNotFound, "Task not found")
	})

	_, err := client.Task(context.Background(), 7, "nope")
	var reqErr *domain.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want RequestError", err)
	}
	if reqErr.Message != "Task not found" {
		t.Errorf("server message = %q, want %q", reqErr.Message, "Task not found")
	}
}

func TestClient_UpdateTaskRoundTrip(t *testing.T) {
	client, r := newTestServer(t)
	r.Put("/api/v0/user/{userID}/task/{taskID}", func(w http.ResponseWriter, req *http.Request) {
		var wt wire.Task
		if err := json.NewDecoder(req.Body).Decode(&wt); err != nil {
			errJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		okJSON(w, wt) // echo back, as the server stores the sent nonce
	})

	sent, err := wire.DecodeTask(sampleWireTask("42"))
	if err != nil {
		t.Fatalf("DecodeTask error: %v", err)
	}
	sent.Base().Nonce = 5

	got, err := client.UpdateTask(context.Background(), 7, sent)
	if err != nil {
		t.Fatalf("UpdateTask error: %v", err)
	}
	if got.Base().ID != "42" || got.Base().Nonce != 5 {
		t.Errorf("returned task id/nonce = %s/%d, want 42/5", got.Base().ID, got.Base().Nonce)
	}
}

func TestClient_DeleteAndQueue(t *testing.T) {
	client, r := newTestServer(t)
	deleted := false
	r.Delete("/api/v0/user/{userID}/task/{taskID}", func(w http.ResponseWriter, req *http.Request) {
		deleted = true
		okJSON(w, nil)
	})
	r.Post("/api/v0/user/{userID}/queue", func(w http.ResponseWriter, req *http.Request) {
		var q []int64
		json.NewDecoder(req.Body).Decode(&q)
		okJSON(w, q)
	})

	if err := client.DeleteTask(context.Background(), 7, "1"); err != nil {
		t.Fatalf("DeleteTask error: %v", err)
	}
	if !deleted {
		t.Error("DELETE route not hit")
	}

	queue, err := client.PostQueue(context.Background(), 7, []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("PostQueue error: %v", err)
	}
	if len(queue) != 3 || queue[0] != 3 {
		t.Errorf("queue = %v, want [3 1 2]", queue)
	}
}

func TestClient_MalformedStateFailsAsUnit(t *testing.T) {
	client, r := newTestServer(t)
	r.Get("/api/v0/user/{userID}/state", func(w http.ResponseWriter, req *http.Request) {
		bad := sampleWireTask("1")
		bad.Start = "not a timestamp"
		okJSON(w, wire.State{UserID: 7, Tasks: []wire.Task{bad}})
	})

	if _, err := client.State(context.Background(), 7); !errors.Is(err, domain.ErrBadFormat) {
		t.Errorf("State error = %v, want ErrBadFormat", err)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	client, r := newTestServer(t)
	r.Get("/api/v0/user/{userID}/task", func(w http.ResponseWriter, req *http.Request) {
		<-req.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.Tasks(ctx, 7); err == nil {
		t.Error("Tasks with cancelled context returned nil error")
	}
}
