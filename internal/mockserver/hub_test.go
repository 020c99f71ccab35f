package mockserver

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/schedge-app/schedge/internal/wire"
)

// readEvent reads one SSE data payload off the stream.
func readEvent(t *testing.T, scanner *bufio.Scanner) wire.State {
	t.Helper()
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data.WriteString(strings.TrimPrefix(line, "data: "))
			continue
		}
		if line == "" && data.Len() > 0 {
			break
		}
	}
	if data.Len() == 0 {
		t.Fatalf("no event on stream: %v", scanner.Err())
	}
	var st wire.State
	if err := json.Unmarshal([]byte(data.String()), &st); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return st
}

func TestEvents_InitialSnapshotAndBroadcast(t *testing.T) {
	s, srv := newTestMock(t)
	postTask(t, srv, fixedWire("", "Walk"))

	resp, err := http.Get(srv.URL + "/api/v0/user/1/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}
	scanner := bufio.NewScanner(resp.Body)

	first := readEvent(t, scanner)
	if len(first.Tasks) != 1 {
		t.Fatalf("initial snapshot tasks = %d, want 1", len(first.Tasks))
	}

	// wait for the subscription before mutating
	deadline := time.After(2 * time.Second)
	for s.hub.Clients(1) == 0 {
		select {
		case <-deadline:
			t.Fatal("client never subscribed")
		case <-time.After(5 * time.Millisecond):
		}
	}

	postTask(t, srv, fixedWire("", "Run"))

	second := readEvent(t, scanner)
	if len(second.Tasks) != 2 {
		t.Errorf("broadcast snapshot tasks = %d, want 2", len(second.Tasks))
	}
}
