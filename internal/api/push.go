package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
	"github.com/schedge-app/schedge/internal/wire"
)

// ConnStatus is the observable state of the push channel.
type ConnStatus int

const (
	StatusConnecting ConnStatus = iota
	StatusConnected
	StatusDisconnected
)

func (s ConnStatus) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Reconnect back-off bounds, matching the original client: 1s doubling
// to a 30s cap, reset on successful connection.
const (
	DefaultBackoffBase = time.Second
	DefaultBackoffCap  = 30 * time.Second
)

// Backoff returns the delay before reconnect attempt number failures
// (0-based): base, 2*base, 4*base, ... capped at max. Pure function so
// the schedule is testable without networking.
func Backoff(failures int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if max <= 0 {
		max = DefaultBackoffCap
	}
	d := base
	for i := 0; i < failures && d < max; i++ {
		d *= 2
	}
	if d > max {
		d = max
	}
	return d
}

// streamClient has no client-side timeout; the event stream is long-lived.
var streamClient = &http.Client{}

// Push subscribes to the server's event stream and delivers decoded
// full-state snapshots. One logical connection at a time; connection loss
// triggers reconnection with exponential back-off.
type Push struct {
	Client *Client
	UserID int64

	// OnState receives every decoded snapshot, in arrival order.
	OnState func(domain.State)
	// OnStatus, when set, observes connection state changes.
	OnStatus func(ConnStatus)

	// BackoffBase and BackoffCap bound the reconnect delay; zero values
	// select the defaults.
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

func (p *Push) status(s ConnStatus) {
	if p.OnStatus != nil {
		p.OnStatus(s)
	}
}

// Run blocks, maintaining the subscription until ctx is cancelled.
// Returns ctx.Err on cancellation.
func (p *Push) Run(ctx context.Context) error {
	failures := 0
	for {
		p.status(StatusConnecting)
		err := p.stream(ctx, &failures)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.status(StatusDisconnected)
		_ = err // the stream self-heals; the status callback is the surface

		delay := Backoff(failures, p.BackoffBase, p.BackoffCap)
		failures++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// stream opens one SSE connection and dispatches snapshots until the
// connection drops. failures is reset once the stream is established.
func (p *Push) stream(ctx context.Context, failures *int) error {
	url := p.Client.BaseURL() + userPath(p.UserID, "/events")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDisconnected, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrDisconnected, resp.StatusCode)
	}

	*failures = 0
	p.status(StatusConnected)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024) // snapshots can be large
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data.WriteString(strings.TrimPrefix(line, "data: "))
			continue
		}
		if line == "" && data.Len() > 0 {
			p.dispatch(data.String())
			data.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDisconnected, err)
	}
	return domain.ErrDisconnected // orderly EOF still means the channel dropped
}

// dispatch decodes one snapshot and hands it to OnState. A snapshot that
// fails to decode is dropped whole; the next one replaces it anyway.
func (p *Push) dispatch(payload string) {
	var ws wire.State
	if err := json.Unmarshal([]byte(payload), &ws); err != nil {
		log.Printf("push: dropping undecodable snapshot: %v", err)
		return
	}
	st, err := wire.DecodeState(ws)
	if err != nil {
		log.Printf("push: dropping undecodable snapshot: %v", err)
		return
	}
	if p.OnState != nil {
		p.OnState(st)
	}
}
