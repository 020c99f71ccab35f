// Package app wires the schedge client runtime together: API client,
// state store, push channel, and per-task edit buffers.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/schedge-app/schedge/internal/api"
	"github.com/schedge-app/schedge/internal/config"
	"github.com/schedge-app/schedge/internal/domain"
	"github.com/schedge-app/schedge/internal/editor"
	"github.com/schedge-app/schedge/internal/store"
)

// App is the client runtime. One App per user session.
type App struct {
	Config config.Config
	Client *api.Client
	Store  *store.Store

	mu      sync.Mutex
	editors map[string]*editor.Editor
	status  api.ConnStatus
	onConn  func(api.ConnStatus)
	cancel  context.CancelFunc
	pushWG  sync.WaitGroup
}

// New creates an App from the on-disk configuration.
func New() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg), nil
}

// NewWithConfig creates an App with the given configuration.
func NewWithConfig(cfg config.Config) *App {
	return &App{
		Config:  cfg,
		Client:  api.NewClient(cfg.Server.URL),
		Store:   store.New(),
		editors: make(map[string]*editor.Editor),
		status:  api.StatusDisconnected,
	}
}

// UserID returns the configured user id.
func (a *App) UserID() int64 { return a.Config.Server.UserID }

// Load fetches the initial snapshot into the store.
func (a *App) Load(ctx context.Context) error {
	st, err := a.Client.State(ctx, a.UserID())
	if err != nil {
		return fmt.Errorf("fetch state: %w", err)
	}
	a.Store.Replace(st)
	return nil
}

// StartPush launches the push channel in the background. Snapshots land in
// the store; connection status is observable via OnConnStatus.
func (a *App) StartPush(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	push := &api.Push{
		Client:      a.Client,
		UserID:      a.UserID(),
		OnState:     a.Store.Replace,
		OnStatus:    a.setStatus,
		BackoffBase: a.Config.BackoffBase(),
		BackoffCap:  a.Config.BackoffCap(),
	}
	a.pushWG.Add(1)
	go func() {
		defer a.pushWG.Done()
		if err := push.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[app] push channel stopped: %v", err)
		}
	}()
}

// OnConnStatus registers an observer for push connection changes. The
// current status is delivered immediately.
func (a *App) OnConnStatus(fn func(api.ConnStatus)) {
	a.mu.Lock()
	a.onConn = fn
	cur := a.status
	a.mu.Unlock()
	fn(cur)
}

// ConnStatus returns the last observed push connection status.
func (a *App) ConnStatus() api.ConnStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) setStatus(s api.ConnStatus) {
	a.mu.Lock()
	a.status = s
	fn := a.onConn
	a.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// Editor returns the edit buffer for a task, creating it on first use.
// Confirmed edits flow back into the store as single-task replacements.
func (a *App) Editor(id string) (*editor.Editor, error) {
	a.mu.Lock()
	if ed, ok := a.editors[id]; ok {
		a.mu.Unlock()
		return ed, nil
	}
	a.mu.Unlock()

	t, ok := a.Store.Task(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	ed := editor.New(a.UserID(), t, a, a.Config.Debounce())
	ed.OnAdopt(a.Store.ReplaceTask)

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.editors[id]; ok { // lost the race
		ed.Close()
		return existing, nil
	}
	a.editors[id] = ed
	return ed, nil
}

// UpdateTask implements editor.Flusher by delegating to the API client.
func (a *App) UpdateTask(ctx context.Context, userID int64, t domain.Task) (domain.Task, error) {
	return a.Client.UpdateTask(ctx, userID, t)
}

// CloseEditor flushes and discards a task's edit buffer, if one exists.
func (a *App) CloseEditor(ctx context.Context, id string) error {
	a.mu.Lock()
	ed, ok := a.editors[id]
	delete(a.editors, id)
	a.mu.Unlock()
	if !ok {
		return nil
	}
	var err error
	if !ed.Synced() {
		err = ed.Flush(ctx)
	}
	ed.Close()
	return err
}

// Close stops the push channel and all edit buffers. Unflushed edits are
// abandoned; call CloseEditor first to flush.
func (a *App) Close() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	eds := make([]*editor.Editor, 0, len(a.editors))
	for _, ed := range a.editors {
		eds = append(eds, ed)
	}
	a.editors = make(map[string]*editor.Editor)
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.pushWG.Wait()
	for _, ed := range eds {
		ed.Close()
	}
}
