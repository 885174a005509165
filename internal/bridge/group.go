// Package bridge connects renderers to the host application. A Group owns the
// window transports and the renderer handle table; window ids come from a
// sequence shared by every group in the process. Each renderer gets a Bridge
// that dispatches its script messages and raises its events to the host.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/bridge/window"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
	"github.com/bnema/webbridge/internal/mainloop"
)

// DefaultNamespace is the global object the bootstrap script installs.
const DefaultNamespace = "webbridge"

// Config holds the settings shared by every bridge of a group.
type Config struct {
	Namespace string

	// HostTimeout bounds each host round trip. Zero waits forever.
	HostTimeout time.Duration
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithScheduler sets the main-context scheduler host timeouts run on.
func WithScheduler(s port.Scheduler) GroupOption {
	return func(g *Group) { g.scheduler = s }
}

// WithWindowSequence draws window ids from seq instead of the process-wide
// sequence.
func WithWindowSequence(seq *window.Sequence) GroupOption {
	return func(g *Group) { g.windows = window.NewRegistryWithSequence(seq) }
}

// WithRendererFactory enables popup windows.
func WithRendererFactory(f port.RendererFactory) GroupOption {
	return func(g *Group) { g.factory = f }
}

// WithRecorder reports every round trip outcome to r.
func WithRecorder(r port.OutcomeRecorder) GroupOption {
	return func(g *Group) { g.recorder = r }
}

// WithIdentityLoader loads client certificates on w.
func WithIdentityLoader(loader port.IdentityLoader, w *mainloop.Worker) GroupOption {
	return func(g *Group) {
		g.identities = loader
		g.worker = w
	}
}

// WithBridgeCount calls fn with the number of live bridges whenever it
// changes.
func WithBridgeCount(fn func(live int)) GroupOption {
	return func(g *Group) { g.onCount = fn }
}

// Group is the set of renderers that share one window registry.
// It is used from the main sequential context only.
type Group struct {
	cfg        Config
	scheduler  port.Scheduler
	factory    port.RendererFactory
	recorder   port.OutcomeRecorder
	identities port.IdentityLoader
	worker     *mainloop.Worker
	onCount    func(int)

	windows *window.Registry
	bridges map[entity.RendererID]*Bridge
}

// NewGroup creates an empty group.
func NewGroup(cfg Config, opts ...GroupOption) *Group {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	g := &Group{
		cfg:     cfg,
		windows: window.NewRegistry(),
		bridges: make(map[entity.RendererID]*Bridge),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Attach creates the bridge of a top-level renderer. A renderer that is a
// port.ScriptRealm gets the bootstrap script and sends its messages to the
// bridge; other renderers are wired by the embedder.
func (g *Group) Attach(ctx context.Context, renderer port.Renderer, host port.HostChannel) (*Bridge, error) {
	if renderer == nil {
		return nil, errors.New("renderer cannot be nil")
	}
	if _, exists := g.bridges[renderer.ID()]; exists {
		return nil, fmt.Errorf("renderer %s already has a bridge", renderer.ID())
	}
	b := newBridge(g, renderer, host, 0)
	if err := b.installRealm(ctx); err != nil {
		return nil, err
	}
	g.bridges[b.id] = b
	g.countChanged()

	logging.FromContext(ctx).Debug().Uint64("renderer_id", uint64(b.id)).Msg("bridge attached")
	return b, nil
}

// Lookup resolves a renderer handle. A disposed renderer is not found.
func (g *Group) Lookup(id entity.RendererID) (*Bridge, bool) {
	b, ok := g.bridges[id]
	return b, ok
}

// Len returns the number of live bridges.
func (g *Group) Len() int {
	return len(g.bridges)
}

// Windows exposes the group's window registry.
func (g *Group) Windows() *window.Registry {
	return g.windows
}

// Namespace returns the script namespace object name.
func (g *Group) Namespace() string {
	return g.cfg.Namespace
}

// MarkWindowAttached is called by the presentation layer once the host has
// attached the surface of window id.
func (g *Group) MarkWindowAttached(ctx context.Context, id entity.WindowID) error {
	return g.windows.MarkAttached(ctx, id)
}

// Dispose disposes every bridge.
func (g *Group) Dispose(ctx context.Context) {
	for _, b := range g.bridges {
		b.Dispose(ctx)
	}
}

func (g *Group) spawnChild(ctx context.Context, parent *Bridge, id entity.WindowID) (entity.RendererID, error) {
	if g.factory == nil {
		return 0, errors.New("no renderer factory configured")
	}
	renderer, host, err := g.factory.NewChild(ctx, parent.renderer, id)
	if err != nil {
		return 0, err
	}
	if _, exists := g.bridges[renderer.ID()]; exists {
		return 0, fmt.Errorf("renderer %s already has a bridge", renderer.ID())
	}
	child := newBridge(g, renderer, host, id)
	if err := child.installRealm(ctx); err != nil {
		if d, ok := renderer.(port.Disposer); ok {
			d.Dispose(ctx)
		}
		return 0, err
	}
	g.bridges[child.id] = child
	g.countChanged()

	for _, cfg := range parent.channels.Listeners() {
		if err := child.channels.AddListener(ctx, cfg); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("listener", cfg.JSObjectName).Msg("failed to copy listener to child window")
		}
	}
	return child.id, nil
}

func (g *Group) countChanged() {
	if g.onCount != nil {
		g.onCount(len(g.bridges))
	}
}

func (g *Group) discard(ctx context.Context, id entity.RendererID) {
	if b, ok := g.bridges[id]; ok {
		b.Dispose(ctx)
	}
}

// route picks the bridge a message is attributed to: the child of the window
// named in the envelope when it is live, else the receiver.
func (g *Group) route(receiver *Bridge, windowID *entity.WindowID) *Bridge {
	if windowID == nil {
		return receiver
	}
	t, ok := g.windows.Lookup(*windowID)
	if !ok {
		return receiver
	}
	if child, ok := g.bridges[t.Child()]; ok {
		return child
	}
	return receiver
}
