package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/bridge/channel"
	"github.com/bnema/webbridge/internal/bridge/coordinator"
	"github.com/bnema/webbridge/internal/bridge/handlercall"
	"github.com/bnema/webbridge/internal/bridge/script"
	"github.com/bnema/webbridge/internal/bridge/window"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
	"github.com/google/uuid"
)

// ResultFunc receives the value of a script evaluated with EvaluateWithResult.
type ResultFunc func(value json.RawMessage, err error)

// Bridge is the per-renderer aggregate: handler calls, message channels,
// evaluation continuations and event sites. It is used from the main
// sequential context only.
type Bridge struct {
	group    *Group
	renderer port.Renderer
	host     port.HostChannel
	id       entity.RendererID
	windowID entity.WindowID

	handlers *handlercall.Registry
	channels *channel.Manager
	results  map[string]ResultFunc

	url      string
	disposed bool
}

func newBridge(g *Group, renderer port.Renderer, host port.HostChannel, windowID entity.WindowID) *Bridge {
	b := &Bridge{
		group:    g,
		renderer: renderer,
		host:     host,
		id:       renderer.ID(),
		windowID: windowID,
		results:  make(map[string]ResultFunc),
	}
	b.handlers = handlercall.New(handlercall.Config{
		Renderer:  renderer,
		Host:      host,
		Namespace: g.cfg.Namespace,
		PageURL:   func() string { return b.url },
		Options:   b.coordinatorOptions(),
	})
	b.channels = channel.New(channel.Config{
		Renderer:  renderer,
		Host:      host,
		Namespace: g.cfg.Namespace,
	})
	return b
}

// RendererID returns the renderer handle.
func (b *Bridge) RendererID() entity.RendererID { return b.id }

// WindowID returns the window id of a popup bridge, or 0.
func (b *Bridge) WindowID() entity.WindowID { return b.windowID }

// Renderer returns the bridged renderer.
func (b *Bridge) Renderer() port.Renderer { return b.renderer }

// Handlers returns the handler call registry.
func (b *Bridge) Handlers() *handlercall.Registry { return b.handlers }

// Channels returns the message channel manager.
func (b *Bridge) Channels() *channel.Manager { return b.channels }

// Disposed reports whether Dispose ran.
func (b *Bridge) Disposed() bool { return b.disposed }

// SetURL records the renderer's committed URL.
func (b *Bridge) SetURL(url string) { b.url = url }

// URL returns the last committed URL.
func (b *Bridge) URL() string { return b.url }

// alive reports whether this bridge is still the live one for its renderer.
func (b *Bridge) alive() bool {
	current, ok := b.group.bridges[b.id]
	return ok && current == b
}

func (b *Bridge) coordinatorOptions() []coordinator.Option {
	opts := []coordinator.Option{
		coordinator.WithAlive(b.alive),
		coordinator.WithRenderer(b.id),
	}
	if b.group.recorder != nil {
		opts = append(opts, coordinator.WithRecorder(b.group.recorder))
	}
	if b.group.cfg.HostTimeout > 0 && b.group.scheduler != nil {
		opts = append(opts, coordinator.WithTimeout(b.group.scheduler, b.group.cfg.HostTimeout))
	}
	return opts
}

// installRealm points a port.ScriptRealm renderer at this bridge and
// installs the bootstrap in its page world.
func (b *Bridge) installRealm(ctx context.Context) error {
	realm, ok := b.renderer.(port.ScriptRealm)
	if !ok {
		return nil
	}
	realm.SetMessageHandler(b.OnScriptMessage)
	if err := realm.InstallScript(ctx, b.BootstrapScript(), entity.PageWorld); err != nil {
		return fmt.Errorf("install bootstrap in renderer %s: %w", b.id, err)
	}
	return nil
}

// logContext tags ctx with this renderer.
func (b *Bridge) logContext(ctx context.Context) context.Context {
	ctx = logging.WithRendererID(ctx, b.id)
	if b.windowID != 0 {
		ctx = logging.WithWindowID(ctx, b.windowID)
	}
	return ctx
}

// EvaluateWithResult runs source in world and delivers its value, or the
// error it threw, to fn once the realm reports back.
func (b *Bridge) EvaluateWithResult(ctx context.Context, source string, world entity.ContentWorld, fn ResultFunc) error {
	if b.disposed {
		return entity.ErrRendererDisposed
	}
	id := uuid.NewString()
	b.results[id] = fn

	ns := b.group.cfg.Namespace
	body := fmt.Sprintf(
		`var ns=window.%[1]s,id=%[2]s;`+
			`var fail=function(e){ns.%[3]s("evaluateResult",{resultUuid:id,value:null,error:String(e)});};`+
			`var ok=function(v){ns.%[3]s("evaluateResult",{resultUuid:id,value:v===undefined?null:v});};`+
			`var r;try{r=(0,eval)(%[4]s);}catch(e){fail(e);return;}`+
			`if(r&&typeof r.then==="function"){r.then(ok,fail);}else{ok(r);}`,
		ns, script.Quote(id), script.SendFunction, script.Quote(source))

	if err := b.renderer.EvaluateJavascript(ctx, script.Guard("evaluate", body), world); err != nil {
		delete(b.results, id)
		return fmt.Errorf("evaluate with result: %w", err)
	}
	return nil
}

// PendingResults returns the number of evaluations waiting for a value.
func (b *Bridge) PendingResults() int {
	return len(b.results)
}

func (b *Bridge) deliverResult(ctx context.Context, body entity.EvaluateResultBody) {
	fn, ok := b.results[body.ResultUUID]
	if !ok {
		logging.FromContext(ctx).Debug().Str("result_uuid", body.ResultUUID).Msg("no continuation for evaluation result")
		return
	}
	delete(b.results, body.ResultUUID)

	if body.Error != nil {
		fn(nil, errors.New(*body.Error))
		return
	}
	value := body.Value
	if len(value) == 0 {
		value = json.RawMessage("null")
	}
	fn(value, nil)
}

// CreateWindow handles a script window.open. The host is asked to adopt a
// new child renderer; if it does not, the request loads in this renderer.
func (b *Bridge) CreateWindow(ctx context.Context, action entity.CreateWindowAction) (entity.WindowID, error) {
	if b.disposed {
		return 0, entity.ErrRendererDisposed
	}
	ctx = b.logContext(ctx)
	return b.group.windows.RequestWindow(ctx, window.Request{
		Parent: b.renderer,
		Host:   b.host,
		Action: action,
		Spawn: func(ctx context.Context, id entity.WindowID) (entity.RendererID, error) {
			return b.group.spawnChild(ctx, b, id)
		},
		Discard: b.group.discard,
		Alive:   b.alive,
		Options: b.coordinatorOptions(),
	})
}

// Close handles a script window.close: the host is told and the bridge is
// disposed.
func (b *Bridge) Close(ctx context.Context) {
	if b.disposed {
		return
	}
	ctx = b.logContext(ctx)
	if b.host != nil {
		b.host.Notify(ctx, entity.MethodCloseWindow, entity.CloseWindowNotification{WindowID: b.windowID})
	}
	b.Dispose(ctx)
}

// Dispose drops every pending call, channel, listener and continuation and
// removes the renderer from its group. Host answers that arrive later are
// no-ops.
func (b *Bridge) Dispose(ctx context.Context) {
	if b.disposed {
		return
	}
	b.disposed = true

	if current, ok := b.group.bridges[b.id]; ok && current == b {
		delete(b.group.bridges, b.id)
		b.group.countChanged()
	}
	if b.windowID != 0 {
		b.group.windows.Remove(b.windowID)
	}
	for _, t := range b.group.windows.RemovePending(b.id) {
		b.group.discard(ctx, t.Child())
	}

	b.handlers.DisposeAll()
	b.channels.Dispose()
	clear(b.results)

	if d, ok := b.renderer.(port.Disposer); ok {
		d.Dispose(ctx)
	}

	logging.FromContext(b.logContext(ctx)).Debug().Msg("bridge disposed")
}
