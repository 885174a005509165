// Package realm is an in-process renderer: each content world is a sobek
// runtime with a minimal window surface (postMessage, MessageChannel and
// console). Messages scripts send to the native side are posted to the main
// loop, like a platform renderer delivers script messages asynchronously.
package realm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
	"github.com/grafana/sobek"
)

// NativeFunction is the global scripts call to reach the host side.
const NativeFunction = "__webbridgeNative"

// Handler receives script messages on the main loop.
type Handler = port.ScriptMessageHandler

// Options configures a Realm.
type Options struct {
	ID     entity.RendererID
	URL    string
	Poster port.Poster

	// MainFrame marks messages as coming from the top frame.
	MainFrame bool
}

type userScript struct {
	source string
	world  entity.ContentWorld
	bridge bool
}

// Realm implements port.Renderer over sobek runtimes. It is not safe for
// concurrent use; every method runs on the main loop.
type Realm struct {
	ctx       context.Context
	id        entity.RendererID
	poster    port.Poster
	handler   Handler
	url       string
	mainFrame bool

	worlds      map[entity.ContentWorld]*sobek.Runtime
	userScripts []userScript
	loads       []entity.NavigationRequest
	prints      int
	disposed    bool
}

// New creates a realm showing opts.URL.
func New(ctx context.Context, opts Options) *Realm {
	return &Realm{
		ctx:       ctx,
		id:        opts.ID,
		poster:    opts.Poster,
		url:       opts.URL,
		mainFrame: opts.MainFrame,
		worlds:    make(map[entity.ContentWorld]*sobek.Runtime),
	}
}

// SetMessageHandler implements port.ScriptRealm.
func (r *Realm) SetMessageHandler(h Handler) {
	r.handler = h
}

// ID implements port.Renderer.
func (r *Realm) ID() entity.RendererID {
	return r.id
}

// URL returns the current page URL.
func (r *Realm) URL() string {
	return r.url
}

// AddUserScript registers source to run in world at every page load, and runs
// it now if the world exists. Popups opened from this realm inherit it.
func (r *Realm) AddUserScript(ctx context.Context, source string, world entity.ContentWorld) error {
	return r.addScript(ctx, userScript{source: source, world: world})
}

// InstallScript implements port.ScriptRealm. Unlike user scripts, bridge
// scripts stay with this realm.
func (r *Realm) InstallScript(ctx context.Context, source string, world entity.ContentWorld) error {
	return r.addScript(ctx, userScript{source: source, world: world, bridge: true})
}

// UserScripts returns the number of scripts popups inherit.
func (r *Realm) UserScripts() int {
	n := 0
	for _, us := range r.userScripts {
		if !us.bridge {
			n++
		}
	}
	return n
}

func (r *Realm) addScript(ctx context.Context, us userScript) error {
	if r.disposed {
		return entity.ErrRendererDisposed
	}
	r.userScripts = append(r.userScripts, us)
	if _, ok := r.worlds[us.world]; !ok {
		return nil
	}
	return r.EvaluateJavascript(ctx, us.source, us.world)
}

// inherit copies the parent's user scripts and frame settings.
func (r *Realm) inherit(parent *Realm) {
	r.mainFrame = parent.mainFrame
	for _, us := range parent.userScripts {
		if !us.bridge {
			r.userScripts = append(r.userScripts, us)
		}
	}
}

// EvaluateJavascript implements port.Renderer.
func (r *Realm) EvaluateJavascript(ctx context.Context, source string, world entity.ContentWorld) error {
	_, err := r.Evaluate(ctx, source, world)
	return err
}

// Evaluate runs source in world and exports its completion value.
func (r *Realm) Evaluate(ctx context.Context, source string, world entity.ContentWorld) (any, error) {
	if r.disposed {
		return nil, entity.ErrRendererDisposed
	}
	vm, err := r.world(ctx, world)
	if err != nil {
		return nil, err
	}
	value, err := vm.RunString(source)
	if err != nil {
		var exception *sobek.Exception
		if errors.As(err, &exception) {
			return nil, fmt.Errorf("script exception in world %q: %s", world, exception.Value().String())
		}
		return nil, fmt.Errorf("run script in world %q: %w", world, err)
	}
	if value == nil || sobek.IsUndefined(value) || sobek.IsNull(value) {
		return nil, nil
	}
	return value.Export(), nil
}

// LoadRequest implements port.Renderer. The page is replaced: every world is
// discarded and user scripts run again against the new URL.
func (r *Realm) LoadRequest(ctx context.Context, req entity.NavigationRequest) error {
	if r.disposed {
		return entity.ErrRendererDisposed
	}
	if _, err := url.Parse(req.URL); err != nil {
		return fmt.Errorf("load %q: %w", req.URL, err)
	}
	r.loads = append(r.loads, req)
	r.url = req.URL
	clear(r.worlds)

	logging.FromContext(ctx).Debug().
		Uint64("renderer_id", uint64(r.id)).
		Str("url", req.URL).
		Msg("realm navigated")

	for _, us := range r.userScripts {
		if _, err := r.world(ctx, us.world); err != nil {
			return err
		}
	}
	return nil
}

// Loads returns the requests loaded so far.
func (r *Realm) Loads() []entity.NavigationRequest {
	return append([]entity.NavigationRequest(nil), r.loads...)
}

// PrintDefault implements port.Printer by counting print jobs.
func (r *Realm) PrintDefault(ctx context.Context) error {
	if r.disposed {
		return entity.ErrRendererDisposed
	}
	r.prints++
	logging.FromContext(ctx).Info().Str("url", r.url).Msg("realm printed page")
	return nil
}

// Prints returns how many times the default print flow ran.
func (r *Realm) Prints() int {
	return r.prints
}

// RunDefaultDialog implements port.DefaultDialogRunner as a headless user:
// alerts are acknowledged, confirms are declined and prompts accept the
// default value.
func (r *Realm) RunDefaultDialog(ctx context.Context, kind port.DialogKind, req entity.JSDialogRequest, done func(entity.JSDialogResult)) {
	logging.FromContext(ctx).Debug().
		Str("kind", string(kind)).
		Str("message", req.Message).
		Msg("realm default dialog")

	switch kind {
	case port.DialogPrompt:
		value := req.DefaultValue
		done(entity.JSDialogResult{Confirmed: true, Value: &value})
	case port.DialogConfirm:
		done(entity.JSDialogResult{Confirmed: false})
	default:
		done(entity.JSDialogResult{Confirmed: true})
	}
}

// Dispose implements port.Disposer.
func (r *Realm) Dispose(ctx context.Context) {
	if r.disposed {
		return
	}
	r.disposed = true
	for _, vm := range r.worlds {
		vm.Interrupt("realm disposed")
	}
	clear(r.worlds)
	logging.FromContext(ctx).Debug().Uint64("renderer_id", uint64(r.id)).Msg("realm disposed")
}

// Disposed reports whether Dispose ran.
func (r *Realm) Disposed() bool {
	return r.disposed
}

func (r *Realm) world(ctx context.Context, world entity.ContentWorld) (*sobek.Runtime, error) {
	if vm, ok := r.worlds[world]; ok {
		return vm, nil
	}

	vm := sobek.New()
	if err := vm.Set(NativeFunction, r.nativeFunction(world)); err != nil {
		return nil, fmt.Errorf("install native bridge: %w", err)
	}
	origin := entity.ParseOrigin(r.url)
	if _, err := vm.RunString(fmt.Sprintf(windowJS, quote(r.url), quote(origin.String()))); err != nil {
		return nil, fmt.Errorf("install window surface: %w", err)
	}
	r.worlds[world] = vm

	for _, us := range r.userScripts {
		if us.world != world {
			continue
		}
		if _, err := vm.RunString(us.source); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("world", string(world)).Msg("user script failed")
		}
	}
	return vm, nil
}

func (r *Realm) nativeFunction(world entity.ContentWorld) func(sobek.FunctionCall) sobek.Value {
	return func(call sobek.FunctionCall) sobek.Value {
		kind := entity.MessageKind(call.Argument(0).String())
		body := json.RawMessage(call.Argument(1).String())
		msg := entity.ScriptMessage{
			Kind:        kind,
			Body:        body,
			World:       world,
			Origin:      entity.ParseOrigin(r.url).String(),
			IsMainFrame: r.mainFrame,
		}
		r.deliver(msg)
		return sobek.Undefined()
	}
}

func (r *Realm) deliver(msg entity.ScriptMessage) {
	deliver := func() {
		if r.disposed || r.handler == nil {
			return
		}
		r.handler(r.ctx, msg)
	}
	if r.poster == nil {
		logging.FromContext(r.ctx).Warn().Str("kind", string(msg.Kind)).Msg("realm has no poster, dropping script message")
		return
	}
	r.poster.Post(deliver)
}

func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
