// Package handlercall correlates script-side handler calls with host answers
// and settles the script promise each call is waiting on.
package handlercall

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/bridge/coordinator"
	"github.com/bnema/webbridge/internal/bridge/script"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
)

const (
	// PrintHandlerName is reserved: it raises onPrintRequest instead of a
	// generic handler call.
	PrintHandlerName = "_onPrintRequest"
)

// Config wires a Registry to its renderer and host.
type Config struct {
	Renderer  port.Renderer
	Host      port.HostChannel
	Namespace string

	// PageURL reports the renderer's current URL for print requests.
	PageURL func() string

	// Options are applied to every coordinator the registry creates.
	Options []coordinator.Option
}

// Registry tracks handler calls that wait for a host answer.
// It is used from the main sequential context only.
type Registry struct {
	cfg     Config
	pending map[int64]entity.ContentWorld
}

// New creates an empty registry.
func New(cfg Config) *Registry {
	return &Registry{
		cfg:     cfg,
		pending: make(map[int64]entity.ContentWorld),
	}
}

// Invoke registers call and forwards it to the host.
func (r *Registry) Invoke(ctx context.Context, call entity.HandlerCall) error {
	log := logging.FromContext(ctx)

	if _, exists := r.pending[call.CallID]; exists {
		log.Error().
			Int64("call_id", call.CallID).
			Str("handler", call.Name).
			Msg("handler call id collides with a pending call")
		return fmt.Errorf("invoke %s: call %d: %w", call.Name, call.CallID, entity.ErrDuplicateCallID)
	}
	r.pending[call.CallID] = call.World

	log.Debug().
		Int64("call_id", call.CallID).
		Str("handler", call.Name).
		Str("world", string(call.World)).
		Msg("handler call registered")

	if call.Name == PrintHandlerName {
		r.requestPrint(ctx, call.CallID)
		return nil
	}

	id := call.CallID
	c := coordinator.New(ctx, entity.MethodCallHandler,
		entity.ResponseDecoder[json.RawMessage](entity.MethodCallHandler),
		coordinator.Callbacks[json.RawMessage]{
			Handled: func(value *json.RawMessage) bool {
				r.Resolve(ctx, id, string(*value))
				return false
			},
			Null: func() bool {
				r.Resolve(ctx, id, "null")
				return false
			},
			Default: func() { r.Resolve(ctx, id, "null") },
			Error:   func(err error) { r.Reject(ctx, id, err.Error()) },
		}, r.cfg.Options...)

	coordinator.Send(ctx, r.cfg.Host, entity.CallHandlerArgs{HandlerName: call.Name, Args: call.Args}, c)
	return nil
}

// Resolve settles call id with value, a JSON literal. Text that is not valid
// JSON is delivered as a string. It reports false when id is not pending.
func (r *Registry) Resolve(ctx context.Context, id int64, value string) bool {
	world, ok := r.take(ctx, id)
	if !ok {
		return false
	}
	literal := value
	if !json.Valid([]byte(value)) {
		literal = script.Quote(value)
	}
	r.evaluate(ctx, settleScript(r.cfg.Namespace, id, "resolve", literal), world)
	return true
}

// Reject fails call id with message. It reports false when id is not pending.
func (r *Registry) Reject(ctx context.Context, id int64, message string) bool {
	world, ok := r.take(ctx, id)
	if !ok {
		return false
	}
	r.evaluate(ctx, settleScript(r.cfg.Namespace, id, "reject", "new Error("+script.Quote(message)+")"), world)
	return true
}

// Pending returns the number of unsettled calls.
func (r *Registry) Pending() int {
	return len(r.pending)
}

// Has reports whether id is pending.
func (r *Registry) Has(id int64) bool {
	_, ok := r.pending[id]
	return ok
}

// DisposeAll drops every pending call without touching script. Answers that
// arrive later are no-ops.
func (r *Registry) DisposeAll() {
	clear(r.pending)
}

func (r *Registry) take(ctx context.Context, id int64) (entity.ContentWorld, bool) {
	world, ok := r.pending[id]
	if !ok {
		logging.FromContext(ctx).Debug().Int64("call_id", id).Msg("handler call already settled")
		return "", false
	}
	delete(r.pending, id)
	return world, true
}

func (r *Registry) requestPrint(ctx context.Context, id int64) {
	req := entity.PrintRequest{}
	if r.cfg.PageURL != nil {
		req.URL = r.cfg.PageURL()
	}

	c := coordinator.New(ctx, entity.MethodPrintRequest,
		entity.ResponseDecoder[bool](entity.MethodPrintRequest),
		coordinator.Callbacks[bool]{
			Handled: func(handled *bool) bool {
				if !*handled {
					return true
				}
				r.Resolve(ctx, id, "true")
				return false
			},
			Default: func() {
				if printer, ok := r.cfg.Renderer.(port.Printer); ok {
					if err := printer.PrintDefault(ctx); err != nil {
						logging.FromContext(ctx).Warn().Err(err).Msg("default print failed")
					}
				}
				r.Resolve(ctx, id, "false")
			},
		}, r.cfg.Options...)

	coordinator.Send(ctx, r.cfg.Host, req, c)
}

func (r *Registry) evaluate(ctx context.Context, source string, world entity.ContentWorld) {
	if r.cfg.Renderer == nil {
		return
	}
	if err := r.cfg.Renderer.EvaluateJavascript(ctx, source, world); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to settle handler call in script")
	}
}

// settleScript calls method ("resolve" or "reject") on the script promise for id
// and deletes it from the table.
func settleScript(namespace string, id int64, method, arg string) string {
	return script.Guard(fmt.Sprintf("handler call %d", id), fmt.Sprintf(
		`var t=%s;if(t&&t[%d]!=null){var p=t[%d];delete t[%d];p.%s(%s);}`,
		script.Object(namespace, script.PromiseTable), id, id, id, method, arg,
	))
}
