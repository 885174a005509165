// Package window tracks popup renderers from the script's window.open request
// until the host adopts them or declines.
package window

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/bridge/coordinator"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
)

// Transport is the native record of one child window.
type Transport struct {
	id       entity.WindowID
	parent   entity.RendererID
	child    entity.RendererID
	action   entity.CreateWindowAction
	adopted  bool
	attached bool
	flushed  bool
	queue    []func()
}

// ID returns the window id.
func (t *Transport) ID() entity.WindowID { return t.id }

// Parent returns the renderer that requested the window.
func (t *Transport) Parent() entity.RendererID { return t.parent }

// Child returns the handle of the child renderer.
func (t *Transport) Child() entity.RendererID { return t.child }

// Action returns the creation record sent to the host.
func (t *Transport) Action() entity.CreateWindowAction { return t.action }

// Adopted reports whether the host accepted the window.
func (t *Transport) Adopted() bool { return t.adopted }

// Attached reports whether the host attached the child's surface.
func (t *Transport) Attached() bool { return t.attached }

// Queued returns the number of deferred callbacks.
func (t *Transport) Queued() int { return len(t.queue) }

// Request describes a window.open the registry should mediate.
type Request struct {
	// Parent is the requesting renderer. A declined window loads there.
	Parent port.Renderer
	Host   port.HostChannel
	Action entity.CreateWindowAction

	// Spawn creates the child renderer and returns its handle.
	Spawn func(ctx context.Context, id entity.WindowID) (entity.RendererID, error)
	// Discard releases a child that will never be shown.
	Discard func(ctx context.Context, child entity.RendererID)
	// Alive reports whether the requesting renderer still exists.
	Alive func() bool

	Options []coordinator.Option
}

// Sequence hands out window ids. Ids increase monotonically for the life of
// the sequence. Safe for concurrent use.
type Sequence struct {
	last atomic.Int64
}

// Next returns the next id.
func (s *Sequence) Next() entity.WindowID {
	return entity.WindowID(s.last.Add(1))
}

var processSequence Sequence

// Registry is the table of window transports of one renderer group. It is
// used from the main sequential context only.
type Registry struct {
	ids        *Sequence
	transports map[entity.WindowID]*Transport
}

// NewRegistry creates an empty registry drawing ids from the process-wide
// sequence, so no two registries in a process hand out the same id.
func NewRegistry() *Registry {
	return NewRegistryWithSequence(&processSequence)
}

// NewRegistryWithSequence creates an empty registry drawing ids from seq.
func NewRegistryWithSequence(seq *Sequence) *Registry {
	return &Registry{ids: seq, transports: make(map[entity.WindowID]*Transport)}
}

// Allocate returns the next window id.
func (r *Registry) Allocate() entity.WindowID {
	return r.ids.Next()
}

// RequestWindow allocates an id, spawns the child, registers its transport and
// asks the host to adopt it. If the host declines, errors or has no listener,
// the transport is removed and the original request loads in the parent.
func (r *Registry) RequestWindow(ctx context.Context, req Request) (entity.WindowID, error) {
	id := r.Allocate()
	action := req.Action
	action.WindowID = id

	ctx = logging.WithWindowID(ctx, id)
	log := logging.FromContext(ctx)

	child, err := req.Spawn(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to create child renderer, loading in parent")
		loadInParent(ctx, req.Parent, action.Request)
		return id, fmt.Errorf("spawn window %d: %w", id, err)
	}

	r.transports[id] = &Transport{
		id:     id,
		parent: parentID(req.Parent),
		child:  child,
		action: action,
	}
	log.Debug().Str("url", action.Request.URL).Msg("window transport registered")

	alive := func() bool {
		if req.Alive != nil && !req.Alive() {
			return false
		}
		_, ok := r.transports[id]
		return ok
	}
	opts := append(append([]coordinator.Option(nil), req.Options...), coordinator.WithAlive(alive))

	c := coordinator.New(ctx, entity.MethodCreateWindow,
		entity.ResponseDecoder[bool](entity.MethodCreateWindow),
		coordinator.Callbacks[bool]{
			Handled: func(adopted *bool) bool {
				if !*adopted {
					return true
				}
				if t, ok := r.transports[id]; ok {
					t.adopted = true
				}
				return false
			},
			Default: func() {
				log.Debug().Msg("host declined window, navigating parent instead")
				if t, ok := r.Remove(id); ok && req.Discard != nil {
					req.Discard(ctx, t.child)
				}
				loadInParent(ctx, req.Parent, action.Request)
			},
		}, opts...)

	coordinator.Send(ctx, req.Host, action, c)
	return id, nil
}

// MarkAttached records that the child's surface is attached and flushes its
// deferred callbacks in order. The queue is flushed at most once.
func (r *Registry) MarkAttached(ctx context.Context, id entity.WindowID) error {
	t, ok := r.transports[id]
	if !ok {
		return fmt.Errorf("attach window %d: %w", id, entity.ErrWindowNotFound)
	}
	if t.attached {
		return nil
	}
	t.attached = true
	if t.flushed {
		return nil
	}

	queue := t.queue
	t.queue = nil
	t.flushed = true

	logging.FromContext(ctx).Debug().
		Int64("window_id", int64(id)).
		Int("callbacks", len(queue)).
		Msg("window attached, flushing deferred callbacks")

	for _, fn := range queue {
		fn()
	}
	return nil
}

// RunOrDefer runs fn now unless window id is registered and not yet attached,
// in which case fn is queued. It reports whether fn was deferred.
func (r *Registry) RunOrDefer(id entity.WindowID, fn func()) bool {
	t, ok := r.transports[id]
	if ok && !t.attached {
		t.queue = append(t.queue, fn)
		return true
	}
	fn()
	return false
}

// Remove deletes the transport for id. Its queue is dropped and never flushed.
func (r *Registry) Remove(id entity.WindowID) (*Transport, bool) {
	t, ok := r.transports[id]
	if !ok {
		return nil, false
	}
	delete(r.transports, id)
	t.queue = nil
	t.flushed = true
	return t, true
}

// RemoveChild deletes the transport whose child is the given renderer.
func (r *Registry) RemoveChild(child entity.RendererID) (*Transport, bool) {
	for id, t := range r.transports {
		if t.child == child {
			return r.Remove(id)
		}
	}
	return nil, false
}

// RemovePending deletes every transport requested by parent that the host
// has not adopted yet. Their creation answers will never arrive, so the caller
// owns the children.
func (r *Registry) RemovePending(parent entity.RendererID) []*Transport {
	var removed []*Transport
	for id, t := range r.transports {
		if t.parent != parent || t.adopted {
			continue
		}
		if t, ok := r.Remove(id); ok {
			removed = append(removed, t)
		}
	}
	slices.SortFunc(removed, func(a, b *Transport) int { return cmp.Compare(a.id, b.id) })
	return removed
}

// Lookup returns the transport for id.
func (r *Registry) Lookup(id entity.WindowID) (*Transport, bool) {
	t, ok := r.transports[id]
	return t, ok
}

// Len returns the number of live transports.
func (r *Registry) Len() int {
	return len(r.transports)
}

func loadInParent(ctx context.Context, parent port.Renderer, req entity.NavigationRequest) {
	if parent == nil {
		return
	}
	if err := parent.LoadRequest(ctx, req); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("url", req.URL).Msg("fallback navigation failed")
	}
}

func parentID(parent port.Renderer) entity.RendererID {
	if parent == nil {
		return 0
	}
	return parent.ID()
}
