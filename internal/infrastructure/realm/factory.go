package realm

import (
	"context"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/domain/entity"
)

// Factory creates child realms for popup windows.
type Factory struct {
	ctx    context.Context
	poster port.Poster
	lastID entity.RendererID
	hostOf func(entity.RendererID) port.HostChannel

	// Created is called with every child before it is returned.
	Created func(child *Realm, windowID entity.WindowID)
}

// NewFactory returns a factory whose children get ids after firstID and
// their host channel from hostOf.
func NewFactory(ctx context.Context, poster port.Poster, firstID entity.RendererID, hostOf func(entity.RendererID) port.HostChannel) *Factory {
	return &Factory{ctx: ctx, poster: poster, lastID: firstID, hostOf: hostOf}
}

// NewChild implements port.RendererFactory. The child starts on about:blank
// with the parent's frame settings and user scripts; the bridge installs its
// own scripts once it attaches.
func (f *Factory) NewChild(_ context.Context, parent port.Renderer, windowID entity.WindowID) (port.Renderer, port.HostChannel, error) {
	f.lastID++
	child := New(f.ctx, Options{ID: f.lastID, URL: "about:blank", Poster: f.poster, MainFrame: true})
	if p, ok := parent.(*Realm); ok {
		child.inherit(p)
	}
	if f.Created != nil {
		f.Created(child, windowID)
	}
	var host port.HostChannel
	if f.hostOf != nil {
		host = f.hostOf(child.ID())
	}
	return child, host, nil
}
