package bridge_test

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/stretchr/testify/require"
)

type evaluated struct {
	source string
	world  entity.ContentWorld
}

type fakeRenderer struct {
	id       entity.RendererID
	scripts  []evaluated
	loads    []entity.NavigationRequest
	disposed bool
}

func (r *fakeRenderer) ID() entity.RendererID { return r.id }

func (r *fakeRenderer) EvaluateJavascript(_ context.Context, source string, world entity.ContentWorld) error {
	r.scripts = append(r.scripts, evaluated{source: source, world: world})
	return nil
}

func (r *fakeRenderer) LoadRequest(_ context.Context, req entity.NavigationRequest) error {
	r.loads = append(r.loads, req)
	return nil
}

func (r *fakeRenderer) Dispose(context.Context) { r.disposed = true }

func (r *fakeRenderer) lastScript(t *testing.T) evaluated {
	t.Helper()
	require.NotEmpty(t, r.scripts)
	return r.scripts[len(r.scripts)-1]
}

type realmRenderer struct {
	*fakeRenderer
	installed []evaluated
	handler   port.ScriptMessageHandler
}

func (r *realmRenderer) InstallScript(_ context.Context, source string, world entity.ContentWorld) error {
	r.installed = append(r.installed, evaluated{source: source, world: world})
	return nil
}

func (r *realmRenderer) SetMessageHandler(h port.ScriptMessageHandler) { r.handler = h }

type dialogRenderer struct {
	*fakeRenderer
	shown []port.DialogKind
}

func (r *dialogRenderer) RunDefaultDialog(_ context.Context, kind port.DialogKind, _ entity.JSDialogRequest, done func(entity.JSDialogResult)) {
	r.shown = append(r.shown, kind)
	value := "typed"
	done(entity.JSDialogResult{Confirmed: true, Value: &value})
}

type invocation struct {
	method entity.HostMethod
	args   any
	result port.HostResult
}

type notification struct {
	method entity.HostMethod
	args   any
}

type fakeHost struct {
	invocations []invocation
	notes       []notification
}

func (h *fakeHost) InvokeMethod(_ context.Context, method entity.HostMethod, args any, result port.HostResult) {
	h.invocations = append(h.invocations, invocation{method: method, args: args, result: result})
}

func (h *fakeHost) Notify(_ context.Context, method entity.HostMethod, args any) {
	h.notes = append(h.notes, notification{method: method, args: args})
}

func (h *fakeHost) last(t *testing.T, method entity.HostMethod) invocation {
	t.Helper()
	for i := len(h.invocations) - 1; i >= 0; i-- {
		if h.invocations[i].method == method {
			return h.invocations[i]
		}
	}
	t.Fatalf("no invocation of %s", method)
	return invocation{}
}

func (h *fakeHost) answer(t *testing.T, method entity.HostMethod, raw string) {
	t.Helper()
	h.last(t, method).result.Success(json.RawMessage(raw))
}

type fakeFactory struct {
	renderers map[entity.WindowID]*fakeRenderer
	hosts     map[entity.WindowID]*fakeHost
	fail      bool
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		renderers: make(map[entity.WindowID]*fakeRenderer),
		hosts:     make(map[entity.WindowID]*fakeHost),
	}
}

func (f *fakeFactory) NewChild(_ context.Context, _ port.Renderer, id entity.WindowID) (port.Renderer, port.HostChannel, error) {
	if f.fail {
		return nil, nil, errors.New("factory exhausted")
	}
	r := &fakeRenderer{id: entity.RendererID(100 + id)}
	h := &fakeHost{}
	f.renderers[id] = r
	f.hosts[id] = h
	return r, h, nil
}

type fakeIdentities struct {
	err   error
	calls int
}

func (f *fakeIdentities) LoadIdentity(_ context.Context, path, password, _ string) (*tls.Certificate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &tls.Certificate{Certificate: [][]byte{[]byte(path + ":" + password)}}, nil
}

var resultUUIDPattern = regexp.MustCompile(`id="([0-9a-f-]{36})"`)

func resultUUID(t *testing.T, source string) string {
	t.Helper()
	m := resultUUIDPattern.FindStringSubmatch(source)
	require.Len(t, m, 2, "no result uuid in %q", source)
	return m[1]
}

func message(t *testing.T, kind entity.MessageKind, body any) entity.ScriptMessage {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return entity.ScriptMessage{Kind: kind, Body: raw}
}
