package realm_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/bridge"
	"github.com/bnema/webbridge/internal/bridge/channel"
	"github.com/bnema/webbridge/internal/bridge/window"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/infrastructure/host"
	"github.com/bnema/webbridge/internal/infrastructure/realm"
	"github.com/bnema/webbridge/internal/mainloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	ctx    context.Context
	loop   *mainloop.Loop
	realm  *realm.Realm
	host   *host.Scripted
	group  *bridge.Group
	bridge *bridge.Bridge
}

func startLoop(t *testing.T) *mainloop.Loop {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop, err := mainloop.Start(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = loop.Close(context.Background())
		cancel()
	})
	return loop
}

// onLoop runs fn on the loop and waits for everything it posted.
func onLoop(t *testing.T, loop *mainloop.Loop, fn func() error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var err error
	require.NoError(t, loop.Do(ctx, func() { err = fn() }))
	require.NoError(t, err)
}

func newHarness(t *testing.T, url string, opts ...host.Option) *harness {
	t.Helper()
	ctx := context.Background()
	loop := startLoop(t)
	h := &harness{
		ctx:   ctx,
		loop:  loop,
		realm: realm.New(ctx, realm.Options{ID: 1, URL: url, Poster: loop, MainFrame: true}),
		host:  host.NewScripted("page", loop, opts...),
		group: bridge.NewGroup(bridge.Config{}, bridge.WithScheduler(loop)),
	}
	h.do(t, func() error {
		b, err := h.group.Attach(ctx, h.realm, h.host)
		if err != nil {
			return err
		}
		h.bridge = b
		return h.realm.LoadRequest(ctx, entity.NavigationRequest{URL: url})
	})
	return h
}

func (h *harness) do(t *testing.T, fn func() error) {
	t.Helper()
	onLoop(t, h.loop, fn)
}

func (h *harness) eval(t *testing.T, source string) any {
	t.Helper()
	var v any
	h.do(t, func() error {
		var err error
		v, err = h.realm.Evaluate(h.ctx, source, entity.PageWorld)
		return err
	})
	return v
}

func (h *harness) notifications(method entity.HostMethod) []host.Notification {
	var out []host.Notification
	for _, n := range h.host.Notifications() {
		if n.Method == method {
			out = append(out, n)
		}
	}
	return out
}

func TestRealm_EvaluateExportsValues(t *testing.T) {
	r := realm.New(context.Background(), realm.Options{ID: 3, URL: "https://example.com"})

	v, err := r.Evaluate(context.Background(), "1+2", entity.PageWorld)
	require.NoError(t, err)
	assert.EqualValues(t, 3, v)

	v, err = r.Evaluate(context.Background(), "location.origin", entity.PageWorld)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", v)

	_, err = r.Evaluate(context.Background(), "throw new Error('nope')", entity.PageWorld)
	assert.ErrorContains(t, err, "nope")
}

func TestRealm_WorldsAreIsolated(t *testing.T) {
	ctx := context.Background()
	r := realm.New(ctx, realm.Options{ID: 3, URL: "https://example.com"})

	_, err := r.Evaluate(ctx, "var secret = 'page'", entity.PageWorld)
	require.NoError(t, err)

	v, err := r.Evaluate(ctx, "typeof secret", "isolated")
	require.NoError(t, err)
	assert.Equal(t, "undefined", v)
}

func TestRealm_HandlerRoundTrip(t *testing.T) {
	h := newHarness(t, "https://example.com/app", host.WithHandler("echo", host.Echo))

	h.eval(t, `webbridge.callHandler("echo", 1, 2).then(function(v){ globalThis.result = v; });`)

	assert.Equal(t, "[1,2]", h.eval(t, "JSON.stringify(result)"))
	assert.Zero(t, h.bridge.Handlers().Pending())
	assert.EqualValues(t, 0, h.eval(t, "Object.keys(webbridge._callHandlerPromises).length"))
}

func TestRealm_HandlerRejectionAndNull(t *testing.T) {
	h := newHarness(t, "https://example.com/app", host.WithRules(host.Rule{
		Method:  entity.MethodCallHandler,
		Handler: "fail",
		Mode:    host.ModeError,
		Code:    "E_FAIL",
		Message: `it "broke"`,
	}))

	h.eval(t, `webbridge.callHandler("fail").catch(function(e){ globalThis.failure = e.message; });`)
	h.eval(t, `webbridge.callHandler("missing").then(function(v){ globalThis.missing = v; });`)

	assert.Equal(t, `E_FAIL: it "broke"`, h.eval(t, "failure"))
	assert.Equal(t, "null", h.eval(t, "String(missing)"))
}

func TestRealm_PrintFallsBackToDefault(t *testing.T) {
	h := newHarness(t, "https://example.com/report")

	h.eval(t, `window.print().then(function(v){ globalThis.printed = v; });`)

	assert.Equal(t, false, h.eval(t, "printed"))
	assert.Equal(t, 1, h.realm.Prints())
	calls := h.host.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, entity.MethodPrintRequest, calls[0].Method)
	assert.Equal(t, entity.PrintRequest{}, calls[0].Args)
}

func TestRealm_ConsoleForwarding(t *testing.T) {
	h := newHarness(t, "https://example.com/app")

	h.eval(t, `console.warn("disk", {free: 1});`)

	notes := h.notifications(entity.MethodConsoleMessage)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.ConsoleNotification{Level: entity.ConsoleWarning, Message: `disk {"free":1}`}, notes[0].Args)
	assert.Equal(t, `warn: disk [object Object]`, h.eval(t, "__consoleLog()[0]"))
}

func TestRealm_EvaluateWithResult(t *testing.T) {
	h := newHarness(t, "https://example.com/app")

	results := map[string]json.RawMessage{}
	errs := map[string]error{}
	capture := func(name string) bridge.ResultFunc {
		return func(v json.RawMessage, err error) {
			results[name] = v
			errs[name] = err
		}
	}

	h.do(t, func() error {
		return errors.Join(
			h.bridge.EvaluateWithResult(h.ctx, `"a" + "b"`, entity.PageWorld, capture("sync")),
			h.bridge.EvaluateWithResult(h.ctx, `Promise.resolve({n: 21 * 2})`, entity.PageWorld, capture("async")),
			h.bridge.EvaluateWithResult(h.ctx, `undefinedFunction()`, entity.PageWorld, capture("throws")),
		)
	})

	assert.JSONEq(t, `"ab"`, string(results["sync"]))
	assert.JSONEq(t, `{"n":42}`, string(results["async"]))
	assert.Error(t, errs["throws"])
	assert.Zero(t, h.bridge.PendingResults())
}

func TestRealm_MessageChannelRoundTrip(t *testing.T) {
	h := newHarness(t, "https://example.com/app")
	channels := h.bridge.Channels()

	var ch *entity.MessageChannel
	h.do(t, func() error {
		var err error
		ch, err = channels.CreateChannel(h.ctx)
		return err
	})

	h.eval(t, `window.addEventListener("message", function(e){
		globalThis.welcome = e.data;
		var p = e.ports[0];
		p.onmessage = function(m){ p.postMessage("echo:" + m.data); };
		p.postMessage("hello from page");
	});`)

	h.do(t, func() error {
		if err := channels.StartPort(h.ctx, ch.Ports[0].Ref()); err != nil {
			return err
		}
		return channels.PostMessage(h.ctx, entity.NewWebMessage("welcome", ch.Ports[1].Ref()), "https://example.com")
	})

	assert.Equal(t, "welcome", h.eval(t, "welcome"))
	assert.Equal(t, entity.PortTransferred, ch.Ports[1].State)

	h.do(t, func() error {
		return channels.PostPortMessage(h.ctx, ch.Ports[0].Ref(), entity.NewWebMessage("ping"))
	})

	notes := h.notifications(entity.MethodPortMessage)
	require.Len(t, notes, 2)
	var got []string
	for _, n := range notes {
		msg := n.Args.(entity.PortMessageNotification)
		assert.Equal(t, ch.ID, msg.ChannelID)
		assert.Equal(t, 0, msg.Index)
		require.NotNil(t, msg.Message)
		got = append(got, *msg.Message)
	}
	assert.Equal(t, []string{"hello from page", "echo:ping"}, got)
}

func TestRealm_WindowPostMessageRespectsTargetOrigin(t *testing.T) {
	h := newHarness(t, "https://example.com/app")

	h.eval(t, `globalThis.seen = []; window.addEventListener("message", function(e){ seen.push(e.data); });`)

	h.do(t, func() error {
		return errors.Join(
			h.bridge.Channels().PostMessage(h.ctx, entity.NewWebMessage("wrong"), "https://other.example"),
			h.bridge.Channels().PostMessage(h.ctx, entity.NewWebMessage("any"), ""),
		)
	})

	assert.Equal(t, `["any"]`, h.eval(t, "JSON.stringify(seen)"))
}

func TestRealm_ListenerOriginGating(t *testing.T) {
	for _, tt := range []struct {
		url       string
		delivered bool
	}{
		{url: "https://example.com/app", delivered: true},
		{url: "https://evil.com/app", delivered: false},
	} {
		t.Run(tt.url, func(t *testing.T) {
			h := newHarness(t, tt.url)
			h.do(t, func() error {
				return h.bridge.Channels().AddListener(h.ctx, channel.ListenerConfig{
					JSObjectName:       "hostObj",
					AllowedOriginRules: []string{"https://example.com"},
				})
			})

			h.eval(t, `hostObj.postMessage("hi");`)

			notes := h.notifications(entity.MethodListenerMessage)
			if !tt.delivered {
				assert.Empty(t, notes)
				return
			}
			require.Len(t, notes, 1)
			msg := notes[0].Args.(entity.ListenerMessageNotification)
			assert.Equal(t, "https://example.com", msg.SourceOrigin)
			require.NotNil(t, msg.Message)
			assert.Equal(t, "hi", *msg.Message)

			h.eval(t, `hostObj.onmessage = function(e){ globalThis.reply = e.data; };`)
			h.do(t, func() error { return h.bridge.Channels().ReplyToListener(h.ctx, "hostObj", "welcome back") })
			assert.Equal(t, "welcome back", h.eval(t, "reply"))
		})
	}
}

func TestRealm_PopupInheritsRealmSetup(t *testing.T) {
	ctx := context.Background()
	loop := startLoop(t)
	childHosts := map[entity.RendererID]*host.Scripted{}
	factory := realm.NewFactory(ctx, loop, 100, func(id entity.RendererID) port.HostChannel {
		h := host.NewScripted("child", loop, host.WithHandler("echo", host.Echo))
		childHosts[id] = h
		return h
	})
	var child *realm.Realm
	factory.Created = func(r *realm.Realm, _ entity.WindowID) { child = r }

	parentHost := host.NewScripted("page", loop, host.WithRules(host.Rule{
		Method: entity.MethodCreateWindow,
		Value:  json.RawMessage(`true`),
	}))
	parent := realm.New(ctx, realm.Options{ID: 1, URL: "https://example.com", Poster: loop, MainFrame: true})
	g := bridge.NewGroup(bridge.Config{},
		bridge.WithScheduler(loop),
		bridge.WithRendererFactory(factory),
		bridge.WithWindowSequence(&window.Sequence{}),
	)

	var id entity.WindowID
	onLoop(t, loop, func() error {
		b, err := g.Attach(ctx, parent, parentHost)
		if err != nil {
			return err
		}
		if err := parent.AddUserScript(ctx, `globalThis.embedder = "installed";`, entity.PageWorld); err != nil {
			return err
		}
		if err := parent.LoadRequest(ctx, entity.NavigationRequest{URL: "https://example.com"}); err != nil {
			return err
		}
		if err := b.Channels().AddListener(ctx, channel.ListenerConfig{
			JSObjectName:       "hostObj",
			AllowedOriginRules: []string{"https://example.com"},
		}); err != nil {
			return err
		}
		id, err = b.CreateWindow(ctx, entity.CreateWindowAction{Request: entity.NavigationRequest{URL: "https://example.com/popup"}})
		return err
	})

	require.NotNil(t, child)
	assert.Equal(t, 1, child.UserScripts())
	transport, ok := g.Windows().Lookup(id)
	require.True(t, ok)
	assert.True(t, transport.Adopted())

	onLoop(t, loop, func() error {
		if err := g.MarkWindowAttached(ctx, id); err != nil {
			return err
		}
		return child.LoadRequest(ctx, entity.NavigationRequest{URL: "https://example.com/popup"})
	})
	onLoop(t, loop, func() error {
		_, err := child.Evaluate(ctx, `webbridge.callHandler("echo", "from popup").then(function(v){ globalThis.result = v; });
			console.error("popup says hi");
			hostObj.postMessage("hi");`, entity.PageWorld)
		return err
	})

	var got any
	onLoop(t, loop, func() error {
		var err error
		got, err = child.Evaluate(ctx, `JSON.stringify([result, embedder])`, entity.PageWorld)
		return err
	})
	assert.Equal(t, `[["from popup"],"installed"]`, got)

	var methods []entity.HostMethod
	for _, n := range childHosts[child.ID()].Notifications() {
		methods = append(methods, n.Method)
	}
	assert.ElementsMatch(t, []entity.HostMethod{entity.MethodConsoleMessage, entity.MethodListenerMessage}, methods)
	assert.Empty(t, parentHost.Notifications())
	assert.Len(t, parent.Loads(), 1)
}

func TestRealm_Dispose(t *testing.T) {
	ctx := context.Background()
	r := realm.New(ctx, realm.Options{ID: 1, URL: "https://example.com"})

	r.Dispose(ctx)

	assert.True(t, r.Disposed())
	assert.ErrorIs(t, r.EvaluateJavascript(ctx, "1", entity.PageWorld), entity.ErrRendererDisposed)
	assert.ErrorIs(t, r.LoadRequest(ctx, entity.NavigationRequest{URL: "https://x"}), entity.ErrRendererDisposed)
}

func TestRealm_DefaultDialogs(t *testing.T) {
	r := realm.New(context.Background(), realm.Options{ID: 1})
	var results []entity.JSDialogResult
	done := func(res entity.JSDialogResult) { results = append(results, res) }

	r.RunDefaultDialog(context.Background(), port.DialogAlert, entity.JSDialogRequest{}, done)
	r.RunDefaultDialog(context.Background(), port.DialogConfirm, entity.JSDialogRequest{}, done)
	r.RunDefaultDialog(context.Background(), port.DialogPrompt, entity.JSDialogRequest{DefaultValue: "guest"}, done)

	require.Len(t, results, 3)
	assert.True(t, results[0].Confirmed)
	assert.False(t, results[1].Confirmed)
	require.NotNil(t, results[2].Value)
	assert.Equal(t, "guest", *results[2].Value)
}
