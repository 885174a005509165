package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bnema/webbridge/internal/application/port"
	portmocks "github.com/bnema/webbridge/internal/application/port/mocks"
	"github.com/bnema/webbridge/internal/bridge"
	"github.com/bnema/webbridge/internal/bridge/channel"
	"github.com/bnema/webbridge/internal/bridge/window"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/mainloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type env struct {
	group    *bridge.Group
	bridge   *bridge.Bridge
	renderer *fakeRenderer
	host     *fakeHost
	factory  *fakeFactory
}

func newEnv(t *testing.T, opts ...bridge.GroupOption) *env {
	t.Helper()
	e := &env{
		renderer: &fakeRenderer{id: 1},
		host:     &fakeHost{},
		factory:  newFakeFactory(),
	}
	opts = append([]bridge.GroupOption{
		bridge.WithRendererFactory(e.factory),
		bridge.WithWindowSequence(&window.Sequence{}),
	}, opts...)
	e.group = bridge.NewGroup(bridge.Config{}, opts...)
	b, err := e.group.Attach(context.Background(), e.renderer, e.host)
	require.NoError(t, err)
	e.bridge = b
	return e
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

func drain(t *testing.T, loop *mainloop.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, loop.Drain(ctx))
}

func TestGroup_AttachRejectsDuplicateRenderer(t *testing.T) {
	e := newEnv(t)

	_, err := e.group.Attach(context.Background(), &fakeRenderer{id: 1}, &fakeHost{})

	assert.Error(t, err)
	assert.Equal(t, 1, e.group.Len())
	assert.Equal(t, bridge.DefaultNamespace, e.group.Namespace())
}

func TestBridge_ConsoleForwarding(t *testing.T) {
	e := newEnv(t)

	e.bridge.OnScriptMessage(context.Background(), message(t, entity.KindConsole, entity.ConsoleBody{Level: "warn", Message: "careful"}))

	require.Len(t, e.host.notes, 1)
	assert.Equal(t, entity.MethodConsoleMessage, e.host.notes[0].method)
	assert.Equal(t, entity.ConsoleNotification{Level: entity.ConsoleWarning, Message: "careful"}, e.host.notes[0].args)
}

func TestBridge_UnknownKindAndMalformedBodyAreIgnored(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.bridge.OnScriptMessage(ctx, entity.ScriptMessage{Kind: "teleport", Body: json.RawMessage(`{}`)})
	e.bridge.OnScriptMessage(ctx, entity.ScriptMessage{Kind: entity.KindCallHandler, Body: json.RawMessage(`{"_callHandlerID":"nope"}`)})
	e.bridge.OnScriptMessage(ctx, entity.ScriptMessage{Kind: entity.KindConsole, Body: json.RawMessage(`not json`)})

	assert.Empty(t, e.host.invocations)
	assert.Empty(t, e.host.notes)
	assert.Empty(t, e.renderer.scripts)
}

func TestBridge_HandlerCallThroughDispatcher(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	msg := message(t, entity.KindCallHandler, entity.CallHandlerBody{HandlerName: "echo", CallID: 42, Args: "[1,2]"})
	msg.World = "isolated"
	e.bridge.OnScriptMessage(ctx, msg)

	call := e.host.last(t, entity.MethodCallHandler)
	assert.Equal(t, entity.CallHandlerArgs{HandlerName: "echo", Args: "[1,2]"}, call.args)
	assert.True(t, e.bridge.Handlers().Has(42))

	call.result.Success(json.RawMessage(`"ok"`))

	last := e.renderer.lastScript(t)
	assert.Equal(t, entity.ContentWorld("isolated"), last.world)
	assert.Contains(t, last.source, `p.resolve("ok")`)
	assert.False(t, e.bridge.Handlers().Has(42))
}

func TestBridge_EvaluateWithResult(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var got json.RawMessage
	var gotErr error
	calls := 0
	require.NoError(t, e.bridge.EvaluateWithResult(ctx, "1+1", entity.PageWorld, func(v json.RawMessage, err error) {
		calls++
		got, gotErr = v, err
	}))
	assert.Equal(t, 1, e.bridge.PendingResults())

	id := resultUUID(t, e.renderer.lastScript(t).source)
	e.bridge.OnScriptMessage(ctx, message(t, entity.KindEvaluateResult, entity.EvaluateResultBody{ResultUUID: id, Value: json.RawMessage(`2`)}))
	e.bridge.OnScriptMessage(ctx, message(t, entity.KindEvaluateResult, entity.EvaluateResultBody{ResultUUID: id, Value: json.RawMessage(`3`)}))

	assert.Equal(t, 1, calls)
	assert.NoError(t, gotErr)
	assert.JSONEq(t, `2`, string(got))
	assert.Zero(t, e.bridge.PendingResults())
}

func TestBridge_EvaluateWithResultError(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var gotErr error
	require.NoError(t, e.bridge.EvaluateWithResult(ctx, "boom()", entity.PageWorld, func(_ json.RawMessage, err error) {
		gotErr = err
	}))

	id := resultUUID(t, e.renderer.lastScript(t).source)
	text := "ReferenceError: boom is not defined"
	e.bridge.OnScriptMessage(ctx, message(t, entity.KindEvaluateResult, entity.EvaluateResultBody{ResultUUID: id, Error: &text}))

	require.Error(t, gotErr)
	assert.Equal(t, text, gotErr.Error())
}

func TestBridge_PermissionDefaultsToDeny(t *testing.T) {
	g := bridge.NewGroup(bridge.Config{})
	b, err := g.Attach(context.Background(), &fakeRenderer{id: 5}, nil)
	require.NoError(t, err)

	var decisions []entity.PermissionDecision
	b.RequestPermission(context.Background(), entity.PermissionRequest{Origin: "https://meet.example"}, func(d entity.PermissionDecision) {
		decisions = append(decisions, d)
	})

	require.Len(t, decisions, 1)
	assert.False(t, decisions[0].Granted)
}

func TestBridge_PermissionAnswers(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		granted   bool
		resources []entity.PermissionResource
	}{
		{name: "grant with resources", answer: `{"resources":["CAMERA"],"action":1}`, granted: true, resources: []entity.PermissionResource{entity.PermissionResourceCamera}},
		{name: "grant falls back to requested resources", answer: `{"action":1}`, granted: true, resources: []entity.PermissionResource{entity.PermissionResourceMicrophone, entity.PermissionResourceCamera}},
		{name: "deny", answer: `{"action":0}`},
		{name: "no opinion", answer: `{"resources":[]}`},
		{name: "null", answer: `null`},
		{name: "malformed", answer: `{"action":"grant"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			var decisions []entity.PermissionDecision
			req := entity.PermissionRequest{
				Origin:    "https://meet.example",
				Resources: []entity.PermissionResource{entity.PermissionResourceMicrophone, entity.PermissionResourceCamera},
			}
			e.bridge.RequestPermission(context.Background(), req, func(d entity.PermissionDecision) {
				decisions = append(decisions, d)
			})
			assert.Empty(t, decisions)

			e.host.answer(t, entity.MethodPermissionRequest, tt.answer)
			e.host.answer(t, entity.MethodPermissionRequest, `{"action":1}`)

			require.Len(t, decisions, 1)
			assert.Equal(t, tt.granted, decisions[0].Granted)
			assert.Equal(t, tt.resources, decisions[0].Resources)
		})
	}
}

func TestBridge_NavigationPolicy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	var got []entity.NavigationActionPolicy
	decide := func(p entity.NavigationActionPolicy) { got = append(got, p) }

	action := entity.NavigationAction{Request: entity.NavigationRequest{URL: "https://example.com"}, IsForMainFrame: true}
	e.bridge.DecideNavigationPolicy(ctx, action, decide)
	e.host.answer(t, entity.MethodShouldOverrideURLLoading, `0`)

	e.bridge.DecideNavigationPolicy(ctx, action, decide)
	e.host.last(t, entity.MethodShouldOverrideURLLoading).result.NotImplemented()

	e.bridge.DecideNavigationPolicy(ctx, action, decide)
	e.host.answer(t, entity.MethodShouldOverrideURLLoading, `7`)

	assert.Equal(t, []entity.NavigationActionPolicy{entity.NavigationCancel, entity.NavigationAllow, entity.NavigationAllow}, got)
}

func TestBridge_DownloadAndAuth(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var action entity.DownloadStartAction
	var dest string
	e.bridge.StartDownload(ctx, entity.DownloadStartRequest{URL: "https://example.com/f.zip"}, func(a entity.DownloadStartAction, d string) {
		action, dest = a, d
	})
	e.host.answer(t, entity.MethodDownloadStarting, `{"action":0,"destinationPath":"/tmp/x"}`)
	assert.Equal(t, entity.DownloadCancel, action)
	assert.Equal(t, "/tmp/x", dest)

	var auth *entity.HTTPAuthResponse
	authCalls := 0
	e.bridge.ReceiveHTTPAuthChallenge(ctx, entity.HTTPAuthChallenge{}, func(r *entity.HTTPAuthResponse) {
		authCalls++
		auth = r
	})
	e.host.last(t, entity.MethodHTTPAuthRequest).result.Error("BROKEN", "host crashed", nil)
	assert.Equal(t, 1, authCalls)
	assert.Nil(t, auth)

	e.bridge.ReceiveHTTPAuthChallenge(ctx, entity.HTTPAuthChallenge{}, func(r *entity.HTTPAuthResponse) { auth = r })
	e.host.answer(t, entity.MethodHTTPAuthRequest, `{"username":"u","password":"p","action":1}`)
	require.NotNil(t, auth)
	assert.Equal(t, "u", auth.Username)
}

func TestBridge_DialogDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("renderer dialog", func(t *testing.T) {
		renderer := &dialogRenderer{fakeRenderer: &fakeRenderer{id: 9}}
		g := bridge.NewGroup(bridge.Config{})
		b, err := g.Attach(ctx, renderer, nil)
		require.NoError(t, err)

		var res entity.JSDialogResult
		b.RunJavaScriptPrompt(ctx, entity.JSDialogRequest{Message: "name?"}, func(r entity.JSDialogResult) { res = r })

		assert.Equal(t, []string{"prompt"}, kinds(renderer.shown))
		assert.True(t, res.Confirmed)
		require.NotNil(t, res.Value)
		assert.Equal(t, "typed", *res.Value)
	})

	t.Run("handled by host", func(t *testing.T) {
		e := newEnv(t)
		var res entity.JSDialogResult
		e.bridge.RunJavaScriptConfirm(ctx, entity.JSDialogRequest{Message: "sure?"}, func(r entity.JSDialogResult) { res = r })
		e.host.answer(t, entity.MethodJSConfirm, `{"handledByClient":true,"action":0}`)
		assert.True(t, res.Confirmed)
	})

	t.Run("no dialog available", func(t *testing.T) {
		e := newEnv(t)
		var results []entity.JSDialogResult
		done := func(r entity.JSDialogResult) { results = append(results, r) }
		e.bridge.RunJavaScriptAlert(ctx, entity.JSDialogRequest{}, done)
		e.host.last(t, entity.MethodJSAlert).result.NotImplemented()
		e.bridge.RunJavaScriptConfirm(ctx, entity.JSDialogRequest{}, done)
		e.host.answer(t, entity.MethodJSConfirm, `{"handledByClient":false}`)

		require.Len(t, results, 2)
		assert.True(t, results[0].Confirmed)
		assert.False(t, results[1].Confirmed)
	})
}

func kinds[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, k := range in {
		out[i] = string(k)
	}
	return out
}

func TestBridge_ClientCertificate(t *testing.T) {
	ctx := context.Background()
	loop := startLoop(t)
	worker := mainloop.NewWorker(ctx, loop, 2)
	identities := &fakeIdentities{}
	e := newEnv(t, bridge.WithIdentityLoader(identities, worker))

	var decisions []entity.ClientCertDecision
	decide := func(d entity.ClientCertDecision) { decisions = append(decisions, d) }

	e.bridge.ReceiveClientCertChallenge(ctx, entity.ClientCertChallenge{}, decide)
	e.host.answer(t, entity.MethodClientCertRequest, `{"certificatePath":"/certs/me.p12","certificatePassword":"pw","action":1}`)

	assert.Empty(t, decisions, "identity parses in the background")
	worker.Wait()
	drain(t, loop)

	require.Len(t, decisions, 1)
	assert.Equal(t, entity.ClientCertProceed, decisions[0].Action)
	require.NotNil(t, decisions[0].Certificate)
	assert.Equal(t, 1, identities.calls)

	identities.err = errors.New("bad password")
	e.bridge.ReceiveClientCertChallenge(ctx, entity.ClientCertChallenge{}, decide)
	e.host.answer(t, entity.MethodClientCertRequest, `{"certificatePath":"/certs/me.p12","action":1}`)
	worker.Wait()
	drain(t, loop)

	require.Len(t, decisions, 2)
	assert.Equal(t, entity.ClientCertCancel, decisions[1].Action)

	e.bridge.ReceiveClientCertChallenge(ctx, entity.ClientCertChallenge{}, decide)
	e.host.last(t, entity.MethodClientCertRequest).result.NotImplemented()
	require.Len(t, decisions, 3)
	assert.Equal(t, entity.ClientCertCancel, decisions[2].Action)
}

func TestBridge_WindowDeclineLoadsInParent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := entity.NavigationRequest{URL: "https://example.com/popup"}

	id, err := e.bridge.CreateWindow(ctx, entity.CreateWindowAction{Request: req, IsForMainFrame: true})
	require.NoError(t, err)
	assert.Equal(t, entity.WindowID(1), id)
	assert.Equal(t, 2, e.group.Len())

	e.host.answer(t, entity.MethodCreateWindow, `false`)

	assert.Equal(t, []entity.NavigationRequest{req}, e.renderer.loads)
	child := e.factory.renderers[id]
	assert.Empty(t, child.loads)
	assert.True(t, child.disposed)
	assert.Equal(t, 1, e.group.Len())
	assert.Zero(t, e.group.Windows().Len())
}

func TestBridge_ChildWindowLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id, err := e.bridge.CreateWindow(ctx, entity.CreateWindowAction{Request: entity.NavigationRequest{URL: "https://example.com/child"}})
	require.NoError(t, err)
	e.host.answer(t, entity.MethodCreateWindow, `true`)

	childRenderer := e.factory.renderers[id]
	childHost := e.factory.hosts[id]
	child, ok := e.group.Lookup(childRenderer.ID())
	require.True(t, ok)
	assert.Equal(t, id, child.WindowID())
	assert.Contains(t, child.BootstrapScript(), "_windowId:1")

	var policies []entity.NavigationActionPolicy
	decide := func(p entity.NavigationActionPolicy) { policies = append(policies, p) }
	child.DecideNavigationPolicy(ctx, entity.NavigationAction{Request: entity.NavigationRequest{URL: "https://a"}}, decide)
	child.DecideNavigationPolicy(ctx, entity.NavigationAction{Request: entity.NavigationRequest{URL: "https://b"}}, decide)
	assert.Empty(t, childHost.invocations, "navigation waits for attachment")

	require.NoError(t, e.group.MarkWindowAttached(ctx, id))
	require.Len(t, childHost.invocations, 2)
	assert.Equal(t, "https://a", childHost.invocations[0].args.(entity.NavigationAction).Request.URL)
	assert.Equal(t, "https://b", childHost.invocations[1].args.(entity.NavigationAction).Request.URL)

	envelope := json.RawMessage(`{"_windowId":1,"level":"error","message":"from child"}`)
	e.bridge.OnScriptMessage(ctx, entity.ScriptMessage{Kind: entity.KindConsole, Body: envelope})
	require.Len(t, childHost.notes, 1)
	assert.Empty(t, e.host.notes, "message attributed to the child window")

	child.Close(ctx)
	assert.True(t, childRenderer.disposed)
	assert.Equal(t, entity.MethodCloseWindow, childHost.notes[len(childHost.notes)-1].method)
	_, ok = e.group.Windows().Lookup(id)
	assert.False(t, ok)

	e.bridge.OnScriptMessage(ctx, entity.ScriptMessage{Kind: entity.KindConsole, Body: envelope})
	assert.Len(t, e.host.notes, 1, "closed window falls back to the receiver")
}

func TestBridge_CreateWindowWithoutFactoryNavigatesParent(t *testing.T) {
	e := newEnv(t)
	e.factory.fail = true

	_, err := e.bridge.CreateWindow(context.Background(), entity.CreateWindowAction{Request: entity.NavigationRequest{URL: "https://x"}})

	assert.Error(t, err)
	require.Len(t, e.renderer.loads, 1)
	assert.Empty(t, e.host.invocations)
}

func TestBridge_DisposeMakesLateAnswersNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := portmocks.NewMockOutcomeRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, o entity.Outcome) {
		assert.Equal(t, entity.OutcomeOrphaned, o.Result)
		assert.Equal(t, entity.RendererID(1), o.RendererID)
	}).Times(2)

	e := newEnv(t, bridge.WithRecorder(recorder))
	ctx := context.Background()

	decided := 0
	e.bridge.RequestPermission(ctx, entity.PermissionRequest{}, func(entity.PermissionDecision) { decided++ })
	e.bridge.OnScriptMessage(ctx, message(t, entity.KindCallHandler, entity.CallHandlerBody{HandlerName: "slow", CallID: 1}))
	scripts := len(e.renderer.scripts)

	e.bridge.Dispose(ctx)
	assert.True(t, e.renderer.disposed)
	_, ok := e.group.Lookup(1)
	assert.False(t, ok)

	e.host.answer(t, entity.MethodPermissionRequest, `{"action":1}`)
	e.host.answer(t, entity.MethodCallHandler, `"late"`)

	assert.Zero(t, decided)
	assert.Len(t, e.renderer.scripts, scripts)
	assert.ErrorIs(t, e.bridge.EvaluateWithResult(ctx, "1", entity.PageWorld, nil), entity.ErrRendererDisposed)
}

func TestBridge_HostTimeoutRunsDefault(t *testing.T) {
	ctx := context.Background()
	loop := startLoop(t)
	renderer := &fakeRenderer{id: 3}
	host := &fakeHost{}
	g := bridge.NewGroup(bridge.Config{HostTimeout: 10 * time.Millisecond}, bridge.WithScheduler(loop))

	var decisions []entity.PermissionDecision
	require.NoError(t, loop.Do(ctx, func() {
		b, err := g.Attach(ctx, renderer, host)
		if err != nil {
			return
		}
		b.RequestPermission(ctx, entity.PermissionRequest{}, func(d entity.PermissionDecision) {
			decisions = append(decisions, d)
		})
	}))

	decided := func() int {
		n := 0
		require.NoError(t, loop.Do(ctx, func() { n = len(decisions) }))
		return n
	}
	require.Eventually(t, func() bool { return decided() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, decisions[0].Granted)

	require.NoError(t, loop.Do(ctx, func() {
		host.last(t, entity.MethodPermissionRequest).result.Success(json.RawMessage(`{"action":1}`))
	}))
	assert.Equal(t, 1, decided())
}

func TestBridge_BootstrapScript(t *testing.T) {
	g := bridge.NewGroup(bridge.Config{Namespace: "myBridge"})
	b, err := g.Attach(context.Background(), &fakeRenderer{id: 1}, nil)
	require.NoError(t, err)

	source := b.BootstrapScript()

	assert.Contains(t, source, "g.myBridge={_installed:true,_windowId:null")
	assert.Contains(t, source, "_callHandlerPromises")
	assert.Contains(t, source, bridge.NativeFunction)
	assert.Contains(t, source, `"_onPrintRequest"`)
}

func TestGroup_BridgeCountAndRecorderFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := portmocks.NewMockOutcomeRecorder(ctrl)
	second := portmocks.NewMockOutcomeRecorder(ctrl)
	first.EXPECT().Record(gomock.Any(), gomock.Any()).Times(1)
	second.EXPECT().Record(gomock.Any(), gomock.Any()).Times(1)

	var counts []int
	e := newEnv(t,
		bridge.WithRecorder(port.Recorders{first, nil, second}),
		bridge.WithBridgeCount(func(live int) { counts = append(counts, live) }),
	)
	ctx := context.Background()

	_, err := e.group.Attach(ctx, &fakeRenderer{id: 2}, &fakeHost{})
	require.NoError(t, err)

	e.bridge.RequestPermission(ctx, entity.PermissionRequest{}, func(entity.PermissionDecision) {})
	e.host.answer(t, entity.MethodPermissionRequest, `null`)

	e.group.Dispose(ctx)
	assert.Equal(t, []int{1, 2}, counts[:2])
	assert.Equal(t, 0, counts[len(counts)-1])
	assert.Zero(t, e.group.Len())
}

func TestBridge_DisposeDiscardsPendingChildWindow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id, err := e.bridge.CreateWindow(ctx, entity.CreateWindowAction{Request: entity.NavigationRequest{URL: "https://example.com/popup"}})
	require.NoError(t, err)
	childRenderer := e.factory.renderers[id]
	require.Equal(t, 2, e.group.Len())

	e.bridge.Dispose(ctx)

	assert.Zero(t, e.group.Windows().Len())
	_, ok := e.group.Lookup(childRenderer.ID())
	assert.False(t, ok)
	assert.True(t, childRenderer.disposed)
	assert.Zero(t, e.group.Len())

	e.host.answer(t, entity.MethodCreateWindow, `false`)
	assert.Empty(t, e.renderer.loads, "late decline does not navigate the disposed opener")
	assert.Zero(t, e.group.Windows().Len())
}

func TestBridge_DisposeKeepsAdoptedChildWindow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id, err := e.bridge.CreateWindow(ctx, entity.CreateWindowAction{Request: entity.NavigationRequest{URL: "https://example.com/popup"}})
	require.NoError(t, err)
	e.host.answer(t, entity.MethodCreateWindow, `true`)
	childRenderer := e.factory.renderers[id]

	e.bridge.Dispose(ctx)

	child, ok := e.group.Lookup(childRenderer.ID())
	require.True(t, ok)
	assert.False(t, childRenderer.disposed)
	_, ok = e.group.Windows().Lookup(id)
	assert.True(t, ok)

	child.Dispose(ctx)
	assert.Zero(t, e.group.Windows().Len())
	assert.Zero(t, e.group.Len())
}

func TestGroup_WindowIDsAreUniqueAcrossGroups(t *testing.T) {
	ctx := context.Background()
	open := func() entity.WindowID {
		g := bridge.NewGroup(bridge.Config{}, bridge.WithRendererFactory(newFakeFactory()))
		b, err := g.Attach(ctx, &fakeRenderer{id: 1}, &fakeHost{})
		require.NoError(t, err)
		id, err := b.CreateWindow(ctx, entity.CreateWindowAction{Request: entity.NavigationRequest{URL: "https://x"}})
		require.NoError(t, err)
		return id
	}

	first := open()
	second := open()

	assert.Greater(t, second, first)
}

func TestGroup_AttachWiresScriptRealm(t *testing.T) {
	ctx := context.Background()
	renderer := &realmRenderer{fakeRenderer: &fakeRenderer{id: 4}}
	host := &fakeHost{}
	g := bridge.NewGroup(bridge.Config{})

	b, err := g.Attach(ctx, renderer, host)
	require.NoError(t, err)

	require.Len(t, renderer.installed, 1)
	assert.Equal(t, b.BootstrapScript(), renderer.installed[0].source)
	assert.Equal(t, entity.PageWorld, renderer.installed[0].world)
	require.NotNil(t, renderer.handler)

	renderer.handler(ctx, message(t, entity.KindConsole, entity.ConsoleBody{Level: "log", Message: "hi"}))
	require.Len(t, host.notes, 1)
	assert.Equal(t, entity.MethodConsoleMessage, host.notes[0].method)
}

func TestBridge_ChildWindowInheritsListeners(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cfg := channel.ListenerConfig{JSObjectName: "native", AllowedOriginRules: []string{"*"}}
	require.NoError(t, e.bridge.Channels().AddListener(ctx, cfg))

	id, err := e.bridge.CreateWindow(ctx, entity.CreateWindowAction{Request: entity.NavigationRequest{URL: "https://example.com/child"}})
	require.NoError(t, err)

	child, ok := e.group.Lookup(e.factory.renderers[id].ID())
	require.True(t, ok)
	assert.Equal(t, []channel.ListenerConfig{cfg}, child.Channels().Listeners())
}
