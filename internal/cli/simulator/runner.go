package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/bridge"
	"github.com/bnema/webbridge/internal/bridge/channel"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/infrastructure/host"
	"github.com/bnema/webbridge/internal/infrastructure/realm"
	"github.com/bnema/webbridge/internal/logging"
	"github.com/bnema/webbridge/internal/mainloop"
)

// Options carries the settings a scenario does not choose itself.
type Options struct {
	Namespace   string
	HostTimeout time.Duration

	// Recorder also receives every outcome.
	Recorder      port.OutcomeRecorder
	OnBridgeCount func(live int)

	// Identities loads client certificates on a worker of Workers jobs.
	Identities port.IdentityLoader
	Workers    int
}

// Event is something observed while a step ran.
type Event struct {
	Step   int
	Kind   string
	Detail string
}

// Report is everything a run observed.
type Report struct {
	Scenario      string
	Events        []Event
	Calls         []host.Call
	Notifications []host.Notification
	Outcomes      []entity.Outcome
	Console       []string
	Loads         []string
}

type collector []entity.Outcome

func (c *collector) Record(_ context.Context, o entity.Outcome) {
	*c = append(*c, o)
}

type runner struct {
	ctx      context.Context
	loop     *mainloop.Loop
	worker   *mainloop.Worker
	group    *bridge.Group
	bridge   *bridge.Bridge
	page     *realm.Realm
	children map[entity.RendererID]*realm.Realm
	channel  *entity.MessageChannel
	opening  *opening
	report   *Report
	step     int
}

// opening is a popup whose create-window answer has not been acted on yet.
type opening struct {
	id     entity.WindowID
	action entity.CreateWindowAction
}

// Run executes sc and returns its report. Step failures are reported as
// events; only setup and main loop failures return an error.
func Run(ctx context.Context, sc *Scenario, opts Options) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	ctx = logging.WithComponent(ctx, "simulator")

	loop, err := mainloop.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = loop.Close(context.WithoutCancel(ctx)) }()

	r := &runner{
		ctx:      ctx,
		loop:     loop,
		children: make(map[entity.RendererID]*realm.Realm),
		report:   &Report{Scenario: sc.Name},
	}

	hostOpts := []host.Option{host.WithRules(sc.HostRules()...)}
	for _, name := range sc.EchoHandlers {
		hostOpts = append(hostOpts, host.WithHandler(name, host.Echo))
	}
	h := host.NewScripted("scenario", r.loop, hostOpts...)

	factory := realm.NewFactory(ctx, r.loop, 1, func(entity.RendererID) port.HostChannel { return h })
	factory.Created = func(child *realm.Realm, _ entity.WindowID) {
		r.children[child.ID()] = child
	}

	outcomes := &collector{}
	timeout := opts.HostTimeout
	if sc.HostTimeout > 0 {
		timeout = sc.HostTimeout
	}
	groupOpts := []bridge.GroupOption{
		bridge.WithScheduler(r.loop),
		bridge.WithRendererFactory(factory),
		bridge.WithRecorder(port.Recorders{outcomes, opts.Recorder}),
	}
	if opts.OnBridgeCount != nil {
		groupOpts = append(groupOpts, bridge.WithBridgeCount(opts.OnBridgeCount))
	}
	if opts.Identities != nil {
		r.worker = mainloop.NewWorker(ctx, r.loop, opts.Workers)
		groupOpts = append(groupOpts, bridge.WithIdentityLoader(opts.Identities, r.worker))
	}
	r.group = bridge.NewGroup(bridge.Config{Namespace: opts.Namespace, HostTimeout: timeout}, groupOpts...)

	r.page = realm.New(ctx, realm.Options{ID: 1, URL: sc.URL, Poster: r.loop, MainFrame: true})
	if err := r.do(func() error { return r.setup(sc, h) }); err != nil {
		return nil, err
	}

	for i, step := range sc.Steps {
		r.step = i + 1
		if err := r.do(func() error { r.run(step); return nil }); err != nil {
			return nil, err
		}
		if err := r.settle(0); err != nil {
			return nil, err
		}
		if r.opening == nil {
			continue
		}
		if err := r.do(func() error { r.adopt(); return nil }); err != nil {
			return nil, err
		}
		if err := r.settle(0); err != nil {
			return nil, err
		}
	}
	if err := r.settle(sc.Settle); err != nil {
		return nil, err
	}

	err = r.do(func() error {
		r.report.Console = r.console()
		for _, req := range r.page.Loads() {
			r.report.Loads = append(r.report.Loads, req.URL)
		}
		r.group.Dispose(ctx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.report.Calls = h.Calls()
	r.report.Notifications = h.Notifications()
	r.report.Outcomes = *outcomes
	return r.report, nil
}

func (r *runner) event(kind, format string, args ...any) {
	r.report.Events = append(r.report.Events, Event{Step: r.step, Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

func (r *runner) setup(sc *Scenario, h port.HostChannel) error {
	b, err := r.group.Attach(r.ctx, r.page, h)
	if err != nil {
		return fmt.Errorf("attach page: %w", err)
	}
	r.bridge = b
	if err := r.page.LoadRequest(r.ctx, entity.NavigationRequest{URL: sc.URL}); err != nil {
		return fmt.Errorf("load %s: %w", sc.URL, err)
	}
	b.SetURL(sc.URL)

	for _, l := range sc.Listeners {
		if err := b.Channels().AddListener(r.ctx, channel.ListenerConfig{JSObjectName: l.Name, AllowedOriginRules: l.Origins}); err != nil {
			return fmt.Errorf("add listener %s: %w", l.Name, err)
		}
	}
	return nil
}

// do runs fn on the loop and waits for the work it posts.
func (r *runner) do(fn func() error) error {
	var err error
	if loopErr := r.loop.Do(r.ctx, func() { err = fn() }); loopErr != nil {
		return fmt.Errorf("main loop: %w", loopErr)
	}
	return err
}

// settle drains the loop, then gives delayed answers and timers d to fire.
func (r *runner) settle(d time.Duration) error {
	if err := r.loop.Drain(r.ctx); err != nil {
		return fmt.Errorf("main loop: %w", err)
	}
	if r.worker != nil {
		r.worker.Wait()
		if err := r.loop.Drain(r.ctx); err != nil {
			return fmt.Errorf("main loop: %w", err)
		}
	}
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
	case <-r.ctx.Done():
		return r.ctx.Err()
	}
	if err := r.loop.Drain(r.ctx); err != nil {
		return fmt.Errorf("main loop: %w", err)
	}
	return nil
}

func (r *runner) run(step Step) {
	ctx := r.ctx
	b := r.bridge

	switch step.kind() {
	case "script":
		if err := r.page.EvaluateJavascript(ctx, step.Script, entity.ContentWorld(step.World)); err != nil {
			r.event("error", "script: %v", err)
		}

	case "evaluate":
		err := b.EvaluateWithResult(ctx, step.Evaluate, entity.PageWorld, func(value json.RawMessage, err error) {
			if err != nil {
				r.event("evaluate", "error: %v", err)
				return
			}
			r.event("evaluate", "%s", value)
		})
		if err != nil {
			r.event("error", "evaluate: %v", err)
		}

	case "post_message":
		var ports []entity.PortRef
		if step.Channel {
			ch, err := b.Channels().CreateChannel(ctx)
			if err != nil {
				r.event("error", "create channel: %v", err)
				return
			}
			if err := b.Channels().StartPort(ctx, ch.Ports[0].Ref()); err != nil {
				r.event("error", "start port: %v", err)
				return
			}
			r.channel = ch
			ports = append(ports, ch.Ports[1].Ref())
			r.event("channel", "created %s", ch.ID)
		}
		if err := b.Channels().PostMessage(ctx, entity.NewWebMessage(step.PostMessage, ports...), step.TargetOrigin); err != nil {
			r.event("error", "post message: %v", err)
		}

	case "port_message":
		if r.channel == nil {
			r.event("error", "port message: no channel was created")
			return
		}
		if err := b.Channels().PostPortMessage(ctx, r.channel.Ports[0].Ref(), entity.NewWebMessage(step.PortMessage)); err != nil {
			r.event("error", "port message: %v", err)
		}

	case "reply":
		if err := b.Channels().ReplyToListener(ctx, step.Reply, step.Message); err != nil {
			r.event("error", "reply: %v", err)
		}

	case "navigate":
		action := entity.NavigationAction{Request: entity.NavigationRequest{URL: step.Navigate}, IsForMainFrame: true}
		b.DecideNavigationPolicy(ctx, action, func(policy entity.NavigationActionPolicy) {
			if policy != entity.NavigationAllow {
				r.event("navigation", "cancelled %s", step.Navigate)
				return
			}
			if err := r.page.LoadRequest(ctx, action.Request); err != nil {
				r.event("error", "navigate: %v", err)
				return
			}
			b.SetURL(step.Navigate)
			r.event("navigation", "loaded %s", step.Navigate)
		})

	case "popup":
		action := entity.CreateWindowAction{Request: entity.NavigationRequest{URL: step.Popup}, IsForMainFrame: true, HasGesture: true}
		id, err := b.CreateWindow(ctx, action)
		if err != nil {
			r.event("error", "popup: %v", err)
			return
		}
		r.opening = &opening{id: id, action: action}

	case "permission":
		resources := make([]entity.PermissionResource, len(step.Permission))
		for i, res := range step.Permission {
			resources[i] = entity.PermissionResource(strings.ToUpper(res))
		}
		req := entity.PermissionRequest{Origin: entity.ParseOrigin(b.URL()).String(), Resources: resources}
		b.RequestPermission(ctx, req, func(d entity.PermissionDecision) {
			if !d.Granted {
				r.event("permission", "denied")
				return
			}
			r.event("permission", "granted %s", strings.Join(entity.PermissionResourcesToStrings(d.Resources), ","))
		})

	case "alert":
		b.RunJavaScriptAlert(ctx, entity.JSDialogRequest{URL: b.URL(), Message: step.Alert, IsMainFrame: true}, func(res entity.JSDialogResult) {
			r.event("dialog", "alert confirmed=%t", res.Confirmed)
		})

	case "client_cert":
		space := entity.ProtectionSpace{Host: step.ClientCert, Port: 443, Protocol: "https"}
		b.ReceiveClientCertChallenge(ctx, entity.ClientCertChallenge{ProtectionSpace: space}, func(d entity.ClientCertDecision) {
			switch d.Action {
			case entity.ClientCertProceed:
				r.event("client_cert", "proceed with %d certificate(s)", len(d.Certificate.Certificate))
			case entity.ClientCertIgnore:
				r.event("client_cert", "ignored")
			default:
				r.event("client_cert", "cancelled")
			}
		})
	}
}

// adopt finishes the popup opened by the last step once the host answered.
func (r *runner) adopt() {
	p := r.opening
	r.opening = nil
	ctx := r.ctx

	t, ok := r.group.Windows().Lookup(p.id)
	if !ok {
		r.event("popup", "window %d declined", p.id)
		return
	}
	childBridge, ok := r.group.Lookup(t.Child())
	child := r.children[t.Child()]
	if !t.Adopted() || !ok || child == nil {
		r.event("popup", "window %d pending", p.id)
		return
	}
	if err := r.group.MarkWindowAttached(ctx, p.id); err != nil {
		r.event("error", "popup attach: %v", err)
		return
	}
	if err := child.LoadRequest(ctx, p.action.Request); err != nil {
		r.event("error", "popup load: %v", err)
		return
	}
	childBridge.SetURL(p.action.Request.URL)
	r.event("popup", "window %d opened as renderer %s", p.id, t.Child())
}

func (r *runner) console() []string {
	v, err := r.page.Evaluate(r.ctx, "__consoleLog()", entity.PageWorld)
	if err != nil {
		return nil
	}
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}
