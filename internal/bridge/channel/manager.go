// Package channel owns the message channels and web message listeners of one
// renderer and enforces the port state machine.
package channel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/bridge/script"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
	"github.com/google/uuid"
)

// Config wires a Manager to its renderer and host.
type Config struct {
	Renderer  port.Renderer
	Host      port.HostChannel
	Namespace string

	// NewID allocates channel ids. Defaults to random UUIDs.
	NewID func() string
}

// ListenerConfig registers a named script object the page can post to.
type ListenerConfig struct {
	JSObjectName       string
	AllowedOriginRules []string
}

type listener struct {
	name   string
	rules  []entity.OriginRule
	config ListenerConfig
	order  int
}

// Manager tracks channels and listeners. It is used from the main sequential
// context only.
type Manager struct {
	cfg       Config
	channels  map[string]*entity.MessageChannel
	listeners map[string]*listener
	added     int
	disposed  bool
}

// New creates an empty manager.
func New(cfg Config) *Manager {
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Manager{
		cfg:       cfg,
		channels:  make(map[string]*entity.MessageChannel),
		listeners: make(map[string]*listener),
	}
}

// CreateChannel allocates a channel with two idle ports and instantiates its
// script counterpart in the page world.
func (m *Manager) CreateChannel(ctx context.Context) (*entity.MessageChannel, error) {
	if m.disposed {
		return nil, entity.ErrRendererDisposed
	}

	ch := entity.NewMessageChannel(m.cfg.NewID())
	m.channels[ch.ID] = ch

	body := fmt.Sprintf(`var t=%s;if(t){t[%s]=new MessageChannel();}`,
		script.Object(m.cfg.Namespace, script.ChannelTable), script.Quote(ch.ID))
	if err := m.evaluate(ctx, script.Guard("create channel", body)); err != nil {
		delete(m.channels, ch.ID)
		return nil, fmt.Errorf("create channel %s: %w", ch.ID, err)
	}

	logging.FromContext(ctx).Debug().Str("channel_id", ch.ID).Msg("message channel created")
	return ch, nil
}

// Channel returns the channel with id.
func (m *Manager) Channel(id string) (*entity.MessageChannel, bool) {
	ch, ok := m.channels[id]
	return ch, ok
}

// Len returns the number of live channels.
func (m *Manager) Len() int {
	return len(m.channels)
}

// PostMessage posts msg to the page's window at targetOrigin, transferring the
// ports msg lists. Every transferred port is checked before anything changes,
// so a refused transfer leaves all ports untouched and evaluates nothing.
// msg is disposed on success.
func (m *Manager) PostMessage(ctx context.Context, msg *entity.WebMessage, targetOrigin string) error {
	transfer, err := m.checkTransfer(msg)
	if err != nil {
		return err
	}

	origin := entity.ResolveTargetOrigin(targetOrigin)
	m.markTransferred(transfer)

	body := fmt.Sprintf(`var t=%s;window.postMessage(%s,%s,%s);`,
		script.Object(m.cfg.Namespace, script.ChannelTable),
		dataLiteral(msg), script.Quote(origin), portList(transfer))
	msg.Dispose()

	if err := m.evaluate(ctx, script.Guard("post message", body)); err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

// PostPortMessage posts msg through the port at ref. The port must not be
// closed or transferred; transferred ports follow the PostMessage rules.
func (m *Manager) PostPortMessage(ctx context.Context, ref entity.PortRef, msg *entity.WebMessage) error {
	p, err := m.port(ref)
	if err != nil {
		return err
	}
	if err := p.CheckUsable(); err != nil {
		return err
	}
	transfer, err := m.checkTransfer(msg)
	if err != nil {
		return err
	}
	for _, t := range transfer {
		if t == p {
			return &entity.PortStateError{Reason: entity.PortAlreadyClosedOrTransferred, ChannelID: p.ChannelID, Index: p.Index}
		}
	}

	m.markTransferred(transfer)

	body := fmt.Sprintf(`var t=%s;if(t&&t[%s]){t[%s].%s.postMessage(%s,%s);}`,
		script.Object(m.cfg.Namespace, script.ChannelTable),
		script.Quote(p.ChannelID), script.Quote(p.ChannelID), portName(p.Index),
		dataLiteral(msg), portList(transfer))
	msg.Dispose()

	if err := m.evaluate(ctx, script.Guard("post port message", body)); err != nil {
		return fmt.Errorf("post port message: %w", err)
	}
	return nil
}

// StartPort starts delivering messages that arrive on the port at ref to the
// host. Starting a started port is a no-op.
func (m *Manager) StartPort(ctx context.Context, ref entity.PortRef) error {
	p, err := m.port(ref)
	if err != nil {
		return err
	}
	if err := p.CheckUsable(); err != nil {
		return err
	}
	if p.State == entity.PortStarted {
		return nil
	}
	p.State = entity.PortStarted

	body := fmt.Sprintf(
		`var ns=window.%[1]s,t=ns&&ns.%[2]s;if(t&&t[%[3]s]){var port=t[%[3]s].%[4]s;`+
			`port.onmessage=function(e){ns.%[5]s("portMessage",{webMessageChannelId:%[3]s,index:%[6]d,message:e.data==null?null:String(e.data)});};`+
			`port.start();}`,
		m.cfg.Namespace, script.ChannelTable, script.Quote(p.ChannelID), portName(p.Index),
		script.SendFunction, p.Index)
	return m.evaluate(ctx, script.Guard("start port", body))
}

// ClosePort closes the port at ref. Closing a closed port is a no-op; a
// transferred port cannot be closed from here.
func (m *Manager) ClosePort(ctx context.Context, ref entity.PortRef) error {
	p, err := m.port(ref)
	if err != nil {
		return err
	}
	switch p.State {
	case entity.PortClosed:
		return nil
	case entity.PortTransferred:
		return &entity.PortStateError{Reason: entity.PortAlreadyClosedOrTransferred, ChannelID: p.ChannelID, Index: p.Index}
	}
	p.State = entity.PortClosed

	body := fmt.Sprintf(`var t=%s;if(t&&t[%s]){t[%s].%s.close();}`,
		script.Object(m.cfg.Namespace, script.ChannelTable),
		script.Quote(p.ChannelID), script.Quote(p.ChannelID), portName(p.Index))
	return m.evaluate(ctx, script.Guard("close port", body))
}

// DisposeChannel closes both ports of channel id and forgets it.
func (m *Manager) DisposeChannel(ctx context.Context, id string) error {
	ch, ok := m.channels[id]
	if !ok {
		return fmt.Errorf("dispose channel %s: %w", id, entity.ErrChannelNotFound)
	}
	closePorts(ch)
	delete(m.channels, id)

	body := fmt.Sprintf(`var t=%s;var c=t&&t[%s];if(c){c.port1.close();c.port2.close();delete t[%s];}`,
		script.Object(m.cfg.Namespace, script.ChannelTable), script.Quote(id), script.Quote(id))
	return m.evaluate(ctx, script.Guard("dispose channel", body))
}

// DeliverPortMessage hands a message received on a started port to the host.
// Messages for unknown or stopped ports are dropped. It reports whether the
// message was delivered.
func (m *Manager) DeliverPortMessage(ctx context.Context, body entity.PortMessageBody) bool {
	log := logging.FromContext(ctx)

	p, err := m.port(entity.PortRef{ChannelID: body.ChannelID, Index: body.Index})
	if err != nil {
		log.Debug().Err(err).Msg("dropping port message")
		return false
	}
	if p.State != entity.PortStarted {
		log.Debug().
			Str("channel_id", p.ChannelID).
			Int("index", p.Index).
			Stringer("state", p.State).
			Msg("dropping port message for port that is not started")
		return false
	}

	if m.cfg.Host != nil {
		m.cfg.Host.Notify(ctx, entity.MethodPortMessage, entity.PortMessageNotification{
			ChannelID: body.ChannelID,
			Index:     body.Index,
			Message:   body.Message,
		})
	}
	return true
}

// AddListener registers a web message listener and installs its script
// object. Names are unique per renderer.
func (m *Manager) AddListener(ctx context.Context, cfg ListenerConfig) error {
	if m.disposed {
		return entity.ErrRendererDisposed
	}
	name := strings.TrimSpace(cfg.JSObjectName)
	if name == "" {
		return errors.New("listener object name cannot be empty")
	}
	if _, exists := m.listeners[name]; exists {
		return fmt.Errorf("add listener %q: %w", name, entity.ErrDuplicateListenerName)
	}
	rules, err := entity.ParseOriginRules(cfg.AllowedOriginRules)
	if err != nil {
		return fmt.Errorf("add listener %q: %w", name, err)
	}

	m.added++
	m.listeners[name] = &listener{
		name:   name,
		rules:  rules,
		config: ListenerConfig{JSObjectName: name, AllowedOriginRules: slices.Clone(cfg.AllowedOriginRules)},
		order:  m.added,
	}

	body := fmt.Sprintf(
		`var ns=window.%[1]s;if(!ns){return;}var name=%[2]s;var l={listeners:[],onmessage:null,`+
			`postMessage:function(m){ns.%[3]s("listenerPostMessage",{jsObjectName:name,message:m==null?null:String(m)});},`+
			`addEventListener:function(type,fn){if(type==="message"){this.listeners.push(fn);}},`+
			`removeEventListener:function(type,fn){if(type==="message"){this.listeners=this.listeners.filter(function(x){return x!==fn;});}}};`+
			`ns.%[4]s[name]=l;window[name]=l;`,
		m.cfg.Namespace, script.Quote(name), script.SendFunction, script.ListenerTable)
	if err := m.install(ctx, script.Guard("add listener", body)); err != nil {
		delete(m.listeners, name)
		return fmt.Errorf("add listener %q: %w", name, err)
	}

	logging.FromContext(ctx).Debug().
		Str("listener", name).
		Int("rules", len(rules)).
		Msg("web message listener registered")
	return nil
}

// Listeners returns the registered listener configurations in the order they
// were added.
func (m *Manager) Listeners() []ListenerConfig {
	ordered := make([]*listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		ordered = append(ordered, l)
	}
	slices.SortFunc(ordered, func(a, b *listener) int { return a.order - b.order })

	out := make([]ListenerConfig, len(ordered))
	for i, l := range ordered {
		out[i] = l.config
	}
	return out
}

// HasListener reports whether name is registered.
func (m *Manager) HasListener(name string) bool {
	_, ok := m.listeners[name]
	return ok
}

// DeliverListenerMessage forwards a message posted to a listener's script
// object to the host if the sending origin is allowed. Rejected messages are
// dropped silently. It reports whether the message was delivered.
func (m *Manager) DeliverListenerMessage(ctx context.Context, body entity.ListenerPostMessageBody, origin string, isMainFrame bool) bool {
	log := logging.FromContext(ctx)

	l, ok := m.listeners[body.JSObjectName]
	if !ok {
		log.Debug().Str("listener", body.JSObjectName).Msg("message for unknown listener")
		return false
	}

	source := entity.ParseOrigin(origin)
	if !entity.AllowedBy(l.rules, source) {
		log.Debug().
			Str("listener", l.name).
			Str("origin", source.String()).
			Msg("origin not allowed for listener")
		return false
	}

	if m.cfg.Host != nil {
		m.cfg.Host.Notify(ctx, entity.MethodListenerMessage, entity.ListenerMessageNotification{
			JSObjectName: l.name,
			Message:      body.Message,
			SourceOrigin: source.String(),
			IsMainFrame:  isMainFrame,
		})
	}
	return true
}

// ReplyToListener dispatches message to the script side of listener name.
func (m *Manager) ReplyToListener(ctx context.Context, name, message string) error {
	if _, ok := m.listeners[name]; !ok {
		return fmt.Errorf("reply to %q: %w", name, entity.ErrListenerNotFound)
	}
	body := fmt.Sprintf(
		`var t=%s;var l=t&&t[%s];if(!l){return;}var e={data:%s};`+
			`if(typeof l.onmessage==="function"){l.onmessage(e);}`+
			`l.listeners.forEach(function(fn){fn(e);});`,
		script.Object(m.cfg.Namespace, script.ListenerTable), script.Quote(name), script.Quote(message))
	return m.evaluate(ctx, script.Guard("listener reply", body))
}

// Dispose closes every channel and drops every listener. Later calls fail
// with entity.ErrRendererDisposed.
func (m *Manager) Dispose() {
	for id, ch := range m.channels {
		closePorts(ch)
		delete(m.channels, id)
	}
	clear(m.listeners)
	m.disposed = true
}

func (m *Manager) port(ref entity.PortRef) (*entity.MessagePort, error) {
	if m.disposed {
		return nil, entity.ErrRendererDisposed
	}
	ch, ok := m.channels[ref.ChannelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", ref.ChannelID, entity.ErrChannelNotFound)
	}
	p := ch.Port(ref.Index)
	if p == nil {
		return nil, fmt.Errorf("channel %s has no port %d: %w", ref.ChannelID, ref.Index, entity.ErrChannelNotFound)
	}
	return p, nil
}

// checkTransfer resolves and validates every port msg transfers without
// changing any state.
func (m *Manager) checkTransfer(msg *entity.WebMessage) ([]*entity.MessagePort, error) {
	if m.disposed {
		return nil, entity.ErrRendererDisposed
	}
	if msg == nil || msg.Disposed() {
		return nil, entity.ErrPayloadDisposed
	}

	ports := make([]*entity.MessagePort, 0, len(msg.Ports))
	seen := make(map[entity.PortRef]bool, len(msg.Ports))
	for _, ref := range msg.Ports {
		p, err := m.port(ref)
		if err != nil {
			return nil, err
		}
		if seen[ref] {
			return nil, &entity.PortStateError{Reason: entity.PortAlreadyClosedOrTransferred, ChannelID: ref.ChannelID, Index: ref.Index}
		}
		if err := p.CheckTransferable(); err != nil {
			return nil, err
		}
		seen[ref] = true
		ports = append(ports, p)
	}
	return ports, nil
}

func (m *Manager) markTransferred(ports []*entity.MessagePort) {
	for _, p := range ports {
		p.State = entity.PortTransferred
	}
}

// install runs source now and, on renderers whose realm the bridge configures,
// again after every navigation.
func (m *Manager) install(ctx context.Context, source string) error {
	if realm, ok := m.cfg.Renderer.(port.ScriptRealm); ok {
		return realm.InstallScript(ctx, source, entity.PageWorld)
	}
	return m.evaluate(ctx, source)
}

func (m *Manager) evaluate(ctx context.Context, source string) error {
	if m.cfg.Renderer == nil {
		return nil
	}
	return m.cfg.Renderer.EvaluateJavascript(ctx, source, entity.PageWorld)
}

func closePorts(ch *entity.MessageChannel) {
	for _, p := range ch.Ports {
		if p.State != entity.PortTransferred {
			p.State = entity.PortClosed
		}
	}
}

// portName maps a port index to its MessageChannel property.
func portName(index int) string {
	if index == 0 {
		return "port1"
	}
	return "port2"
}

// portList renders transferred ports as a script array over table t.
func portList(ports []*entity.MessagePort) string {
	if len(ports) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		parts = append(parts, fmt.Sprintf("t[%s].%s", script.Quote(p.ChannelID), portName(p.Index)))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func dataLiteral(msg *entity.WebMessage) string {
	if msg.Data == nil {
		return "null"
	}
	return script.Quote(*msg.Data)
}
