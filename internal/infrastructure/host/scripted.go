// Package host provides a rule-driven host application. It answers every
// host method from a table of canned responses and records what it saw,
// which is enough to drive a bridge without a real application.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
)

// Mode selects how a rule answers.
type Mode string

const (
	// ModeValue answers with the rule's Value.
	ModeValue Mode = "value"
	// ModeNotImplemented answers as a host with no listener.
	ModeNotImplemented Mode = "not_implemented"
	// ModeError answers with the rule's Code and Message.
	ModeError Mode = "error"
	// ModeSilent never answers.
	ModeSilent Mode = "silent"
)

// Rule is one canned answer.
type Rule struct {
	Method entity.HostMethod
	// Handler restricts an onCallJsHandler rule to one handler name.
	Handler string
	Mode    Mode
	Value   json.RawMessage
	Code    string
	Message string
	Delay   time.Duration
}

// HandlerFunc answers a named handler call with a JSON value.
type HandlerFunc func(ctx context.Context, args string) (json.RawMessage, error)

// Call is a recorded InvokeMethod.
type Call struct {
	Method entity.HostMethod
	Args   any
	Mode   Mode
}

// Notification is a recorded Notify.
type Notification struct {
	Method entity.HostMethod
	Args   any
}

// Scripted is a port.HostChannel answering from rules. Answers are posted
// onto the main loop, never delivered inside InvokeMethod.
type Scripted struct {
	name     string
	poster   port.Poster
	rules    []Rule
	handlers map[string]HandlerFunc
	fallback Mode

	calls         []Call
	notifications []Notification
}

// Option configures a Scripted host.
type Option func(*Scripted)

// WithRules appends rules. The first matching rule wins.
func WithRules(rules ...Rule) Option {
	return func(s *Scripted) { s.rules = append(s.rules, rules...) }
}

// WithHandler answers handler calls for name with fn.
func WithHandler(name string, fn HandlerFunc) Option {
	return func(s *Scripted) { s.handlers[name] = fn }
}

// WithFallback sets the answer for methods no rule matches.
func WithFallback(mode Mode) Option {
	return func(s *Scripted) { s.fallback = mode }
}

// NewScripted creates a host. Unmatched methods answer NotImplemented.
func NewScripted(name string, poster port.Poster, opts ...Option) *Scripted {
	s := &Scripted{
		name:     name,
		poster:   poster,
		handlers: make(map[string]HandlerFunc),
		fallback: ModeNotImplemented,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Echo is a HandlerFunc returning its arguments.
func Echo(_ context.Context, args string) (json.RawMessage, error) {
	if args == "" {
		return json.RawMessage("null"), nil
	}
	if !json.Valid([]byte(args)) {
		return nil, errors.New("arguments are not JSON")
	}
	return json.RawMessage(args), nil
}

// InvokeMethod implements port.HostChannel.
func (s *Scripted) InvokeMethod(ctx context.Context, method entity.HostMethod, args any, result port.HostResult) {
	log := logging.FromContext(ctx).With().Str("host", s.name).Str("method", string(method)).Logger()

	if method == entity.MethodCallHandler {
		if call, ok := args.(entity.CallHandlerArgs); ok {
			if fn, found := s.handlers[call.HandlerName]; found {
				s.calls = append(s.calls, Call{Method: method, Args: args, Mode: ModeValue})
				log.Debug().Str("handler", call.HandlerName).Msg("answering handler call")
				s.post(0, func() {
					value, err := fn(ctx, call.Args)
					if err != nil {
						result.Error("HANDLER_ERROR", err.Error(), nil)
						return
					}
					result.Success(value)
				})
				return
			}
		}
	}

	rule := s.match(method, args)
	s.calls = append(s.calls, Call{Method: method, Args: args, Mode: rule.Mode})
	log.Debug().Str("mode", string(rule.Mode)).Dur("delay", rule.Delay).Msg("answering host method")

	switch rule.Mode {
	case ModeSilent:
		return
	case ModeValue:
		value := rule.Value
		s.post(rule.Delay, func() { result.Success(value) })
	case ModeError:
		s.post(rule.Delay, func() { result.Error(rule.Code, rule.Message, nil) })
	default:
		s.post(rule.Delay, result.NotImplemented)
	}
}

// Notify implements port.HostChannel.
func (s *Scripted) Notify(ctx context.Context, method entity.HostMethod, args any) {
	s.notifications = append(s.notifications, Notification{Method: method, Args: args})
	logging.FromContext(ctx).Debug().
		Str("host", s.name).
		Str("method", string(method)).
		Msg("host notified")
}

// Calls returns the recorded invocations.
func (s *Scripted) Calls() []Call {
	return append([]Call(nil), s.calls...)
}

// Notifications returns the recorded notifications.
func (s *Scripted) Notifications() []Notification {
	return append([]Notification(nil), s.notifications...)
}

func (s *Scripted) match(method entity.HostMethod, args any) Rule {
	for _, r := range s.rules {
		if r.Method != method {
			continue
		}
		if r.Handler != "" {
			call, ok := args.(entity.CallHandlerArgs)
			if !ok || call.HandlerName != r.Handler {
				continue
			}
		}
		if r.Mode == "" {
			r.Mode = ModeValue
		}
		return r
	}
	return Rule{Method: method, Mode: s.fallback}
}

func (s *Scripted) post(delay time.Duration, fn func()) {
	if delay <= 0 {
		s.poster.Post(fn)
		return
	}
	if sched, ok := s.poster.(port.Scheduler); ok {
		// A closed loop drops the answer like any other late post.
		_ = sched.PostAfter(delay, fn)
		return
	}
	time.AfterFunc(delay, func() { s.poster.Post(fn) })
}
