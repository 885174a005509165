// Package coordinator mediates one renderer event's round trip to the host and
// guarantees exactly one terminal action for it.
//
// A Coordinator is created by the event site with a decoder for the host's
// answer and three continuations: Handled for a decoded value, Null for an
// answer carrying nothing, and Default for the built-in fallback. The host may
// answer through Success, NotImplemented or Error; only the first answer has an
// effect. NotImplemented and Error always run Default, so a renderer never
// stays blocked because the host has no listener or failed.
package coordinator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
	"github.com/rs/zerolog"
)

// Decoder turns a raw host answer into a value. A nil value with a nil error
// means the answer carried nothing.
type Decoder[T any] func(raw json.RawMessage) (*T, error)

// Callbacks are the continuation slots of a Coordinator.
type Callbacks[T any] struct {
	// Handled receives a decoded value. Returning true also runs Default, for
	// answers whose action field says "no opinion".
	Handled func(value *T) bool

	// Null runs when the answer decoded to nothing. Returning true runs Default.
	// A nil Null always runs Default.
	Null func() bool

	// Default is the built-in behaviour. It runs at most once per Coordinator.
	Default func()

	// Error observes host and decode errors before Default runs.
	Error func(err error)
}

type settings struct {
	alive    func() bool
	recorder  port.OutcomeRecorder
	scheduler port.Scheduler
	timeout   time.Duration
	renderer  entity.RendererID
	now       func() time.Time
}

// Option configures a Coordinator.
type Option func(*settings)

// WithAlive makes answers no-ops once alive reports false. It is the
// coordinator's only link to its owner.
func WithAlive(alive func() bool) Option {
	return func(s *settings) { s.alive = alive }
}

// WithRecorder reports the terminal outcome to r.
func WithRecorder(r port.OutcomeRecorder) Option {
	return func(s *settings) { s.recorder = r }
}

// WithTimeout forces the default fallback if the host has not answered after d.
// The expiry runs on the main context through sched. Zero disables it.
func WithTimeout(sched port.Scheduler, d time.Duration) Option {
	return func(s *settings) {
		s.scheduler = sched
		s.timeout = d
	}
}

// WithRenderer tags recorded outcomes with the renderer id.
func WithRenderer(id entity.RendererID) Option {
	return func(s *settings) { s.renderer = id }
}

// WithClock overrides time.Now for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// Coordinator is one pending host round trip.
type Coordinator[T any] struct {
	ctx       context.Context
	method    entity.HostMethod
	decode    Decoder[T]
	cb        Callbacks[T]
	opts      settings
	logger    zerolog.Logger
	answered  bool
	defaulted bool
	started   time.Time
	armed     bool
}

// New creates a coordinator for method.
func New[T any](ctx context.Context, method entity.HostMethod, decode Decoder[T], cb Callbacks[T], opts ...Option) *Coordinator[T] {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	c := &Coordinator[T]{
		ctx:    ctx,
		method: method,
		decode: decode,
		cb:     cb,
		opts:   s,
		logger: logging.FromContext(ctx).With().
			Str("component", "coordinator").
			Str("method", string(method)).
			Logger(),
		started: s.now(),
	}
	return c
}

// Send starts the round trip. A nil host is treated as NotImplemented.
func Send[T any](ctx context.Context, host port.HostChannel, args any, c *Coordinator[T]) {
	if host == nil {
		c.NotImplemented()
		return
	}
	c.arm()
	host.InvokeMethod(ctx, c.method, args, c)
}

// Answered reports whether a terminal action already happened.
func (c *Coordinator[T]) Answered() bool {
	return c.answered
}

// Method returns the host method this coordinator waits on.
func (c *Coordinator[T]) Method() entity.HostMethod {
	return c.method
}

// Success delivers the host's structured answer.
func (c *Coordinator[T]) Success(raw json.RawMessage) {
	if !c.latch() {
		return
	}

	value, err := c.decode(raw)
	if err != nil {
		c.logger.Warn().Err(err).Msg("host response could not be decoded, using default")
		c.fail(err)
		return
	}

	runDefault := true
	switch {
	case value != nil && c.cb.Handled != nil:
		runDefault = c.cb.Handled(value)
	case value == nil && c.cb.Null != nil:
		runDefault = c.cb.Null()
	}

	if runDefault {
		c.runDefault()
		c.record(entity.OutcomeDefault, "")
		return
	}
	c.record(entity.OutcomeHandled, "")
}

// NotImplemented is the host's "no listener" answer.
func (c *Coordinator[T]) NotImplemented() {
	if !c.latch() {
		return
	}
	c.runDefault()
	c.record(entity.OutcomeDefault, "not implemented")
}

// Error delivers a host-side failure. It is logged and the default runs.
func (c *Coordinator[T]) Error(code, message string, details any) {
	if !c.latch() {
		return
	}
	err := &entity.HostTransportError{Code: code, Message: message, Details: details}
	c.logger.Error().Str("code", code).Str("message", message).Msg("host returned error, using default")
	c.fail(err)
}

// RunDefault applies the default without any host interaction.
func (c *Coordinator[T]) RunDefault() {
	if !c.latch() {
		return
	}
	c.runDefault()
	c.record(entity.OutcomeDefault, "no host")
}

func (c *Coordinator[T]) fail(err error) {
	if c.cb.Error != nil {
		c.cb.Error(err)
	}
	c.runDefault()
	c.record(entity.OutcomeError, err.Error())
}

// latch sets answered and reports whether the caller may act.
func (c *Coordinator[T]) latch() bool {
	if c.answered {
		c.logger.Debug().Msg("ignoring repeated host answer")
		return false
	}
	c.answered = true
	if c.opts.alive != nil && !c.opts.alive() {
		c.logger.Debug().Msg("owner disposed before host answered")
		c.record(entity.OutcomeOrphaned, "")
		return false
	}
	return true
}

func (c *Coordinator[T]) runDefault() {
	if c.defaulted || c.cb.Default == nil {
		c.defaulted = true
		return
	}
	c.defaulted = true
	c.cb.Default()
}

// arm schedules the expiry. It is never cancelled; once the host answered,
// the latch turns it into a no-op.
func (c *Coordinator[T]) arm() {
	if c.opts.timeout <= 0 || c.opts.scheduler == nil || c.armed {
		return
	}
	c.armed = true
	if err := c.opts.scheduler.PostAfter(c.opts.timeout, c.expire); err != nil {
		c.logger.Warn().Err(err).Msg("failed to arm host timeout")
	}
}

func (c *Coordinator[T]) expire() {
	if c.answered {
		return
	}
	if !c.latch() {
		return
	}
	c.logger.Warn().Dur("timeout", c.opts.timeout).Msg("host did not answer in time, using default")
	c.runDefault()
	c.record(entity.OutcomeExpired, "")
}

func (c *Coordinator[T]) record(result entity.OutcomeResult, detail string) {
	if c.opts.recorder == nil {
		return
	}
	now := c.opts.now()
	c.opts.recorder.Record(c.ctx, entity.Outcome{
		Method:     c.method,
		RendererID: c.opts.renderer,
		Result:     result,
		Detail:     detail,
		Latency:    now.Sub(c.started),
		At:         now,
	})
}
