package entity

import "time"

// OutcomeResult is the terminal path a host round trip took.
type OutcomeResult string

const (
	OutcomeHandled  OutcomeResult = "handled"
	OutcomeDefault  OutcomeResult = "default"
	OutcomeError    OutcomeResult = "error"
	OutcomeExpired  OutcomeResult = "expired"
	OutcomeOrphaned OutcomeResult = "orphaned"
)

// Outcome records how one host round trip ended.
type Outcome struct {
	ID         int64
	Method     HostMethod
	RendererID RendererID
	Result     OutcomeResult
	Detail     string
	Latency    time.Duration
	At         time.Time
}
