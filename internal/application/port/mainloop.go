package port

import "time"

// Poster schedules work on the main sequential context. Post is safe to call
// from any goroutine; posted functions run in FIFO order.
type Poster interface {
	Post(fn func())
}

// Scheduler is a Poster that can also delay work.
type Scheduler interface {
	Poster

	// PostAfter runs fn on the main context once delay has passed.
	PostAfter(delay time.Duration, fn func()) error
}
