package port

import (
	"context"
	"encoding/json"

	"github.com/bnema/webbridge/internal/domain/entity"
)

// HostResult receives the answer to one host round trip. Exactly one method
// is expected, on the main sequential context; implementations tolerate more.
type HostResult interface {
	Success(raw json.RawMessage)
	NotImplemented()
	Error(code, message string, details any)
}

// HostChannel is the ordered, asynchronous pipe from one renderer to the host.
type HostChannel interface {
	// InvokeMethod sends a request. The reply is delivered to result on the main
	// sequential context, possibly never.
	InvokeMethod(ctx context.Context, method entity.HostMethod, args any, result HostResult)

	// Notify sends a fire-and-forget event.
	Notify(ctx context.Context, method entity.HostMethod, args any)
}
