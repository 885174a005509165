package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateListenerName is returned when a web message listener name is already registered.
	ErrDuplicateListenerName = errors.New("web message listener name already registered")

	// ErrDuplicateCallID is returned when a handler call id collides with a pending call.
	ErrDuplicateCallID = errors.New("handler call id already pending")

	// ErrRendererDisposed is returned by operations on a disposed bridge.
	ErrRendererDisposed = errors.New("renderer disposed")

	// ErrListenerNotFound is returned when no web message listener has the given name.
	ErrListenerNotFound = errors.New("web message listener not found")

	// ErrWindowNotFound is returned for operations on an unknown or removed window transport.
	ErrWindowNotFound = errors.New("window transport not found")

	// ErrChannelNotFound is returned for operations on an unknown message channel.
	ErrChannelNotFound = errors.New("message channel not found")

	// ErrPayloadDisposed is returned when a web message is reused after being posted.
	ErrPayloadDisposed = errors.New("web message already posted")

	// ErrPortAlreadyStarted matches PortStateError values with reason PortAlreadyStarted.
	ErrPortAlreadyStarted = errors.New("port is already started")

	// ErrPortAlreadyClosedOrTransferred matches PortStateError values with reason
	// PortAlreadyClosedOrTransferred.
	ErrPortAlreadyClosedOrTransferred = errors.New("port is already closed or transferred")
)

// PortStateReason tells why a port operation was refused.
type PortStateReason int

const (
	PortAlreadyStarted PortStateReason = iota
	PortAlreadyClosedOrTransferred
)

// PortStateError is returned synchronously when a port cannot take part in an operation.
type PortStateError struct {
	Reason    PortStateReason
	ChannelID string
	Index     int
}

func (e *PortStateError) Error() string {
	return fmt.Sprintf("port %d of channel %s: %s", e.Index, e.ChannelID, e.sentinel().Error())
}

// Is lets errors.Is match the reason sentinels.
func (e *PortStateError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *PortStateError) sentinel() error {
	if e.Reason == PortAlreadyStarted {
		return ErrPortAlreadyStarted
	}
	return ErrPortAlreadyClosedOrTransferred
}

// HostTransportError reports that the host side rejected a call or its channel is gone.
type HostTransportError struct {
	Code    string
	Message string
	Details any
}

func (e *HostTransportError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// DecodeError reports a host response whose shape did not match the method's variant.
type DecodeError struct {
	Method HostMethod
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
