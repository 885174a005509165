package entity

// PortState is the lifecycle state of a message port.
type PortState int

const (
	PortIdle PortState = iota
	PortStarted
	PortClosed
	PortTransferred
)

func (s PortState) String() string {
	switch s {
	case PortStarted:
		return "started"
	case PortClosed:
		return "closed"
	case PortTransferred:
		return "transferred"
	default:
		return "idle"
	}
}

// IsTerminal reports whether the port can no longer be used.
func (s PortState) IsTerminal() bool {
	return s == PortClosed || s == PortTransferred
}

// PortRef addresses one port of a channel.
type PortRef struct {
	ChannelID string `json:"webMessageChannelId"`
	Index     int    `json:"index"`
}

// MessagePort is one endpoint of a MessageChannel.
type MessagePort struct {
	ChannelID string
	Index     int
	State     PortState
}

// Ref returns the port's address.
func (p *MessagePort) Ref() PortRef {
	return PortRef{ChannelID: p.ChannelID, Index: p.Index}
}

// CheckTransferable fails if the port cannot be moved into another realm.
func (p *MessagePort) CheckTransferable() error {
	switch {
	case p.State == PortStarted:
		return &PortStateError{Reason: PortAlreadyStarted, ChannelID: p.ChannelID, Index: p.Index}
	case p.State.IsTerminal():
		return &PortStateError{Reason: PortAlreadyClosedOrTransferred, ChannelID: p.ChannelID, Index: p.Index}
	}
	return nil
}

// CheckUsable fails if the port is closed or transferred.
func (p *MessagePort) CheckUsable() error {
	if p.State.IsTerminal() {
		return &PortStateError{Reason: PortAlreadyClosedOrTransferred, ChannelID: p.ChannelID, Index: p.Index}
	}
	return nil
}

// MessageChannel is a pair of entangled ports.
type MessageChannel struct {
	ID    string
	Ports [2]*MessagePort
}

// NewMessageChannel returns a channel with two idle ports.
func NewMessageChannel(id string) *MessageChannel {
	return &MessageChannel{
		ID: id,
		Ports: [2]*MessagePort{
			{ChannelID: id, Index: 0, State: PortIdle},
			{ChannelID: id, Index: 1, State: PortIdle},
		},
	}
}

// Port returns the port at index, or nil.
func (c *MessageChannel) Port(index int) *MessagePort {
	if index < 0 || index > 1 {
		return nil
	}
	return c.Ports[index]
}

// WebMessage is a payload posted into a realm. It is single use.
type WebMessage struct {
	Data     *string
	Ports    []PortRef
	disposed bool
}

// NewWebMessage builds a string message transferring the given ports.
func NewWebMessage(data string, ports ...PortRef) *WebMessage {
	return &WebMessage{Data: &data, Ports: ports}
}

// Dispose releases the payload. A disposed message cannot be posted again.
func (m *WebMessage) Dispose() {
	m.Data = nil
	m.Ports = nil
	m.disposed = true
}

// Disposed reports whether the message was already posted.
func (m *WebMessage) Disposed() bool {
	return m.disposed
}
