package entity

import "encoding/json"

// MessageKind discriminates inbound script messages.
type MessageKind string

const (
	KindConsole             MessageKind = "console"
	KindCallHandler         MessageKind = "callHandler"
	KindEvaluateResult      MessageKind = "evaluateResult"
	KindPortMessage         MessageKind = "portMessage"
	KindListenerPostMessage MessageKind = "listenerPostMessage"
)

// ScriptMessage is one message from a script realm. Origin and IsMainFrame are
// filled in by the renderer from the sending frame, never from the body.
type ScriptMessage struct {
	Kind        MessageKind
	Body        json.RawMessage
	World       ContentWorld
	Origin      string
	IsMainFrame bool
}

// MessageEnvelope holds the fields every body may carry.
type MessageEnvelope struct {
	WindowID *WindowID `json:"_windowId,omitempty"`
}

// ConsoleBody is the body of KindConsole.
type ConsoleBody struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// CallHandlerBody is the body of KindCallHandler.
type CallHandlerBody struct {
	HandlerName string `json:"handlerName"`
	CallID      int64  `json:"_callHandlerID"`
	Args        string `json:"args"`
}

// EvaluateResultBody is the body of KindEvaluateResult.
type EvaluateResultBody struct {
	ResultUUID string          `json:"resultUuid"`
	Value      json.RawMessage `json:"value"`
	Error      *string         `json:"error,omitempty"`
}

// PortMessageBody is the body of KindPortMessage.
type PortMessageBody struct {
	ChannelID string  `json:"webMessageChannelId"`
	Index     int     `json:"index"`
	Message   *string `json:"message"`
}

// ListenerPostMessageBody is the body of KindListenerPostMessage.
type ListenerPostMessageBody struct {
	JSObjectName string  `json:"jsObjectName"`
	Message      *string `json:"message"`
}

// HandlerCall is a script request to invoke a named host handler.
type HandlerCall struct {
	Name   string
	CallID int64
	Args   string
	World  ContentWorld
}
