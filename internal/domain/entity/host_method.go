package entity

// HostMethod names one kind of host round trip or notification.
type HostMethod string

const (
	MethodCreateWindow             HostMethod = "onCreateWindow"
	MethodCloseWindow              HostMethod = "onCloseWindow"
	MethodPermissionRequest        HostMethod = "onPermissionRequest"
	MethodShouldOverrideURLLoading HostMethod = "shouldOverrideUrlLoading"
	MethodHTTPAuthRequest          HostMethod = "onReceivedHttpAuthRequest"
	MethodClientCertRequest        HostMethod = "onReceivedClientCertRequest"
	MethodDownloadStarting         HostMethod = "onDownloadStarting"
	MethodJSAlert                  HostMethod = "onJsAlert"
	MethodJSConfirm                HostMethod = "onJsConfirm"
	MethodJSPrompt                 HostMethod = "onJsPrompt"
	MethodPrintRequest             HostMethod = "onPrintRequest"
	MethodCallHandler              HostMethod = "onCallJsHandler"
	MethodConsoleMessage           HostMethod = "onConsoleMessage"
	MethodPortMessage              HostMethod = "onWebMessagePortMessageReceived"
	MethodListenerMessage          HostMethod = "onWebMessageListenerPostMessageReceived"
)

// NavigationRequest is a request the renderer can load.
type NavigationRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty"`
}

// WindowFeatures are the features script asked for in window.open.
type WindowFeatures struct {
	X                *int  `json:"x,omitempty"`
	Y                *int  `json:"y,omitempty"`
	Width            *int  `json:"width,omitempty"`
	Height           *int  `json:"height,omitempty"`
	MenuBarVisible   *bool `json:"menuBarVisibility,omitempty"`
	StatusBarVisible *bool `json:"statusBarVisibility,omitempty"`
	ToolbarsVisible  *bool `json:"toolbarsVisibility,omitempty"`
	AllowsResizing   *bool `json:"allowsResizing,omitempty"`
}

// CreateWindowAction is the window-creation record handed to the host.
type CreateWindowAction struct {
	WindowID       WindowID          `json:"windowId"`
	Request        NavigationRequest `json:"request"`
	IsForMainFrame bool              `json:"isForMainFrame"`
	HasGesture     bool              `json:"hasGesture"`
	IsDialog       *bool             `json:"isDialog,omitempty"`
	Features       *WindowFeatures   `json:"windowFeatures,omitempty"`
}

// NavigationAction describes a navigation awaiting a policy decision.
type NavigationAction struct {
	Request        NavigationRequest `json:"request"`
	IsForMainFrame bool              `json:"isForMainFrame"`
	HasGesture     bool              `json:"hasGesture"`
	IsRedirect     bool              `json:"isRedirect"`
	NavigationType string            `json:"navigationType,omitempty"`
}

// ProtectionSpace identifies the server side of an authentication challenge.
type ProtectionSpace struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	Realm    string `json:"realm,omitempty"`
}

// HTTPAuthChallenge is a basic/digest authentication challenge.
type HTTPAuthChallenge struct {
	ProtectionSpace      ProtectionSpace `json:"protectionSpace"`
	PreviousFailureCount int             `json:"previousFailureCount"`
}

// ClientCertChallenge asks the host for a TLS client identity.
type ClientCertChallenge struct {
	ProtectionSpace ProtectionSpace `json:"protectionSpace"`
}

// DownloadStartRequest describes a response the renderer would turn into a download.
type DownloadStartRequest struct {
	URL               string `json:"url"`
	SuggestedFilename string `json:"suggestedFilename,omitempty"`
	MimeType          string `json:"mimeType,omitempty"`
	ContentLength     int64  `json:"contentLength"`
}

// JSDialogRequest is the payload of alert, confirm and prompt events.
type JSDialogRequest struct {
	URL          string `json:"url"`
	Message      string `json:"message"`
	DefaultValue string `json:"defaultValue,omitempty"`
	IsMainFrame  bool   `json:"isMainFrame"`
}

// PrintRequest is raised by the reserved print handler.
type PrintRequest struct {
	URL string `json:"url"`
}

// CallHandlerArgs is the payload of a named handler invocation.
type CallHandlerArgs struct {
	HandlerName string `json:"handlerName"`
	Args        string `json:"args"`
}

// ConsoleNotification forwards a script console message.
type ConsoleNotification struct {
	Level   ConsoleLevel `json:"messageLevel"`
	Message string       `json:"message"`
}

// PortMessageNotification forwards a message received on a started port.
type PortMessageNotification struct {
	ChannelID string  `json:"webMessageChannelId"`
	Index     int     `json:"index"`
	Message   *string `json:"message"`
}

// ListenerMessageNotification forwards a message posted to a web message listener.
type ListenerMessageNotification struct {
	JSObjectName string  `json:"jsObjectName"`
	Message      *string `json:"message"`
	SourceOrigin string  `json:"sourceOrigin"`
	IsMainFrame  bool    `json:"isMainFrame"`
}

// CloseWindowNotification tells the host a child window went away.
type CloseWindowNotification struct {
	WindowID WindowID `json:"windowId"`
}
