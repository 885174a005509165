package entity

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
)

// Host responses are tagged variants: an Action field selects what the renderer
// does, and a nil Action means the host had no opinion. Decoders never fail on a
// null body; they return nil so the caller can take the null path.

// PermissionResponseAction selects how a permission request is answered.
type PermissionResponseAction int

const (
	PermissionDeny PermissionResponseAction = iota
	PermissionGrant
	PermissionPrompt
)

// PermissionResponse answers MethodPermissionRequest.
type PermissionResponse struct {
	Resources []PermissionResource      `json:"resources"`
	Action    *PermissionResponseAction `json:"action"`
}

// NavigationActionPolicy answers MethodShouldOverrideURLLoading.
type NavigationActionPolicy int

const (
	NavigationCancel NavigationActionPolicy = iota
	NavigationAllow
	NavigationDownload
)

// HTTPAuthResponseAction selects how an HTTP auth challenge is answered.
type HTTPAuthResponseAction int

const (
	HTTPAuthCancel HTTPAuthResponseAction = iota
	HTTPAuthProceed
	HTTPAuthRejectProtectionSpace
	HTTPAuthUseSavedCredentials
)

// HTTPAuthResponse answers MethodHTTPAuthRequest.
type HTTPAuthResponse struct {
	Username  string                  `json:"username"`
	Password  string                  `json:"password"`
	Permanent bool                    `json:"permanentPersistence"`
	Action    *HTTPAuthResponseAction `json:"action"`
}

// ClientCertResponseAction selects how a client certificate challenge is answered.
type ClientCertResponseAction int

const (
	ClientCertCancel ClientCertResponseAction = iota
	ClientCertProceed
	ClientCertIgnore
)

// ClientCertResponse answers MethodClientCertRequest.
type ClientCertResponse struct {
	CertificatePath     string                    `json:"certificatePath"`
	CertificatePassword string                    `json:"certificatePassword"`
	KeyStoreType        string                    `json:"keyStoreType,omitempty"`
	Action              *ClientCertResponseAction `json:"action"`
}

// ClientCertDecision is what the renderer applies to a client certificate
// challenge. Certificate is set only for ClientCertProceed.
type ClientCertDecision struct {
	Action      ClientCertResponseAction
	Certificate *tls.Certificate
}

// DownloadStartAction selects what happens to a download.
type DownloadStartAction int

const (
	DownloadCancel DownloadStartAction = iota
	DownloadAllow
)

// DownloadStartResponse answers MethodDownloadStarting.
type DownloadStartResponse struct {
	DestinationPath string               `json:"destinationPath,omitempty"`
	Action          *DownloadStartAction `json:"action"`
}

// JSDialogAction selects the button a script dialog resolves with.
type JSDialogAction int

const (
	JSDialogConfirm JSDialogAction = iota
	JSDialogCancel
)

// JSDialogResponse answers alert, confirm and prompt events. HandledByClient
// means the host showed its own UI and the renderer must not show one.
type JSDialogResponse struct {
	Message            string          `json:"message,omitempty"`
	DefaultValue       string          `json:"defaultValue,omitempty"`
	ConfirmButtonTitle string          `json:"confirmButtonTitle,omitempty"`
	CancelButtonTitle  string          `json:"cancelButtonTitle,omitempty"`
	Value              *string         `json:"value,omitempty"`
	HandledByClient    bool            `json:"handledByClient"`
	Action             *JSDialogAction `json:"action"`
}

// JSDialogResult is what the renderer resolves a script dialog with.
type JSDialogResult struct {
	Confirmed bool
	Value     *string
}

// IsNullResponse reports whether raw carries no value at all.
func IsNullResponse(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// DecodeResponse decodes a host answer into T. A null or empty answer yields
// (nil, nil); a malformed one yields a *DecodeError.
func DecodeResponse[T any](method HostMethod, raw json.RawMessage) (*T, error) {
	if IsNullResponse(raw) {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &DecodeError{Method: method, Err: err}
	}
	return &v, nil
}

// ResponseDecoder binds DecodeResponse to a method.
func ResponseDecoder[T any](method HostMethod) func(json.RawMessage) (*T, error) {
	return func(raw json.RawMessage) (*T, error) {
		return DecodeResponse[T](method, raw)
	}
}
