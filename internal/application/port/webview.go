// Package port defines application-layer interfaces for external capabilities.
// Ports abstract the renderer engine and the host application so the bridge
// stays independent of any specific platform.
package port

import (
	"context"

	"github.com/bnema/webbridge/internal/domain/entity"
)

// Renderer is the part of a renderer instance the bridge drives.
// All methods are called on the main sequential context.
type Renderer interface {
	ID() entity.RendererID

	// EvaluateJavascript runs source in the given content world.
	EvaluateJavascript(ctx context.Context, source string, world entity.ContentWorld) error

	// LoadRequest navigates the renderer.
	LoadRequest(ctx context.Context, req entity.NavigationRequest) error
}

// ScriptMessageHandler receives script messages on the main context.
type ScriptMessageHandler func(ctx context.Context, msg entity.ScriptMessage)

// ScriptRealm is implemented by renderers that let the bridge configure their
// script realm: the bridge installs its scripts there and receives the realm's
// messages. Installed scripts survive navigation and are not inherited by
// child renderers; every child's bridge installs its own.
type ScriptRealm interface {
	InstallScript(ctx context.Context, source string, world entity.ContentWorld) error
	SetMessageHandler(h ScriptMessageHandler)
}

// RendererFactory creates child renderers for popups.
type RendererFactory interface {
	// NewChild creates a renderer that shares parent's script-realm configuration,
	// together with the host channel its events go to.
	NewChild(ctx context.Context, parent Renderer, windowID entity.WindowID) (Renderer, HostChannel, error)
}

// Printer is implemented by renderers with a built-in print flow.
type Printer interface {
	PrintDefault(ctx context.Context) error
}

// DialogKind names a script dialog.
type DialogKind string

const (
	DialogAlert   DialogKind = "alert"
	DialogConfirm DialogKind = "confirm"
	DialogPrompt  DialogKind = "prompt"
)

// DefaultDialogRunner is implemented by renderers that can show their own
// platform dialogs when the host does not.
type DefaultDialogRunner interface {
	RunDefaultDialog(ctx context.Context, kind DialogKind, req entity.JSDialogRequest, done func(entity.JSDialogResult))
}

// Disposer is implemented by renderers that release resources when the bridge drops them.
type Disposer interface {
	Dispose(ctx context.Context)
}
