package bridge

import (
	"context"
	"crypto/tls"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/bridge/coordinator"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
	"github.com/bnema/webbridge/internal/mainloop"
)

// Event sites. Each one raises a host method through a coordinator and
// resumes the renderer through its callback exactly once. When the host has
// no listener, errors or has no opinion, the documented default applies.

// RequestPermission asks the host about a permission prompt. Default: deny.
func (b *Bridge) RequestPermission(ctx context.Context, req entity.PermissionRequest, decide func(entity.PermissionDecision)) {
	ctx = b.logContext(ctx)
	deny := func() { decide(entity.PermissionDecision{Granted: false}) }
	if b.disposed {
		deny()
		return
	}

	c := coordinator.New(ctx, entity.MethodPermissionRequest,
		entity.ResponseDecoder[entity.PermissionResponse](entity.MethodPermissionRequest),
		coordinator.Callbacks[entity.PermissionResponse]{
			Handled: func(resp *entity.PermissionResponse) bool {
				if resp.Action == nil || *resp.Action == entity.PermissionPrompt {
					return true
				}
				if *resp.Action == entity.PermissionDeny {
					deny()
					return false
				}
				resources := resp.Resources
				if len(resources) == 0 {
					resources = req.Resources
				}
				logging.FromContext(ctx).Info().
					Str("origin", req.Origin).
					Strs("resources", entity.PermissionResourcesToStrings(resources)).
					Msg("permission granted by host")
				decide(entity.PermissionDecision{Granted: true, Resources: resources})
				return false
			},
			Default: deny,
		}, b.coordinatorOptions()...)

	coordinator.Send(ctx, b.host, req, c)
}

// DecideNavigationPolicy asks the host whether a navigation may proceed.
// Default: allow. For a popup that is not attached yet the request is queued
// until attachment.
func (b *Bridge) DecideNavigationPolicy(ctx context.Context, action entity.NavigationAction, decide func(entity.NavigationActionPolicy)) {
	ctx = b.logContext(ctx)
	b.runOrDefer(func() {
		if b.disposed {
			decide(entity.NavigationAllow)
			return
		}
		c := coordinator.New(ctx, entity.MethodShouldOverrideURLLoading,
			entity.ResponseDecoder[entity.NavigationActionPolicy](entity.MethodShouldOverrideURLLoading),
			coordinator.Callbacks[entity.NavigationActionPolicy]{
				Handled: func(policy *entity.NavigationActionPolicy) bool {
					switch *policy {
					case entity.NavigationCancel, entity.NavigationAllow, entity.NavigationDownload:
						decide(*policy)
						return false
					default:
						return true
					}
				},
				Default: func() { decide(entity.NavigationAllow) },
			}, b.coordinatorOptions()...)

		coordinator.Send(ctx, b.host, action, c)
	})
}

// ReceiveHTTPAuthChallenge asks the host for credentials. decide receives nil
// for the renderer's default handling. Queued like navigation for popups.
func (b *Bridge) ReceiveHTTPAuthChallenge(ctx context.Context, challenge entity.HTTPAuthChallenge, decide func(*entity.HTTPAuthResponse)) {
	ctx = b.logContext(ctx)
	b.runOrDefer(func() {
		if b.disposed {
			decide(nil)
			return
		}
		c := coordinator.New(ctx, entity.MethodHTTPAuthRequest,
			entity.ResponseDecoder[entity.HTTPAuthResponse](entity.MethodHTTPAuthRequest),
			coordinator.Callbacks[entity.HTTPAuthResponse]{
				Handled: func(resp *entity.HTTPAuthResponse) bool {
					if resp.Action == nil {
						return true
					}
					decide(resp)
					return false
				},
				Default: func() { decide(nil) },
			}, b.coordinatorOptions()...)

		coordinator.Send(ctx, b.host, challenge, c)
	})
}

// ReceiveClientCertChallenge asks the host for a TLS client identity.
// Default: cancel. A proceed answer names a key store that is parsed in the
// background; the decision is delivered back on the main context.
func (b *Bridge) ReceiveClientCertChallenge(ctx context.Context, challenge entity.ClientCertChallenge, decide func(entity.ClientCertDecision)) {
	ctx = b.logContext(ctx)
	cancel := func() { decide(entity.ClientCertDecision{Action: entity.ClientCertCancel}) }
	b.runOrDefer(func() {
		if b.disposed {
			cancel()
			return
		}
		c := coordinator.New(ctx, entity.MethodClientCertRequest,
			entity.ResponseDecoder[entity.ClientCertResponse](entity.MethodClientCertRequest),
			coordinator.Callbacks[entity.ClientCertResponse]{
				Handled: func(resp *entity.ClientCertResponse) bool {
					if resp.Action == nil {
						return true
					}
					switch *resp.Action {
					case entity.ClientCertProceed:
						b.loadIdentity(ctx, *resp, decide)
					case entity.ClientCertIgnore:
						decide(entity.ClientCertDecision{Action: entity.ClientCertIgnore})
					default:
						cancel()
					}
					return false
				},
				Default: cancel,
			}, b.coordinatorOptions()...)

		coordinator.Send(ctx, b.host, challenge, c)
	})
}

func (b *Bridge) loadIdentity(ctx context.Context, resp entity.ClientCertResponse, decide func(entity.ClientCertDecision)) {
	log := logging.FromContext(ctx)
	loader := b.group.identities
	if loader == nil {
		log.Warn().Msg("client certificate requested but no identity loader configured")
		decide(entity.ClientCertDecision{Action: entity.ClientCertCancel})
		return
	}

	done := func(cert *tls.Certificate, err error) {
		if !b.alive() {
			log.Debug().Msg("renderer disposed while identity was loading")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("path", resp.CertificatePath).Msg("failed to load client identity")
			decide(entity.ClientCertDecision{Action: entity.ClientCertCancel})
			return
		}
		decide(entity.ClientCertDecision{Action: entity.ClientCertProceed, Certificate: cert})
	}
	job := func(ctx context.Context) (*tls.Certificate, error) {
		return loader.LoadIdentity(ctx, resp.CertificatePath, resp.CertificatePassword, resp.KeyStoreType)
	}

	if b.group.worker == nil {
		done(job(ctx))
		return
	}
	mainloop.Submit(b.group.worker, job, done)
}

// StartDownload asks the host whether a download may start. Default: allow.
func (b *Bridge) StartDownload(ctx context.Context, req entity.DownloadStartRequest, decide func(entity.DownloadStartAction, string)) {
	ctx = b.logContext(ctx)
	allow := func() { decide(entity.DownloadAllow, "") }
	if b.disposed {
		allow()
		return
	}

	c := coordinator.New(ctx, entity.MethodDownloadStarting,
		entity.ResponseDecoder[entity.DownloadStartResponse](entity.MethodDownloadStarting),
		coordinator.Callbacks[entity.DownloadStartResponse]{
			Handled: func(resp *entity.DownloadStartResponse) bool {
				if resp.Action == nil {
					return true
				}
				decide(*resp.Action, resp.DestinationPath)
				return false
			},
			Default: allow,
		}, b.coordinatorOptions()...)

	coordinator.Send(ctx, b.host, req, c)
}

// RunJavaScriptAlert raises onJsAlert. Default: the renderer's own dialog.
func (b *Bridge) RunJavaScriptAlert(ctx context.Context, req entity.JSDialogRequest, done func(entity.JSDialogResult)) {
	b.runDialog(ctx, port.DialogAlert, entity.MethodJSAlert, req, done)
}

// RunJavaScriptConfirm raises onJsConfirm. Default: the renderer's own dialog.
func (b *Bridge) RunJavaScriptConfirm(ctx context.Context, req entity.JSDialogRequest, done func(entity.JSDialogResult)) {
	b.runDialog(ctx, port.DialogConfirm, entity.MethodJSConfirm, req, done)
}

// RunJavaScriptPrompt raises onJsPrompt. Default: the renderer's own dialog.
func (b *Bridge) RunJavaScriptPrompt(ctx context.Context, req entity.JSDialogRequest, done func(entity.JSDialogResult)) {
	b.runDialog(ctx, port.DialogPrompt, entity.MethodJSPrompt, req, done)
}

func (b *Bridge) runDialog(ctx context.Context, kind port.DialogKind, method entity.HostMethod, req entity.JSDialogRequest, done func(entity.JSDialogResult)) {
	ctx = b.logContext(ctx)
	fallback := func() { b.defaultDialog(ctx, kind, req, done) }
	if b.disposed {
		done(dismissed(kind))
		return
	}

	c := coordinator.New(ctx, method,
		entity.ResponseDecoder[entity.JSDialogResponse](method),
		coordinator.Callbacks[entity.JSDialogResponse]{
			Handled: func(resp *entity.JSDialogResponse) bool {
				if !resp.HandledByClient {
					return true
				}
				if resp.Action != nil && *resp.Action == entity.JSDialogConfirm {
					done(entity.JSDialogResult{Confirmed: true, Value: resp.Value})
					return false
				}
				done(entity.JSDialogResult{Confirmed: kind == port.DialogAlert})
				return false
			},
			Default: fallback,
		}, b.coordinatorOptions()...)

	coordinator.Send(ctx, b.host, req, c)
}

func (b *Bridge) defaultDialog(ctx context.Context, kind port.DialogKind, req entity.JSDialogRequest, done func(entity.JSDialogResult)) {
	if runner, ok := b.renderer.(port.DefaultDialogRunner); ok {
		runner.RunDefaultDialog(ctx, kind, req, done)
		return
	}
	done(dismissed(kind))
}

// dismissed is the result of a dialog nobody could show.
func dismissed(kind port.DialogKind) entity.JSDialogResult {
	return entity.JSDialogResult{Confirmed: kind == port.DialogAlert}
}

func (b *Bridge) runOrDefer(fn func()) {
	if b.windowID == 0 {
		fn()
		return
	}
	b.group.windows.RunOrDefer(b.windowID, fn)
}
