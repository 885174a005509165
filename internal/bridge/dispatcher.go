package bridge

import (
	"context"
	"encoding/json"

	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/logging"
)

// OnScriptMessage is the single entry point for messages from the script
// realm. Messages naming a live child window are handled by that child's
// bridge. Unknown kinds and malformed bodies are logged and dropped.
func (b *Bridge) OnScriptMessage(ctx context.Context, msg entity.ScriptMessage) {
	log := logging.FromContext(b.logContext(ctx))

	if b.disposed {
		log.Debug().Str("kind", string(msg.Kind)).Msg("dropping script message for disposed renderer")
		return
	}

	var envelope entity.MessageEnvelope
	if len(msg.Body) > 0 {
		if err := json.Unmarshal(msg.Body, &envelope); err != nil {
			log.Warn().Err(err).Str("kind", string(msg.Kind)).Msg("failed to unmarshal script message body")
			return
		}
	}

	target := b.group.route(b, envelope.WindowID)
	ctx = target.logContext(ctx)
	log = logging.FromContext(ctx)

	log.Debug().
		Str("kind", string(msg.Kind)).
		Str("world", string(msg.World)).
		Int("body_len", len(msg.Body)).
		Msg("received script message")

	switch msg.Kind {
	case entity.KindConsole:
		var body entity.ConsoleBody
		if decode(ctx, msg, &body) {
			target.forwardConsole(ctx, body)
		}

	case entity.KindCallHandler:
		var body entity.CallHandlerBody
		if !decode(ctx, msg, &body) {
			return
		}
		err := target.handlers.Invoke(ctx, entity.HandlerCall{
			Name:   body.HandlerName,
			CallID: body.CallID,
			Args:   body.Args,
			World:  msg.World,
		})
		if err != nil {
			log.Warn().Err(err).Msg("handler call rejected")
		}

	case entity.KindEvaluateResult:
		var body entity.EvaluateResultBody
		if decode(ctx, msg, &body) {
			target.deliverResult(ctx, body)
		}

	case entity.KindPortMessage:
		var body entity.PortMessageBody
		if decode(ctx, msg, &body) {
			target.channels.DeliverPortMessage(ctx, body)
		}

	case entity.KindListenerPostMessage:
		var body entity.ListenerPostMessageBody
		if decode(ctx, msg, &body) {
			target.channels.DeliverListenerMessage(ctx, body, msg.Origin, msg.IsMainFrame)
		}

	default:
		log.Warn().Str("kind", string(msg.Kind)).Msg("unknown script message kind")
	}
}

func (b *Bridge) forwardConsole(ctx context.Context, body entity.ConsoleBody) {
	level := entity.ParseConsoleLevel(body.Level)
	logging.FromContext(ctx).Debug().
		Stringer("level", level).
		Str("message", body.Message).
		Msg("script console")

	if b.host != nil {
		b.host.Notify(ctx, entity.MethodConsoleMessage, entity.ConsoleNotification{
			Level:   level,
			Message: body.Message,
		})
	}
}

func decode(ctx context.Context, msg entity.ScriptMessage, v any) bool {
	if err := json.Unmarshal(msg.Body, v); err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("kind", string(msg.Kind)).
			Msg("malformed script message body")
		return false
	}
	return true
}
