// Package script builds the fragments the bridge evaluates in a script realm.
// Every fragment is a self-contained statement that swallows its own errors.
package script

import (
	"encoding/json"
	"fmt"
)

// Properties of the namespace object installed by the bootstrap.
const (
	PromiseTable  = "_callHandlerPromises"
	ChannelTable  = "_webMessageChannels"
	ListenerTable = "_webMessageListeners"
	SendFunction  = "_send"
)

// Quote returns s as a JavaScript string literal. The result is safe to embed
// in an inline script.
func Quote(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(data)
}

// Literal returns v encoded as a JavaScript literal, or "null" when it cannot
// be encoded.
func Literal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

// Guard wraps body in an immediately invoked function that logs failures
// under label instead of throwing into the page.
func Guard(label, body string) string {
	return fmt.Sprintf(`(function(){try{%s}catch(e){console.error("webbridge %s failed", e);}})();`, body, label)
}

// Object returns the expression for property name of the namespace object.
func Object(namespace, name string) string {
	return fmt.Sprintf("window.%s&&window.%s.%s", namespace, namespace, name)
}
