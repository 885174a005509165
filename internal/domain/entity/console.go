package entity

import "strings"

// ConsoleLevel is the normalized severity of a script console message.
// Values are ordered: debug < log < warning < error.
type ConsoleLevel int

const (
	ConsoleDebug ConsoleLevel = iota
	ConsoleLog
	ConsoleWarning
	ConsoleError
)

func (l ConsoleLevel) String() string {
	switch l {
	case ConsoleDebug:
		return "debug"
	case ConsoleWarning:
		return "warning"
	case ConsoleError:
		return "error"
	default:
		return "log"
	}
}

// ParseConsoleLevel maps a script-side console label to a level.
// Unknown labels are treated as log.
func ParseConsoleLevel(label string) ConsoleLevel {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "debug", "trace":
		return ConsoleDebug
	case "warn", "warning":
		return ConsoleWarning
	case "error", "assert":
		return ConsoleError
	default:
		return ConsoleLog
	}
}
