// Package port defines interfaces for infrastructure adapters.
package port

import (
	"context"
	"database/sql"
)

// DatabaseProvider provides the outcome journal connection, opening it on
// first use.
type DatabaseProvider interface {
	// DB returns the connection, opening it if necessary.
	DB(ctx context.Context) (*sql.DB, error)

	// Close closes the connection if it was opened.
	Close() error

	// IsInitialized reports whether DB has opened the connection.
	IsInitialized() bool
}
