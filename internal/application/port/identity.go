package port

import (
	"context"
	"crypto/tls"
)

// IdentityLoader reads a TLS client identity from a key store. It may block
// and is called from a background worker.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, path, password, storeType string) (*tls.Certificate, error)
}
