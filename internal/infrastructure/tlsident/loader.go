// Package tlsident loads TLS client identities from key store files.
package tlsident

import (
	"context"
	"crypto/tls"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/webbridge/internal/logging"
	"golang.org/x/crypto/pkcs12"
)

// Store types understood by Loader. An empty type means PKCS12.
const (
	StorePKCS12 = "PKCS12"
	StorePEM    = "PEM"
)

// ErrUnsupportedStore is returned for key store types Loader cannot read.
var ErrUnsupportedStore = errors.New("unsupported key store type")

// Loader implements port.IdentityLoader over files on disk.
type Loader struct {
	readFile func(string) ([]byte, error)
}

// NewLoader returns a loader reading from the local filesystem.
func NewLoader() *Loader {
	return &Loader{readFile: os.ReadFile}
}

// LoadIdentity reads the key store at path and returns its certificate and key.
func (l *Loader) LoadIdentity(ctx context.Context, path, password, storeType string) (*tls.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New("key store path is empty")
	}

	store := strings.ToUpper(strings.TrimSpace(storeType))
	if store == "" {
		store = StorePKCS12
	}

	data, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key store: %w", err)
	}

	var cert tls.Certificate
	switch store {
	case StorePKCS12, "P12", "PFX":
		cert, err = fromPKCS12(data, password)
	case StorePEM:
		cert, err = tls.X509KeyPair(data, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, storeType)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s key store %s: %w", store, path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("path", path).
		Str("store", store).
		Int("chain", len(cert.Certificate)).
		Msg("client identity loaded")
	return &cert, nil
}

func fromPKCS12(data []byte, password string) (tls.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, err
	}
	var buf []byte
	for _, b := range blocks {
		buf = append(buf, pem.EncodeToMemory(b)...)
	}
	return tls.X509KeyPair(buf, buf)
}
