/*
Package session owns the editing session: the workflow controller, the
line-item mutation protocol, and the persistence gateway that mirrors every
mutation to a durable key-value store.

gateway.go - Best-effort load/save over an injected KV port

PURPOSE:
  Generic load/save of keyed values. Persistence is best-effort by policy:
  absence, corruption, or an unavailable backend all degrade to the default
  value on load, and save failures are swallowed. Swallowed failures are
  logged so the policy is observable instead of silent.

KV PORT:
  The Gateway is written against the KV interface. Production uses the
  SQLite store (store/sqlite); tests and non-interactive contexts use the
  in-memory and unavailable stores (invoice/store).

KEY SPACE:
  invoice:currentStep        int
  invoice:selectedTemplate   string
  invoice:language           string
  invoice:data               serialized document, plain-triple dates

SEE ALSO:
  - invoice/store/memory.go: In-memory and unavailable implementations
  - store/sqlite/sqlite.go: Durable implementation
*/
package session

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/warp/invoice-engine/invoice"
)

// Persisted keys.
const (
	KeyStep     = "invoice:currentStep"
	KeyTemplate = "invoice:selectedTemplate"
	KeyLanguage = "invoice:language"
	KeyData     = "invoice:data"
)

// KV is the persistence port. Get reports (value, found, error); absence is
// not an error. Implementations must be safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Gateway wraps a KV with the best-effort policy and a logger for the
// swallowed outcomes.
type Gateway struct {
	kv  KV
	log *zap.Logger
}

// NewGateway creates a gateway over kv. A nil logger disables logging.
func NewGateway(kv KV, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{kv: kv, log: log}
}

// Load reads and decodes the value for key, returning def on absence,
// backend failure, or decode failure. Never returns an error: every
// failure mode degrades to the default by policy.
func Load[T any](ctx context.Context, g *Gateway, key string, def T, decode func(string) (T, error)) T {
	raw, found, err := g.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, invoice.ErrStorageUnavailable) {
			g.log.Debug("storage unavailable, using default", zap.String("key", key))
		} else {
			g.log.Warn("storage read failed, using default", zap.String("key", key), zap.Error(err))
		}
		return def
	}
	if !found {
		return def
	}
	val, err := decode(raw)
	if err != nil {
		g.log.Warn("corrupt stored value, using default",
			zap.String("key", key), zap.Error(errors.Join(invoice.ErrCorruptStoredValue, err)))
		return def
	}
	return val
}

// Save encodes and writes the value for key. Failures are swallowed and
// logged: persistence never blocks the edit path.
func Save[T any](ctx context.Context, g *Gateway, key string, val T, encode func(T) (string, error)) {
	raw, err := encode(val)
	if err != nil {
		g.log.Warn("encode for storage failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := g.kv.Put(ctx, key, raw); err != nil {
		if errors.Is(err, invoice.ErrStorageUnavailable) {
			g.log.Debug("storage unavailable, save skipped", zap.String("key", key))
		} else {
			g.log.Warn("storage write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// JSONDecode is the default deserializer for non-document values.
func JSONDecode[T any](raw string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(raw), &v)
	return v, err
}

// JSONEncode is the default serializer for non-document values.
func JSONEncode[T any](v T) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}
