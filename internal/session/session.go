package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID synthesizes a fresh cart session id from the current time and a
// random suffix: cart_<unix-millis>_<6 base36 chars>. The combination gives
// enough entropy that independent installations do not collide.
func NewID() string {
	return fmt.Sprintf("cart_%d_%s", time.Now().UnixMilli(), randSuffix(6))
}

func randSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble; a
		// time-derived suffix still yields a usable id.
		nano := time.Now().UnixNano()
		for i := range buf {
			buf[i] = base36[nano%36]
			nano /= 36
		}
		return string(buf)
	}
	for i := range buf {
		buf[i] = base36[int(buf[i])%len(base36)]
	}
	return string(buf)
}

// Manager owns the anonymous cart session identifier. The id identifies a
// shopper's cart before and independent of login; it is created lazily on
// first need and never regenerated for the lifetime of the persisted store.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	cached string
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Ensure returns the session id, creating and persisting one on first call.
// Repeated calls always return the same value. Ensure never fails: when the
// store is unavailable it falls back to an in-memory id that lives for the
// rest of the process.
func (m *Manager) Ensure(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != "" {
		return m.cached
	}

	id, err := m.store.Get(ctx)
	if err == nil && id != "" {
		m.cached = id
		return id
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		m.logger.WarnContext(ctx, "session store read failed, continuing with in-memory session id",
			slog.String("error", err.Error()),
		)
	}

	id = NewID()
	if err := m.store.Set(ctx, id); err != nil {
		m.logger.WarnContext(ctx, "session store write failed, session id will not survive restart",
			slog.String("error", err.Error()),
		)
	}

	m.cached = id
	return id
}
