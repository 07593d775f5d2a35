package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/session/memory"
)

var idPattern = regexp.MustCompile(`^cart_\d+_[0-9a-z]{6}$`)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// brokenStore fails every operation, simulating an unavailable backend.
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context) (string, error) {
	return "", errors.New("store unavailable")
}

func (brokenStore) Set(ctx context.Context, id string) error {
	return errors.New("store unavailable")
}

func TestNewID_Shape(t *testing.T) {
	id := NewID()
	assert.Regexp(t, idPattern, id)
}

func TestNewID_CollisionResistance(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestEnsure_Idempotent(t *testing.T) {
	m := NewManager(memory.NewStore(), testLogger())
	ctx := context.Background()

	first := m.Ensure(ctx)
	require.Regexp(t, idPattern, first)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.Ensure(ctx))
	}
}

func TestEnsure_ReusesPersistedID(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Set(context.Background(), "cart_1712000000000_ab12cd"))

	m := NewManager(store, testLogger())
	assert.Equal(t, "cart_1712000000000_ab12cd", m.Ensure(context.Background()))
}

func TestEnsure_SurvivesNewManagerOnSameStore(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	first := NewManager(store, testLogger()).Ensure(ctx)
	second := NewManager(store, testLogger()).Ensure(ctx)

	assert.Equal(t, first, second)
}

func TestEnsure_FreshInstallationsDiffer(t *testing.T) {
	ctx := context.Background()

	a := NewManager(memory.NewStore(), testLogger()).Ensure(ctx)
	b := NewManager(memory.NewStore(), testLogger()).Ensure(ctx)

	assert.NotEqual(t, a, b)
}

func TestEnsure_DegradedModeOnBrokenStore(t *testing.T) {
	m := NewManager(brokenStore{}, testLogger())
	ctx := context.Background()

	id := m.Ensure(ctx)
	require.Regexp(t, idPattern, id)

	// Still idempotent for the rest of the process lifetime.
	assert.Equal(t, id, m.Ensure(ctx))
}

func TestEnsure_ConcurrentFirstCalls(t *testing.T) {
	m := NewManager(memory.NewStore(), testLogger())
	ctx := context.Background()

	ids := make(chan string, 20)
	for i := 0; i < 20; i++ {
		go func() { ids <- m.Ensure(ctx) }()
	}

	first := <-ids
	for i := 1; i < 20; i++ {
		assert.Equal(t, first, <-ids)
	}
}
