package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/reactless/pkg/adapters/memory"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/persistence/middleware"
	"github.com/aretw0/reactless/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, next ports.SnapshotStore, cfg middleware.EncryptionConfig) ports.SnapshotStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func secretTree() *domain.Snapshot {
	return &domain.Snapshot{
		Tag:   "form",
		Attrs: map[string]string{"id": "login"},
		Children: []domain.Snapshot{
			{Tag: "input", Attrs: map[string]string{"value": "my-secret-sauce"}},
		},
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	store := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s", secretTree()))

	raw, err := underlying.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, middleware.EnvelopeTag, raw.Tag)
	assert.Empty(t, raw.Children)
	assert.NotContains(t, raw.Value, "my-secret-sauce")

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, secretTree(), loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	require.NoError(t, encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey}).Save(ctx, "s", secretTree()))

	rotated := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := rotated.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "login", loaded.Attrs["id"])

	_, err = encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey}).Load(ctx, "s")
	assert.ErrorContains(t, err, "decryption failed with all available keys")
}

func TestEncryptionMiddleware_RejectsPlainSnapshots(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", secretTree()))

	_, err := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)}).Load(ctx, "plain")
	assert.ErrorContains(t, err, "missing encrypted data envelope")
}

func TestEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorContains(t, err, "must be 32 bytes")
}
