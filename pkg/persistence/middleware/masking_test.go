package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/reactless/pkg/adapters/memory"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/persistence/middleware"
	"github.com/aretw0/reactless/pkg/ports"
)

func TestMaskingMiddleware(t *testing.T) {
	mw, err := middleware.NewMaskingMiddleware([]string{"^value$", "(?i)token"})
	require.NoError(t, err)

	underlying := memory.NewStore()
	store := mw(underlying)
	ctx := context.Background()

	snap := secretTree()
	snap.Attrs["data-Token"] = "abc"
	require.NoError(t, store.Save(ctx, "s", snap))

	assert.Equal(t, "my-secret-sauce", snap.Children[0].Attrs["value"], "the caller's tree is not modified")

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "login", loaded.Attrs["id"])
	assert.Equal(t, middleware.Mask, loaded.Attrs["data-Token"])
	assert.Equal(t, middleware.Mask, loaded.Children[0].Attrs["value"])
}

func TestMaskingMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewMaskingMiddleware([]string{"("})
	assert.ErrorContains(t, err, "invalid mask pattern")
}

func TestChain(t *testing.T) {
	mask, err := middleware.NewMaskingMiddleware([]string{"^value$"})
	require.NoError(t, err)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	underlying := memory.NewStore()
	store := middleware.Chain(underlying, mask, enc)
	ports.RunSnapshotStoreContract(t, store)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s", secretTree()))

	raw, err := underlying.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, middleware.EnvelopeTag, raw.Tag)

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []domain.Snapshot{{Tag: "input", Attrs: map[string]string{"value": middleware.Mask}}}, loaded.Children)
}
