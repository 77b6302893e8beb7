package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zuqon/content-backend/internal/domain"
)

func TestMemorySelectionStore(t *testing.T) {
	store := NewMemorySelectionStore()
	ctx := context.Background()

	sel, err := store.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, sel)

	platforms := []domain.Platform{domain.PlatformFacebook, domain.PlatformTwitter}
	assert.NoError(t, store.Set(ctx, 1, platforms))

	sel, err = store.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, platforms, sel)

	// returned slice is a copy
	sel[0] = domain.PlatformInstagram
	again, _ := store.Get(ctx, 1)
	assert.Equal(t, domain.PlatformFacebook, again[0])

	assert.NoError(t, store.Clear(ctx, 1))
	sel, err = store.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, sel)
}
