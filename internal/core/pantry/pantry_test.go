package pantry

import (
	"context"
	"errors"
	"testing"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenBackend 寫入一律失敗
type brokenBackend struct {
	*cache.CacheManager
}

func (b *brokenBackend) Set(ctx context.Context, key, value string) error {
	return errors.New("disk full")
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		input      string
		wantName   string
		wantAmount string
	}{
		{input: "Milk", wantName: "Milk", wantAmount: ""},
		{input: "200g flour", wantName: "flour", wantAmount: "200g"},
		{input: "3 large eggs", wantName: "eggs", wantAmount: "3 large"},
		{input: "12", wantName: "12", wantAmount: "12"},
		// 數量後的單字會被當成單位，名稱為空時退回整段輸入
		{input: "2 eggs", wantName: "2 eggs", wantAmount: "2 eggs"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseInput(tt.input)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Equal(t, DefaultCategory, got.Category)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestAddPersists(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewManager(0)
	p := New(backend, "")

	item, err := p.Add(ctx, "  200g flour ")
	require.NoError(t, err)
	assert.Equal(t, "flour", item.Name)

	_, err = p.Add(ctx, "   ")
	assert.True(t, common.IsValidationError(err))

	raw, err := backend.Get(ctx, DefaultStorageKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"name":"flour"`)

	reloaded := New(backend, "")
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, p.List(), reloaded.List())
}

func TestLoadMissingOrInvalid(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewManager(0)

	p := New(backend, "")
	require.NoError(t, p.Load(ctx))
	assert.Empty(t, p.List())
	assert.NotNil(t, p.List())

	require.NoError(t, backend.Set(ctx, DefaultStorageKey, "{broken"))
	require.NoError(t, p.Load(ctx))
	assert.Empty(t, p.List())
}

func TestQuickAdd(t *testing.T) {
	ctx := context.Background()
	p := New(cache.NewManager(0), "")

	assert.Equal(t, []string{"Eggs", "Milk", "Bread", "Chicken", "Rice", "Onion", "Garlic", "Pasta"}, QuickItems())

	added, err := p.QuickAdd(ctx, "Eggs", " ", "Milk")
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.Equal(t, []string{"Eggs", "Milk"}, p.Names())

	_, err = p.QuickAdd(ctx)
	assert.Error(t, err)
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	p := New(cache.NewManager(0), "")

	a, err := p.Add(ctx, "Eggs")
	require.NoError(t, err)
	b, err := p.Add(ctx, "Milk")
	require.NoError(t, err)

	require.NoError(t, p.Remove(ctx, a.ID))
	assert.Equal(t, []common.Ingredient{b}, p.List())

	err = p.Remove(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	p.Clear(ctx)
	assert.Equal(t, 0, p.Len())
}

func TestDescriptorsNamesCategories(t *testing.T) {
	ctx := context.Background()
	p := New(cache.NewManager(0), "")

	_, err := p.QuickAdd(ctx, "200g flour", "Milk")
	require.NoError(t, err)

	assert.Equal(t, []string{"200g flour", " Milk"}, p.Descriptors())
	assert.Equal(t, []string{"flour", "Milk"}, p.Names())
	assert.Equal(t, []string{DefaultCategory}, p.Categories())
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	p := New(&brokenBackend{CacheManager: cache.NewManager(0)}, "")

	_, err := p.Add(ctx, "Eggs")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())
}
