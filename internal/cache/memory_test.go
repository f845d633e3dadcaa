package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, time.Minute)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	v, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, c.Delete(ctx, "a"))
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok)

	// absent key is a no-op
	assert.NoError(t, c.Delete(ctx, "never-set"))
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, time.Minute)

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	_, _, _ = c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", []byte("3")))

	_, okA, _ := c.Get(ctx, "a")
	_, okB, _ := c.Get(ctx, "b")
	_, okC, _ := c.Get(ctx, "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Entries)
	assert.EqualValues(t, 1, st.Evictions)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 50*time.Millisecond)

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	require.NoError(t, c.Set(ctx, "k2", []byte("v")))
	time.Sleep(120 * time.Millisecond)

	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Entries)
	assert.Empty(t, st.Keys)
}

func TestMemory_HitMissCounters(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, time.Minute)

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	_, _, _ = c.Get(ctx, "a")
	_, _, _ = c.Get(ctx, "a")
	_, _, _ = c.Get(ctx, "b")

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Hits)
	assert.EqualValues(t, 1, st.Misses)
	assert.Zero(t, st.Evictions, "explicit deletes and clears are not evictions")
}

func TestMemory_ClearThenStatsIsEmpty(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, time.Minute)
	require.NoError(t, c.Set(ctx, "properties:list", []byte("[]")))
	require.NoError(t, c.Set(ctx, "property:1", []byte("{}")))

	require.NoError(t, c.Clear(ctx))

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Entries)
	assert.Empty(t, st.Keys)
	assert.NotNil(t, st.ClearedAt)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, time.Minute)

	type item struct{ Name string }
	require.NoError(t, SetJSON(ctx, c, "item", item{Name: "villa"}))

	var got item
	ok, err := GetJSON(ctx, c, "item", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "villa", got.Name)

	require.NoError(t, c.Set(ctx, "bad", []byte("{not json")))
	ok, err = GetJSON(ctx, c, "bad", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	_, present, _ := c.Get(ctx, "bad")
	assert.False(t, present)
}
