package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_HitAndExpiry(t *testing.T) {
	now := time.Now()
	c := New[string](5*time.Minute, 10)
	c.SetClock(func() time.Time { return now })

	c.Put("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)

	now = now.Add(5*time.Minute + time.Second)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestCache_Clear(t *testing.T) {
	c := New[int](time.Minute, 10)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Clear()
	require.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestCache_EvictsOldestFirst(t *testing.T) {
	c := New[int](time.Minute, 3)
	for i := 0; i < 4; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
	}
	require.Equal(t, 3, c.Len())
	_, ok := c.Get("k0")
	require.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.Get("k3")
	require.True(t, ok)
}

func TestCache_PutRefreshesAge(t *testing.T) {
	c := New[int](time.Minute, 2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 3) // re-put moves "a" to the back
	c.Put("c", 4) // evicts "b", not "a"

	got, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 3, got)
	_, ok = c.Get("b")
	require.False(t, ok)
}
