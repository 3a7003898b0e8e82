package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "lead_list:q=:status=:page=1", Key("lead_list", "q=", "status=", "page=1"))
	assert.Equal(t, "dashboard_recent:q=ali:status=new", Key("dashboard_recent", "q=ali", "status=new"))
}

func TestInMemoryMissThenHit(t *testing.T) {
	c := NewInMemory()
	ctx := context.Background()

	var got map[string]int
	err := c.Get(ctx, "missing", &got)
	assert.ErrorIs(t, err, ErrMiss)

	value := map[string]int{"total": 3}
	assert.NoError(t, c.Set(ctx, "counts", value, time.Minute))

	err = c.Get(ctx, "counts", &got)
	assert.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestInMemoryExpiry(t *testing.T) {
	c := NewInMemory()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "short", "value", 10*time.Millisecond))

	var got string
	assert.NoError(t, c.Get(ctx, "short", &got))
	assert.Equal(t, "value", got)

	time.Sleep(30 * time.Millisecond)
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrMiss)
}

func TestInMemoryDeleteAndFlush(t *testing.T) {
	c := NewInMemory()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	assert.NoError(t, c.Set(ctx, "b", 2, time.Minute))

	assert.NoError(t, c.Delete(ctx, "a"))
	var got int
	assert.ErrorIs(t, c.Get(ctx, "a", &got), ErrMiss)
	assert.NoError(t, c.Get(ctx, "b", &got))

	assert.NoError(t, c.Flush(ctx))
	assert.ErrorIs(t, c.Get(ctx, "b", &got), ErrMiss)
}
