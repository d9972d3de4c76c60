package cache

import (
	"context"
	"dyslexiatutor/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySessionCache(time.Hour)

	s := model.NewSession("s1")
	s.Begin(model.ModeSurface, model.QuestionSet{{Word: "yacht", Difficulty: "hard"}})
	require.NoError(t, c.Set(ctx, s))

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.ModeSurface, got.Mode)
	assert.Equal(t, "yacht", got.Questions[0].Word)
	assert.Len(t, got.History, 1)

	// Stored copies are independent of the caller's value
	got.Score = 99
	again, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, again.Score)
}

func TestMemorySessionCache_MissingAndDeleted(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySessionCache(time.Hour)

	got, err := c.Get(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, model.NewSession("s1")))
	require.NoError(t, c.Delete(ctx, "s1"))
	require.NoError(t, c.Delete(ctx, "s1"))

	got, err = c.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySessionCache(time.Minute).(*memorySessionCache)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, model.NewSession("s1")))

	now = now.Add(59 * time.Second)
	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, now.Add(-59*time.Second), got.UpdatedAt.UTC())

	now = now.Add(time.Second)
	got, err = c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionCache_SetSlidesExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySessionCache(time.Minute).(*memorySessionCache)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	s := model.NewSession("s1")
	require.NoError(t, c.Set(ctx, s))
	now = now.Add(50 * time.Second)
	require.NoError(t, c.Set(ctx, s))
	now = now.Add(50 * time.Second)

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
