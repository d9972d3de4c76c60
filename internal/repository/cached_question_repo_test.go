package repository

import (
	"context"
	"dyslexiatutor/internal/model"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePools struct {
	pools  map[model.Mode][]model.Question
	getErr error
	setErr error
}

func (f *fakePools) SetPool(_ context.Context, mode model.Mode, questions []model.Question) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.pools[mode] = append([]model.Question(nil), questions...)
	return nil
}

func (f *fakePools) GetPool(_ context.Context, mode model.Mode) ([]model.Question, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return append([]model.Question(nil), f.pools[mode]...), nil
}

func (f *fakePools) DeletePool(_ context.Context, mode model.Mode) error {
	delete(f.pools, mode)
	return nil
}

type countingRepo struct {
	questions []model.Question
	err       error
	calls     int
}

func (r *countingRepo) GetByMode(_ context.Context, _ model.Mode) ([]model.Question, error) {
	r.calls++
	return r.questions, r.err
}

func TestCachedQuestionRepo_ReadsThrough(t *testing.T) {
	ctx := context.Background()
	backing := &countingRepo{questions: []model.Question{{Word: "yacht", Difficulty: "hard", Mode: model.ModeSurface}}}
	pools := &fakePools{pools: map[model.Mode][]model.Question{}}
	repo := NewCachedQuestionRepo(backing, pools)

	first, err := repo.GetByMode(ctx, model.ModeSurface)
	require.NoError(t, err)
	second, err := repo.GetByMode(ctx, model.ModeSurface)
	require.NoError(t, err)

	assert.Equal(t, 1, backing.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, model.ModeSurface, second[0].Mode)
}

func TestCachedQuestionRepo_InvalidatedPoolReloads(t *testing.T) {
	ctx := context.Background()
	backing := &countingRepo{questions: []model.Question{{Word: "yacht", Difficulty: "hard"}}}
	pools := &fakePools{pools: map[model.Mode][]model.Question{}}
	repo := NewCachedQuestionRepo(backing, pools)

	_, err := repo.GetByMode(ctx, model.ModeSurface)
	require.NoError(t, err)
	require.NoError(t, pools.DeletePool(ctx, model.ModeSurface))
	_, err = repo.GetByMode(ctx, model.ModeSurface)
	require.NoError(t, err)

	assert.Equal(t, 2, backing.calls)
}

func TestCachedQuestionRepo_CacheFailuresFallBack(t *testing.T) {
	backing := &countingRepo{questions: []model.Question{{Word: "yacht", Difficulty: "hard"}}}
	pools := &fakePools{getErr: errors.New("redis down"), setErr: errors.New("redis down")}

	got, err := NewCachedQuestionRepo(backing, pools).GetByMode(context.Background(), model.ModeSurface)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCachedQuestionRepo_LoadErrorNotCached(t *testing.T) {
	loadErr := &DataLoadError{Mode: model.ModeSurface, Source: "mongo:questions", Err: ErrEmptyBank}
	backing := &countingRepo{err: loadErr}
	pools := &fakePools{pools: map[model.Mode][]model.Question{}}

	_, err := NewCachedQuestionRepo(backing, pools).GetByMode(context.Background(), model.ModeSurface)

	assert.ErrorIs(t, err, ErrEmptyBank)
	assert.Empty(t, pools.pools)
}
