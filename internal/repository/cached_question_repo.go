package repository

import (
	"context"
	"dyslexiatutor/internal/cache"
	"dyslexiatutor/internal/model"
	"log/slog"
)

type cachedQuestionRepo struct {
	repo  QuestionRepo
	pools cache.PoolCache
}

// NewCachedQuestionRepo serves banks from the pool cache, falling back to repo
// on a miss. Cache failures are logged and never fail the read.
func NewCachedQuestionRepo(repo QuestionRepo, pools cache.PoolCache) QuestionRepo {
	return &cachedQuestionRepo{repo: repo, pools: pools}
}

func (r *cachedQuestionRepo) GetByMode(ctx context.Context, mode model.Mode) ([]model.Question, error) {
	cached, err := r.pools.GetPool(ctx, mode)
	if err != nil {
		slog.Warn("question pool cache read failed", "mode", mode, "error", err)
	}
	if len(cached) > 0 {
		for i := range cached {
			cached[i].Mode = mode
		}
		return cached, nil
	}

	questions, err := r.repo.GetByMode(ctx, mode)
	if err != nil {
		return nil, err
	}
	if err := r.pools.SetPool(ctx, mode, questions); err != nil {
		slog.Warn("question pool cache write failed", "mode", mode, "error", err)
	}
	return questions, nil
}
