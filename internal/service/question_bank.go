package service

import (
	"context"
	"dyslexiatutor/internal/model"
	"dyslexiatutor/internal/repository"
	"math/rand/v2"
	"sync"
)

// PerTierQuota is how many questions each difficulty tier contributes to a session.
const PerTierQuota = 2

// QuestionBank builds per-session question sets from the stored banks
type QuestionBank struct {
	repo repository.QuestionRepo

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewQuestionBank creates a question bank. A nil rng gets a randomly seeded source.
func NewQuestionBank(repo repository.QuestionRepo, rng *rand.Rand) *QuestionBank {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &QuestionBank{repo: repo, rng: rng}
}

// Sample loads the mode's bank and draws a stratified, shuffled question set.
// Load failures come back as *repository.DataLoadError.
func (b *QuestionBank) Sample(ctx context.Context, mode model.Mode) (model.QuestionSet, error) {
	questions, err := b.repo.GetByMode(ctx, mode)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return SampleStratified(questions, PerTierQuota, b.rng), nil
}

// SampleStratified draws up to perTier questions without replacement from each
// of the easy, medium and hard tiers, then shuffles the combined draw.
// Questions with no recognised difficulty are never drawn.
func SampleStratified(questions []model.Question, perTier int, rng *rand.Rand) model.QuestionSet {
	tiers := make(map[model.Difficulty][]model.Question, len(model.Tiers))
	for _, q := range questions {
		if t, ok := q.Difficulty.Tier(); ok {
			tiers[t] = append(tiers[t], q)
		}
	}

	set := make(model.QuestionSet, 0, perTier*len(model.Tiers))
	for _, t := range model.Tiers {
		pool := tiers[t]
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		set = append(set, pool[:min(perTier, len(pool))]...)
	}
	rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })
	return set
}
