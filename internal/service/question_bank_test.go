package service

import (
	"context"
	"dyslexiatutor/internal/model"
	"dyslexiatutor/internal/repository"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	questions []model.Question
	err       error
	calls     int
}

func (r *stubRepo) GetByMode(_ context.Context, _ model.Mode) ([]model.Question, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]model.Question(nil), r.questions...), nil
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// bankOf builds mode 1 questions with unique answers, n per difficulty label.
func bankOf(counts map[model.Difficulty]int) []model.Question {
	var out []model.Question
	for _, d := range []model.Difficulty{"Easy", "Medium", "Hard", "", "Expert"} {
		for i := 0; i < counts[d]; i++ {
			answer := fmt.Sprintf("w%s%d", d, i)
			out = append(out, model.Question{
				Question:   "Which spelling matches?",
				Choices:    []string{answer, answer + "x"},
				Answer:     answer,
				Difficulty: d,
			})
		}
	}
	return out
}

func tierCounts(set model.QuestionSet) map[model.Difficulty]int {
	counts := map[model.Difficulty]int{}
	for _, q := range set {
		t, _ := q.Difficulty.Tier()
		counts[t]++
	}
	return counts
}

func TestSampleStratified(t *testing.T) {
	tests := []struct {
		name   string
		bank   map[model.Difficulty]int
		want   map[model.Difficulty]int
		wantSz int
	}{
		{
			name:   "full tiers",
			bank:   map[model.Difficulty]int{"Easy": 5, "Medium": 4, "Hard": 3},
			want:   map[model.Difficulty]int{"easy": 2, "medium": 2, "hard": 2},
			wantSz: 6,
		},
		{
			name:   "short tiers contribute what they have",
			bank:   map[model.Difficulty]int{"Easy": 3, "Medium": 1},
			want:   map[model.Difficulty]int{"easy": 2, "medium": 1},
			wantSz: 3,
		},
		{
			name:   "unlabelled and unknown difficulties are never drawn",
			bank:   map[model.Difficulty]int{"Easy": 1, "": 4, "Expert": 4},
			want:   map[model.Difficulty]int{"easy": 1},
			wantSz: 1,
		},
		{
			name:   "no tiered questions",
			bank:   map[model.Difficulty]int{"Expert": 2},
			want:   map[model.Difficulty]int{},
			wantSz: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := SampleStratified(bankOf(tt.bank), PerTierQuota, seededRand())
			assert.Len(t, set, tt.wantSz)
			assert.Equal(t, tt.want, tierCounts(set))
		})
	}
}

func TestSampleStratified_NoDuplicates(t *testing.T) {
	rng := seededRand()
	bank := bankOf(map[model.Difficulty]int{"Easy": 3, "Medium": 3, "Hard": 3})
	for i := 0; i < 50; i++ {
		seen := map[string]bool{}
		for _, q := range SampleStratified(bank, PerTierQuota, rng) {
			assert.False(t, seen[q.Answer], "duplicate %s", q.Answer)
			seen[q.Answer] = true
		}
	}
}

func TestSampleStratified_DrawsAcrossWholeTier(t *testing.T) {
	rng := seededRand()
	bank := bankOf(map[model.Difficulty]int{"Easy": 3})
	drawn := map[string]bool{}
	for i := 0; i < 100; i++ {
		for _, q := range SampleStratified(bank, PerTierQuota, rng) {
			drawn[q.Answer] = true
		}
	}
	assert.Len(t, drawn, 3)
}

func TestSampleStratified_DoesNotMutateInput(t *testing.T) {
	bank := bankOf(map[model.Difficulty]int{"Easy": 3, "Medium": 3})
	before := append([]model.Question(nil), bank...)

	SampleStratified(bank, PerTierQuota, seededRand())

	assert.Equal(t, before, bank)
}

func TestQuestionBank_Sample(t *testing.T) {
	repo := &stubRepo{questions: bankOf(map[model.Difficulty]int{"Easy": 3, "Medium": 1})}
	bank := NewQuestionBank(repo, seededRand())

	set, err := bank.Sample(context.Background(), model.ModePhonological)

	require.NoError(t, err)
	assert.Len(t, set, 3)
	assert.Equal(t, 1, repo.calls)
}

func TestQuestionBank_SamplePropagatesLoadError(t *testing.T) {
	loadErr := &repository.DataLoadError{Mode: model.ModeSurface, Source: "mode2.json", Err: errors.New("boom")}
	bank := NewQuestionBank(&stubRepo{err: loadErr}, nil)

	_, err := bank.Sample(context.Background(), model.ModeSurface)

	var got *repository.DataLoadError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "mode2.json", got.Source)
}
