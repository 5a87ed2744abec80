package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRepetitionPenaltySuppressesRepeats(t *testing.T) {
	candidates := []Candidate{
		{Token: 1, Logit: 2.4},
		{Token: 2, Logit: -0.5},
		{Token: 3, Logit: 1.0},
	}

	applyRepetitionPenalty(candidates, []Token{1, 2}, 1.2)

	assert.InDelta(t, 2.0, candidates[0].Logit, 1e-6, "positive logits shrink toward zero")
	assert.InDelta(t, -0.6, candidates[1].Logit, 1e-6, "negative logits move further from zero")
	assert.InDelta(t, 1.0, candidates[2].Logit, 1e-6, "unseen tokens are untouched")
}

func TestApplyRepetitionPenaltyEmptyWindow(t *testing.T) {
	candidates := []Candidate{{Token: 1, Logit: 2.4}}
	applyRepetitionPenalty(candidates, nil, 1.2)
	assert.InDelta(t, 2.4, candidates[0].Logit, 1e-6)
}

func TestSampleGreedyPicksTopLogit(t *testing.T) {
	token, ok := sampleGreedy([]Candidate{
		{Token: 7, Logit: 0.1},
		{Token: 9, Logit: 3.0},
		{Token: 4, Logit: 1.5},
	}, nil)
	require.True(t, ok)
	assert.Equal(t, Token(9), token)
}

func TestSampleGreedyPenaltyChangesWinner(t *testing.T) {
	// Token 9 leads, but sits in the recent window; 2.4/1.2 = 2.0 < 2.1.
	token, ok := sampleGreedy([]Candidate{
		{Token: 9, Logit: 2.4},
		{Token: 4, Logit: 2.1},
	}, []Token{9})
	require.True(t, ok)
	assert.Equal(t, Token(4), token)
}

func TestSampleGreedyDeterministicOnTies(t *testing.T) {
	mk := func() []Candidate {
		return []Candidate{
			{Token: 5, Logit: 1.0},
			{Token: 6, Logit: 1.0},
			{Token: 7, Logit: 1.0},
		}
	}

	first, ok := sampleGreedy(mk(), nil)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		token, ok := sampleGreedy(mk(), nil)
		require.True(t, ok)
		assert.Equal(t, first, token)
	}
	assert.Equal(t, Token(5), first, "stable sort keeps vocabulary order on ties")
}

func TestSampleGreedyEmptyCandidates(t *testing.T) {
	_, ok := sampleGreedy(nil, nil)
	assert.False(t, ok)
}

func TestRecentWindow(t *testing.T) {
	short := []Token{1, 2, 3}
	assert.Equal(t, short, recentWindow(short))

	long := make([]Token, repetitionWindow+10)
	for i := range long {
		long[i] = Token(i)
	}
	window := recentWindow(long)
	require.Len(t, window, repetitionWindow)
	assert.Equal(t, Token(10), window[0])
	assert.Equal(t, Token(repetitionWindow+9), window[len(window)-1])
}
