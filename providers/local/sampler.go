package local

import "sort"

// Sampling constants. The decode loop applies a repetition penalty over a
// sliding window of recent tokens, then selects greedily; there is no
// temperature or nucleus sampling.
const (
	repetitionPenalty = 1.2
	repetitionWindow  = 64
)

// applyRepetitionPenalty penalizes every candidate whose token appears in the
// recent window. Positive logits are divided by the penalty and non-positive
// logits multiplied by it, so a repeat is suppressed regardless of the
// logit's sign.
func applyRepetitionPenalty(candidates []Candidate, recent []Token, penalty float32) {
	if len(recent) == 0 {
		return
	}

	seen := make(map[Token]struct{}, len(recent))
	for _, t := range recent {
		seen[t] = struct{}{}
	}

	for i := range candidates {
		if _, ok := seen[candidates[i].Token]; !ok {
			continue
		}
		if candidates[i].Logit > 0 {
			candidates[i].Logit /= penalty
		} else {
			candidates[i].Logit *= penalty
		}
	}
}

// rankCandidates orders candidates by logit descending. The sort is stable so
// equal logits keep their original (vocabulary) order, which keeps selection
// deterministic for identical inputs.
func rankCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Logit > candidates[j].Logit
	})
}

// sampleGreedy runs the full sampling policy for one decode step: penalize
// repeats from the recent window, re-rank, and take the top candidate.
// It is a pure function of its inputs. Returns false when the candidate set
// is empty.
func sampleGreedy(candidates []Candidate, recent []Token) (Token, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	applyRepetitionPenalty(candidates, recent, repetitionPenalty)
	rankCandidates(candidates)
	return candidates[0].Token, true
}

// recentWindow returns the trailing repetitionWindow tokens of the sequence.
func recentWindow(tokens []Token) []Token {
	if len(tokens) <= repetitionWindow {
		return tokens
	}
	return tokens[len(tokens)-repetitionWindow:]
}
