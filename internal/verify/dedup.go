package verify

import (
	"context"
	"fmt"
)

// DuplicateThreshold is the cosine similarity above which a candidate is
// considered a duplicate of a stored question. Strictly greater drops;
// equality keeps.
const DuplicateThreshold = 0.85

func isDuplicate(similarity float64) bool {
	return similarity > DuplicateThreshold
}

// dedupe removes candidates whose question text is semantically too close to
// any of the existing question texts. The first match short-circuits the
// remaining comparisons for that candidate.
func (p *Pipeline) dedupe(ctx context.Context, candidates []Candidate, existing []string) ([]Candidate, int, error) {
	if len(existing) == 0 {
		return candidates, 0, nil
	}

	existingVecs := make([][]float32, len(existing))
	for i, text := range existing {
		vec, err := p.embedder.Embed(ctx, text)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to embed stored question: %w", err)
		}
		existingVecs[i] = vec
	}

	kept := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		vec, err := p.embedder.Embed(ctx, candidate.Question)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to embed candidate question: %w", err)
		}

		duplicate := false
		for _, existingVec := range existingVecs {
			if isDuplicate(Cosine(vec, existingVec)) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}
	return kept, len(candidates) - len(kept), nil
}
