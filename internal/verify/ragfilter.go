package verify

import (
	"context"
	"fmt"

	"eduquest/internal/chunk"
)

const (
	// ChunkedThreshold is the minimum weighted similarity for a candidate to
	// survive chunk-based retrieval filtering.
	ChunkedThreshold = 0.35
	// WholeDocumentThreshold is the minimum mean similarity in the legacy
	// whole-document mode.
	WholeDocumentThreshold = 0.4
	// FallbackCount caps the candidates passed through when the filter
	// eliminates everything.
	FallbackCount = 5
)

// scoredCandidate is a candidate with its retrieval similarity attached.
type scoredCandidate struct {
	Candidate
	similarity float64
}

// retained keeps a candidate whose aggregate similarity meets the threshold;
// exact equality retains.
func retained(similarity, threshold float64) bool {
	return similarity >= threshold
}

// ragFilter scores every candidate against the source material and keeps
// those above the threshold. If nothing survives, the first FallbackCount
// candidates pass through with similarity 0 so the critic still has
// something to adjudicate.
func (p *Pipeline) ragFilter(ctx context.Context, candidates []Candidate, sourceContext string) ([]scoredCandidate, error) {
	references, threshold, aggregate, err := p.referenceVectors(ctx, sourceContext)
	if err != nil {
		return nil, err
	}

	var kept []scoredCandidate
	for _, candidate := range candidates {
		similarity, err := p.scoreCandidate(ctx, candidate, references, aggregate)
		if err != nil {
			return nil, err
		}
		if retained(similarity, threshold) {
			kept = append(kept, scoredCandidate{Candidate: candidate, similarity: similarity})
		}
	}

	if len(kept) == 0 {
		n := len(candidates)
		if n > FallbackCount {
			n = FallbackCount
		}
		for _, candidate := range candidates[:n] {
			kept = append(kept, scoredCandidate{Candidate: candidate})
		}
	}
	return kept, nil
}

// referenceVectors embeds the source material. In chunked mode each chunk is
// a separate reference and per-field similarities are max-pooled then
// weighted; in whole-document mode the single reference is scored by the
// unweighted mean.
func (p *Pipeline) referenceVectors(ctx context.Context, sourceContext string) ([][]float32, float64, func(fieldSimilarities) float64, error) {
	var texts []string
	if p.opts.WholeDocument {
		texts = []string{sourceContext}
	} else {
		texts = p.splitter.Split(chunk.Normalize(sourceContext))
		if len(texts) == 0 {
			texts = []string{sourceContext}
		}
	}

	references := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.embedder.Embed(ctx, text)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to embed source chunk: %w", err)
		}
		references[i] = vec
	}

	if p.opts.WholeDocument {
		return references, WholeDocumentThreshold, fieldSimilarities.mean, nil
	}
	return references, ChunkedThreshold, fieldSimilarities.weighted, nil
}

func (p *Pipeline) scoreCandidate(ctx context.Context, candidate Candidate, references [][]float32, aggregate func(fieldSimilarities) float64) (float64, error) {
	questionVec, err := p.embedder.Embed(ctx, candidate.Question)
	if err != nil {
		return 0, fmt.Errorf("failed to embed question: %w", err)
	}
	answerVec, err := p.embedder.Embed(ctx, candidate.CorrectAnswer)
	if err != nil {
		return 0, fmt.Errorf("failed to embed answer: %w", err)
	}
	explanationVec, err := p.embedder.Embed(ctx, candidate.Explanation)
	if err != nil {
		return 0, fmt.Errorf("failed to embed explanation: %w", err)
	}

	perReference := make([]fieldSimilarities, len(references))
	for i, ref := range references {
		perReference[i] = fieldSimilarities{
			question:    Cosine(ref, questionVec),
			answer:      Cosine(ref, answerVec),
			explanation: Cosine(ref, explanationVec),
		}
	}
	return aggregate(maxPool(perReference)), nil
}
