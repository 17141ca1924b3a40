package verify

import (
	"context"
	"sort"

	"eduquest/internal/chunk"
	"eduquest/internal/contextutil"
	"eduquest/internal/embed"
)

// DefaultMaxResults caps the number of questions returned per run.
const DefaultMaxResults = 5

// Options configures a verification pipeline.
type Options struct {
	// WholeDocument switches the retrieval filter to the legacy mode that
	// scores candidates against the full source text with an unweighted mean
	// and a 0.4 threshold, instead of the chunked weighted scoring.
	WholeDocument bool
	// MaxResults caps the ranked output. Zero or negative means
	// DefaultMaxResults.
	MaxResults int
}

// Pipeline runs candidates through deduplication, retrieval filtering,
// critic adjudication, and confidence fusion.
type Pipeline struct {
	embedder embed.Provider
	critic   *Critic
	splitter *chunk.Splitter
	opts     Options
}

// NewPipeline creates a verification pipeline. A nil critic enables degraded
// mode: retrieval-filtered candidates pass through without adjudication,
// ranked by similarity alone.
func NewPipeline(embedder embed.Provider, critic *Critic, splitter *chunk.Splitter, opts Options) *Pipeline {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if splitter == nil {
		splitter = chunk.NewSplitter(0, -1)
	}
	return &Pipeline{
		embedder: embedder,
		critic:   critic,
		splitter: splitter,
		opts:     opts,
	}
}

// Verify runs the full pipeline over candidates. existing holds previously
// stored question texts for deduplication; pass nil to skip that stage.
// Embedding failures abort the run; judge failures reject only the affected
// candidate.
func (p *Pipeline) Verify(ctx context.Context, candidates []Candidate, sourceContext string, existing []string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	stats := Stats{TotalGenerated: len(candidates)}

	deduped, dropped, err := p.dedupe(ctx, candidates, existing)
	if err != nil {
		return nil, err
	}
	stats.DuplicatesDropped = dropped

	survivors, err := p.ragFilter(ctx, deduped, sourceContext)
	if err != nil {
		return nil, err
	}
	stats.RAGFiltered = len(survivors)
	logger.Debug("retrieval filter complete",
		"candidates", len(deduped),
		"survivors", len(survivors),
		"duplicates_dropped", dropped,
	)

	var accepted []VerifiedQuestion
	if p.critic == nil {
		// Degraded mode: no judge credential configured. Similarity is the
		// only signal, so it doubles as the final confidence.
		for _, sc := range survivors {
			accepted = append(accepted, VerifiedQuestion{
				Candidate:          sc.Candidate,
				SemanticSimilarity: sc.similarity,
				FinalConfidence:    clamp01(sc.similarity),
			})
		}
	} else {
		for _, sc := range survivors {
			verdict := p.critic.Adjudicate(ctx, sc.Candidate, sourceContext)
			if !verdict.Passed() {
				logger.Debug("candidate rejected by critic",
					"question", sc.Question,
					"feedback", verdict.Feedback(),
				)
				continue
			}
			accepted = append(accepted, VerifiedQuestion{
				Candidate:          sc.Candidate,
				SemanticSimilarity: sc.similarity,
				Verdict:            verdict,
				FinalConfidence:    fuseConfidence(sc.similarity, verdict),
			})
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].FinalConfidence > accepted[j].FinalConfidence
	})
	if len(accepted) > p.opts.MaxResults {
		accepted = accepted[:p.opts.MaxResults]
	}
	stats.FinalVerified = len(accepted)

	return &Result{Questions: accepted, Stats: stats}, nil
}

// fuseConfidence merges the retrieval similarity with the judge verdict.
// When the judge reported a numeric confidence, the score is the mean of the
// two; otherwise a binary top-grade indicator stands in for the judge side.
func fuseConfidence(similarity float64, verdict Verdict) float64 {
	structured, ok := verdict.(StructuredVerdict)
	if !ok {
		return clamp01(similarity / 2)
	}
	judgeScore := 0.0
	if structured.HasConfidence {
		judgeScore = structured.Confidence
	} else if structured.QualityAssessment.Grade == GradeVeryAdequate {
		judgeScore = 1.0
	}
	return clamp01((similarity + judgeScore) / 2)
}
