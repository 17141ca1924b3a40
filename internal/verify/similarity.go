package verify

import "math"

// Field weights for chunk-based relevance. Question and answer dominate;
// the explanation often paraphrases beyond the source text.
const (
	questionWeight    = 0.4
	answerWeight      = 0.4
	explanationWeight = 0.2
)

// Cosine returns the cosine similarity of two vectors. Mismatched lengths or
// a zero vector yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// fieldSimilarities holds per-field similarity of a candidate against one
// reference text.
type fieldSimilarities struct {
	question    float64
	answer      float64
	explanation float64
}

// maxPool keeps the per-field maximum across chunks.
func maxPool(all []fieldSimilarities) fieldSimilarities {
	var pooled fieldSimilarities
	for _, s := range all {
		pooled.question = math.Max(pooled.question, s.question)
		pooled.answer = math.Max(pooled.answer, s.answer)
		pooled.explanation = math.Max(pooled.explanation, s.explanation)
	}
	return pooled
}

// weighted combines per-field similarities with the field weights.
func (s fieldSimilarities) weighted() float64 {
	return s.question*questionWeight + s.answer*answerWeight + s.explanation*explanationWeight
}

// mean is the unweighted average, used by the whole-document variant.
func (s fieldSimilarities) mean() float64 {
	return (s.question + s.answer + s.explanation) / 3
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
