// Package verify implements the multi-stage question verification pipeline:
// deduplication against stored questions, retrieval-based similarity
// filtering against the source material, dual-judge adjudication, and
// confidence fusion with ranking.
package verify

import "fmt"

// OptionCount is the required number of answer options per candidate.
const OptionCount = 4

// Candidate is a generated multiple-choice question awaiting verification.
// Concept names the source idea the question tests; Difficulty is the
// generator's estimate in [0,1].
type Candidate struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Type          string   `json:"type,omitempty"`
	Concept       string   `json:"concept,omitempty"`
	Difficulty    float64  `json:"difficulty"`
}

// Validate checks the structural invariants of a candidate.
func (c *Candidate) Validate() error {
	if c.Question == "" {
		return fmt.Errorf("candidate has empty question text")
	}
	if len(c.Options) != OptionCount {
		return fmt.Errorf("candidate has %d options, want %d", len(c.Options), OptionCount)
	}
	for _, opt := range c.Options {
		if c.CorrectAnswer == opt {
			return nil
		}
	}
	return fmt.Errorf("correct answer %q is not one of the options", c.CorrectAnswer)
}

// ReferenceCheck reports whether a judge found the candidate grounded in the
// source material.
type ReferenceCheck struct {
	Result   string   `json:"result"`
	Evidence string   `json:"evidence"`
	Issues   []string `json:"issues"`
}

// Quality grades on the judge's categorical scale.
const (
	GradeVeryAdequate = "very adequate"
	GradeAdequate     = "adequate"
	GradeInadequate   = "inadequate"
)

// QualityAssessment is a judge's categorical quality rating.
type QualityAssessment struct {
	Grade                  string   `json:"grade"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

// Verdict is the outcome of critic adjudication for one candidate. It is
// either a StructuredVerdict parsed from a judge response or an
// UnparseableVerdict recording why no structured verdict could be obtained.
// An UnparseableVerdict never passes.
type Verdict interface {
	Passed() bool
	Feedback() string
	verdict()
}

// StructuredVerdict is a successfully parsed judge verdict.
type StructuredVerdict struct {
	ReferenceCheck    ReferenceCheck    `json:"reference_check"`
	QualityAssessment QualityAssessment `json:"quality_assessment"`
	Pass              bool              `json:"passed"`
	Note              string            `json:"feedback"`
	// Confidence is the judge's numeric self-reported confidence in [0,1].
	// HasConfidence distinguishes an explicit 0 from an absent field.
	Confidence    float64 `json:"confidence"`
	HasConfidence bool    `json:"-"`
}

func (v StructuredVerdict) Passed() bool     { return v.Pass }
func (v StructuredVerdict) Feedback() string { return v.Note }
func (StructuredVerdict) verdict()           {}

// UnparseableVerdict records a judge interaction that produced no usable
// structured verdict: an HTTP failure, a timeout, a response with no JSON
// object, or a parsed object missing required fields.
type UnparseableVerdict struct {
	Raw    string
	Reason string
}

func (UnparseableVerdict) Passed() bool       { return false }
func (v UnparseableVerdict) Feedback() string { return v.Reason }
func (UnparseableVerdict) verdict()           {}

// VerifiedQuestion is a candidate that survived the pipeline, annotated with
// its verification record.
type VerifiedQuestion struct {
	Candidate
	SemanticSimilarity float64 `json:"semantic_similarity"`
	Verdict            Verdict `json:"-"`
	FinalConfidence    float64 `json:"final_confidence"`
}

// Stats counts candidates through the pipeline stages.
type Stats struct {
	TotalGenerated    int `json:"total_generated"`
	DuplicatesDropped int `json:"duplicates_dropped"`
	RAGFiltered       int `json:"rag_filtered"`
	FinalVerified     int `json:"final_verified"`
}

// Result is the output of one verification run.
type Result struct {
	Questions []VerifiedQuestion `json:"questions"`
	Stats     Stats              `json:"stats"`
}
