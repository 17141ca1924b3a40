package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eduquest/internal/contextutil"
	"eduquest/internal/llm"
)

// JudgeTimeout bounds each individual judge call.
const JudgeTimeout = 30 * time.Second

const judgeSystemPrompt = "You are a subject-matter expert and a strict evaluator. " +
	"Respond only in the specified JSON format."

// Critic adjudicates candidates with one or two LLM judges behind an
// OpenAI-compatible gateway. With two models configured, a candidate passes
// only when both judges agree it passes; a judge failure of any kind
// (timeout, HTTP error, unparseable response) rejects the candidate without
// affecting the rest of the batch.
type Critic struct {
	client         *llm.Client
	primaryModel   string
	secondaryModel string
	timeout        time.Duration
}

// NewCritic creates a critic. secondaryModel may be empty, in which case the
// primary judge's verdict stands alone.
func NewCritic(client *llm.Client, primaryModel, secondaryModel string) *Critic {
	return &Critic{
		client:         client,
		primaryModel:   primaryModel,
		secondaryModel: secondaryModel,
		timeout:        JudgeTimeout,
	}
}

// judgeEnvelope is the wire shape judges are instructed to produce.
type judgeEnvelope struct {
	Verification *judgePayload `json:"verification"`
}

type judgePayload struct {
	ReferenceCheck    ReferenceCheck    `json:"reference_check"`
	QualityAssessment QualityAssessment `json:"quality_assessment"`
	Passed            *bool             `json:"passed"`
	Confidence        *float64          `json:"confidence"`
	Feedback          string            `json:"feedback"`
}

// Adjudicate runs the configured judges over one candidate and combines
// their verdicts. It never returns an error; failures become failed verdicts.
func (c *Critic) Adjudicate(ctx context.Context, candidate Candidate, sourceContext string) Verdict {
	logger := contextutil.LoggerFromContext(ctx)
	prompt := buildJudgePrompt(candidate, sourceContext)

	primary := c.consult(ctx, c.primaryModel, prompt)
	if c.secondaryModel == "" {
		return primary
	}
	secondary := c.consult(ctx, c.secondaryModel, prompt)

	primaryStructured, primaryOK := primary.(StructuredVerdict)
	secondaryStructured, secondaryOK := secondary.(StructuredVerdict)

	if !primaryOK {
		logger.Warn("primary judge produced no usable verdict", "reason", primary.Feedback())
		return primary
	}
	if !secondaryOK {
		logger.Warn("secondary judge produced no usable verdict", "reason", secondary.Feedback())
		return secondary
	}

	if primaryStructured.Pass != secondaryStructured.Pass {
		return disagreementVerdict()
	}
	// Agreement either way; the primary verdict carries the detail.
	return primaryStructured
}

// consult sends one judge request and parses the verdict.
func (c *Critic) consult(ctx context.Context, model, prompt string) Verdict {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	content, err := c.client.ChatWithMessages(ctx, []llm.Message{
		{Role: "system", Content: judgeSystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.ChatParams{
		Model:       model,
		Temperature: 0.1,
		JSONObject:  true,
	})
	if err != nil {
		return UnparseableVerdict{Reason: fmt.Sprintf("judge call failed: %v", err)}
	}

	var envelope judgeEnvelope
	if err := llm.ExtractJSON(content, &envelope); err != nil {
		return UnparseableVerdict{Raw: content, Reason: fmt.Sprintf("judge response is not valid JSON: %v", err)}
	}
	payload := envelope.Verification
	if payload == nil {
		return UnparseableVerdict{Raw: content, Reason: "judge response is missing the verification object"}
	}
	if payload.Passed == nil || payload.QualityAssessment.Grade == "" {
		return UnparseableVerdict{Raw: content, Reason: "judge verdict is missing required fields"}
	}

	verdict := StructuredVerdict{
		ReferenceCheck:    payload.ReferenceCheck,
		QualityAssessment: payload.QualityAssessment,
		Pass:              *payload.Passed,
		Note:              payload.Feedback,
	}
	if payload.Confidence != nil {
		verdict.Confidence = clamp01(*payload.Confidence)
		verdict.HasConfidence = true
	}
	return verdict
}

func disagreementVerdict() StructuredVerdict {
	return StructuredVerdict{
		ReferenceCheck: ReferenceCheck{
			Result:   "no",
			Evidence: "verification mismatch",
			Issues:   []string{"the judges returned conflicting verdicts"},
		},
		QualityAssessment: QualityAssessment{
			Grade:                  GradeInadequate,
			Weaknesses:             []string{"below verification standard"},
			ImprovementSuggestions: []string{"the question needs review"},
		},
		Pass: false,
		Note: "the two judges disagreed, so the question was rejected",
	}
}

func buildJudgePrompt(candidate Candidate, sourceContext string) string {
	info := fmt.Sprintf("Question: %s\nOptions: %s\nAnswer: %s\nExplanation: %s",
		candidate.Question,
		strings.Join(candidate.Options, ", "),
		candidate.CorrectAnswer,
		candidate.Explanation,
	)

	return fmt.Sprintf(`Evaluate whether the given question accurately reflects the source material.

[Source material]
%s

[Question under review]
%s

[Criteria]
1. Reference grounding: are the question and answer grounded in the source material?
2. Question quality: is the question clear and appropriate?

Respond only in the following JSON format. Do not include any other text or explanation:
{
    "verification": {
        "reference_check": {
            "result": "yes",
            "evidence": "specific evidence from the source material",
            "issues": []
        },
        "quality_assessment": {
            "grade": "very adequate",
            "strengths": ["strength 1", "strength 2"],
            "weaknesses": [],
            "improvement_suggestions": []
        },
        "passed": true,
        "confidence": 0.9,
        "feedback": "review notes"
    }
}
The grade must be one of: "very adequate", "adequate", "inadequate".`, sourceContext, info)
}
