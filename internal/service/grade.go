package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"eduquest/internal/contextutil"
	"eduquest/internal/llm"
)

// Answer is one submitted answer to grade.
type Answer struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// AnswerResult is the graded outcome for one answer. Score is partial credit
// in [0,1]; IsCorrect is the binary outcome used for the total.
type AnswerResult struct {
	Question      string  `json:"question"`
	UserAnswer    string  `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Feedback      string  `json:"feedback"`
	Score         float64 `json:"score"`
}

// GradeSummary aggregates a grading run.
type GradeSummary struct {
	TotalScore      int     `json:"total_score"`
	TotalQuestions  int     `json:"total_questions"`
	ScorePercentage float64 `json:"score_percentage"`
	OverallFeedback string  `json:"overall_feedback"`
}

// GradeReport is the full result of grading a batch of answers.
type GradeReport struct {
	Total   GradeSummary   `json:"total"`
	Results []AnswerResult `json:"results"`
}

const defaultOverallFeedback = "Grading is complete. Review your results below."

// Grader evaluates submitted answers with an LLM, allowing partial credit
// for free-text answers that capture the key concept.
type Grader struct {
	client *llm.Client
}

// NewGrader creates an answer grader on the given chat client.
func NewGrader(client *llm.Client) *Grader {
	return &Grader{client: client}
}

// Grade evaluates a batch of answers. A failed LLM call or unparseable
// response degrades to a default all-incorrect report instead of an error,
// so grading never crashes the quiz flow.
func (g *Grader) Grade(ctx context.Context, answers []Answer) (*GradeReport, error) {
	if len(answers) == 0 {
		return nil, WrapError(ErrInvalidInput, "no answers to grade")
	}
	logger := contextutil.LoggerFromContext(ctx)

	content, err := g.client.Chat(ctx, buildGradingPrompt(answers))
	if err != nil {
		logger.Warn("grading call failed, returning default report", "error", err)
		return defaultReport(answers, "answer grading failed"), nil
	}

	var parsed struct {
		Results []struct {
			Question      string   `json:"question"`
			UserAnswer    string   `json:"user_answer"`
			CorrectAnswer string   `json:"correct_answer"`
			IsCorrect     bool     `json:"is_correct"`
			Feedback      string   `json:"feedback"`
			Score         *float64 `json:"score"`
		} `json:"results"`
		Total struct {
			OverallFeedback string `json:"overall_feedback"`
		} `json:"total"`
	}
	if err := llm.ExtractJSON(content, &parsed); err != nil {
		logger.Warn("grading response unparseable, returning default report", "error", err)
		return defaultReport(answers, "answer grading failed"), nil
	}
	if len(parsed.Results) == 0 {
		return defaultReport(answers, "answer grading failed"), nil
	}

	results := make([]AnswerResult, 0, len(parsed.Results))
	for i, r := range parsed.Results {
		result := AnswerResult{
			Question:      r.Question,
			UserAnswer:    r.UserAnswer,
			CorrectAnswer: r.CorrectAnswer,
			IsCorrect:     r.IsCorrect,
			Feedback:      r.Feedback,
		}
		// Backfill anything the model omitted from the submitted answer.
		if i < len(answers) {
			if result.Question == "" {
				result.Question = answers[i].Question
			}
			if result.UserAnswer == "" {
				result.UserAnswer = answers[i].UserAnswer
			}
			if result.CorrectAnswer == "" {
				result.CorrectAnswer = answers[i].CorrectAnswer
			}
		}
		if result.Feedback == "" {
			result.Feedback = "no feedback available"
		}
		if r.Score != nil {
			result.Score = math.Max(0, math.Min(1, *r.Score))
		}
		results = append(results, result)
	}

	report := &GradeReport{
		Total:   summarize(results, parsed.Total.OverallFeedback),
		Results: results,
	}
	return report, nil
}

// GradeOne evaluates a single answer.
func (g *Grader) GradeOne(ctx context.Context, answer Answer) (*AnswerResult, error) {
	report, err := g.Grade(ctx, []Answer{answer})
	if err != nil {
		return nil, err
	}
	if len(report.Results) == 0 {
		return nil, fmt.Errorf("grading produced no result")
	}
	return &report.Results[0], nil
}

func summarize(results []AnswerResult, overallFeedback string) GradeSummary {
	correct := 0
	for _, r := range results {
		if r.IsCorrect {
			correct++
		}
	}
	percentage := 0.0
	if len(results) > 0 {
		percentage = float64(correct) / float64(len(results)) * 100
	}
	if overallFeedback == "" {
		overallFeedback = defaultOverallFeedback
	}
	return GradeSummary{
		TotalScore:      correct,
		TotalQuestions:  len(results),
		ScorePercentage: math.Round(percentage*10) / 10,
		OverallFeedback: overallFeedback,
	}
}

func defaultReport(answers []Answer, feedback string) *GradeReport {
	results := make([]AnswerResult, len(answers))
	for i, a := range answers {
		results[i] = AnswerResult{
			Question:      a.Question,
			UserAnswer:    a.UserAnswer,
			CorrectAnswer: a.CorrectAnswer,
			IsCorrect:     false,
			Feedback:      feedback,
			Score:         0,
		}
	}
	return &GradeReport{
		Total: GradeSummary{
			TotalQuestions:  len(answers),
			OverallFeedback: feedback,
		},
		Results: results,
	}
}

func buildGradingPrompt(answers []Answer) string {
	var sb strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&sb, "Question %d:\nQuestion: %s\nSubmitted answer: %s\nCorrect answer: %s\n",
			i+1, a.Question, a.UserAnswer, a.CorrectAnswer)
	}

	return fmt.Sprintf(`Grade the following answers and provide feedback.

Answers:
%s
Respond only in the following JSON format. Do not include any other text or explanation:
{
    "results": [
        {
            "question": "question text",
            "user_answer": "the submitted answer",
            "correct_answer": "the correct answer",
            "is_correct": true,
            "feedback": "short feedback (under 50 characters)",
            "score": 1.0
        }
    ],
    "total": {
        "total_score": 0,
        "total_questions": %d,
        "score_percentage": 0.0,
        "overall_feedback": "overall assessment (under 100 characters)"
    }
}

Grading rules:
1. Award partial credit when the answer captures the key concept even if the wording differs.
2. Ignore typos and spacing differences.
3. Multiple-choice answers must match the correct option exactly.
4. Score each answer between 0.0 and 1.0.`, sb.String(), len(answers))
}
