// Package service holds the application services: question generation,
// answer grading, and the orchestration that ties generation to the
// verification pipeline.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"eduquest/internal/contextutil"
	"eduquest/internal/llm"
	"eduquest/internal/verify"
)

// QuestionCount is how many questions one generation run asks for.
const QuestionCount = 3

// QuestionTypeMultipleChoice is the only question type the generator emits.
const QuestionTypeMultipleChoice = "multiple_choice"

// Concept is a key idea extracted from the source text in the first
// generation stage.
type Concept struct {
	Concept     string  `json:"concept"`
	Description string  `json:"description"`
	Importance  float64 `json:"importance"`
}

// Generator produces candidate questions from source text in two LLM stages:
// concept extraction, then question generation grounded in those concepts.
type Generator struct {
	client *llm.Client
}

// NewGenerator creates a question generator on the given chat client.
func NewGenerator(client *llm.Client) *Generator {
	return &Generator{client: client}
}

// generatedQuestion is the wire shape of one generated question. Evidence is
// informational and not carried forward.
type generatedQuestion struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Evidence      string   `json:"evidence"`
	Concept       string   `json:"concept"`
	Difficulty    float64  `json:"difficulty"`
}

// Generate extracts concepts from text and generates candidate questions
// based on them. Structurally invalid questions are dropped; if none remain,
// ErrNoValidQuestions is returned.
func (g *Generator) Generate(ctx context.Context, text string) ([]verify.Candidate, error) {
	logger := contextutil.LoggerFromContext(ctx)
	if strings.TrimSpace(text) == "" {
		return nil, WrapError(ErrInvalidInput, "source text is empty")
	}

	concepts, err := g.extractConcepts(ctx, text)
	if err != nil {
		return nil, WrapError(err, "concept extraction failed")
	}
	logger.Debug("concepts extracted", "count", len(concepts))

	raw, err := g.generateFromConcepts(ctx, text, concepts)
	if err != nil {
		return nil, WrapError(err, "question generation failed")
	}

	candidates := make([]verify.Candidate, 0, len(raw))
	for _, q := range raw {
		candidate := verify.Candidate{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Type:          q.Type,
			Concept:       q.Concept,
			Difficulty:    q.Difficulty,
		}
		if err := validateGenerated(q, &candidate); err != nil {
			logger.Warn("dropping invalid generated question", "error", err)
			continue
		}
		candidates = append(candidates, candidate)
	}
	if len(candidates) == 0 {
		return nil, ErrNoValidQuestions
	}
	return candidates, nil
}

func validateGenerated(q generatedQuestion, candidate *verify.Candidate) error {
	if q.Type != QuestionTypeMultipleChoice {
		return fmt.Errorf("unsupported question type %q", q.Type)
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return fmt.Errorf("question has no explanation")
	}
	candidate.Difficulty = math.Max(0, math.Min(1, q.Difficulty))
	return candidate.Validate()
}

func (g *Generator) extractConcepts(ctx context.Context, text string) ([]Concept, error) {
	prompt := fmt.Sprintf(`Extract the key concepts from the following text.

Text:
%s

Respond only in the following JSON format:
{
    "concepts": [
        {
            "concept": "key concept",
            "description": "description of the concept",
            "importance": 0.9
        }
    ]
}
The importance is a value between 0.0 and 1.0.`, text)

	content, err := g.client.Chat(ctx, prompt)
	if err != nil {
		return nil, WrapError(ErrExternalService, err.Error())
	}

	var parsed struct {
		Concepts []Concept `json:"concepts"`
	}
	if err := llm.ExtractJSON(content, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse concepts: %w", err)
	}
	return parsed.Concepts, nil
}

func (g *Generator) generateFromConcepts(ctx context.Context, text string, concepts []Concept) ([]generatedQuestion, error) {
	conceptsJSON, err := json.MarshalIndent(concepts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode concepts: %w", err)
	}

	prompt := fmt.Sprintf(`Generate quiz questions based on the following key concepts.

Key concepts:
%s

Source text:
%s

Follow these rules strictly:
1. Generate exactly %d multiple-choice questions.
2. Every question must be grounded in the source text and the extracted concepts.
3. Every question must have exactly 4 options.
4. The correct answer must match one of the options exactly.
5. The explanation must make clear why the answer is correct.
6. Question difficulty should reflect the concept's importance.
7. Do not write questions that refer to tables or figures.

Respond only in the following JSON format. Do not include any other text or explanation:
{
    "questions": [
        {
            "type": "multiple_choice",
            "question": "question text",
            "options": ["option 1", "option 2", "option 3", "option 4"],
            "correct_answer": "the correct answer (must match one option exactly)",
            "explanation": "why this answer is correct",
            "evidence": "the supporting passage from the source text",
            "concept": "the related key concept",
            "difficulty": 0.8
        }
    ]
}`, conceptsJSON, text, QuestionCount)

	content, err := g.client.Chat(ctx, prompt)
	if err != nil {
		return nil, WrapError(ErrExternalService, err.Error())
	}

	var parsed struct {
		Questions []generatedQuestion `json:"questions"`
	}
	if err := llm.ExtractJSON(content, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}
	return parsed.Questions, nil
}
