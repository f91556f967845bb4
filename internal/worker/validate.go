package worker

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"quizbank-be/internal/entity"
)

var questionValidate = validator.New()

type mcqPayload struct {
	BlueprintItemId string   `validate:"required,min=10"`
	Stem            string   `validate:"required,min=10,max=220"`
	Options         []string `validate:"required,len=5,dive,min=3,max=120"`
	AnswerKey       string   `validate:"required,oneof=A B C D E"`
	Explanation     string   `validate:"required,min=20,max=700"`
}

type keywordGroupPayload struct {
	Concept       string   `validate:"required,max=60"`
	MustHaveOneOf []string `validate:"required,min=1,max=8,dive,min=1,max=32"`
}

type rubricPayload struct {
	Aspect string `validate:"required,max=60"`
	Points int    `validate:"required,min=1,max=10"`
}

type essayPayload struct {
	BlueprintItemId string                `validate:"required,min=10"`
	Stem            string                `validate:"required,min=10,max=260"`
	Ringkas         string                `validate:"required,max=220"`
	Panjang         string                `validate:"omitempty,max=800"`
	Explanation     string                `validate:"required,min=20,max=850"`
	KeywordGroups   []keywordGroupPayload `validate:"required,min=2,max=6,dive"`
	Rubric          []rubricPayload       `validate:"required,min=1,max=6,dive"`
}

// validateQuestion enforces the output schema after normalization. A failure
// here means the model output is unusable even after repair, which the
// caller treats as a batch-level error.
func validateQuestion(q generatedQuestion) error {
	switch q.Type {
	case entity.QuestionMCQ:
		payload := mcqPayload{
			BlueprintItemId: q.BlueprintItemId,
			Stem:            q.Stem,
			Options:         q.Options,
			AnswerKey:       q.AnswerKey,
			Explanation:     q.Explanation,
		}
		if err := questionValidate.Struct(payload); err != nil {
			return fmt.Errorf("mcq %s: %w", q.BlueprintItemId, err)
		}
		return nil

	case entity.QuestionEssay:
		if q.ExpectedAnswer == nil {
			return fmt.Errorf("essay %s: expected answer missing", q.BlueprintItemId)
		}
		payload := essayPayload{
			BlueprintItemId: q.BlueprintItemId,
			Stem:            q.Stem,
			Ringkas:         q.ExpectedAnswer.Ringkas,
			Panjang:         q.ExpectedAnswer.Panjang,
			Explanation:     q.Explanation,
		}
		for _, g := range q.KeywordGroups {
			payload.KeywordGroups = append(payload.KeywordGroups, keywordGroupPayload{
				Concept:       g.Concept,
				MustHaveOneOf: g.MustHaveOneOf,
			})
		}
		for _, r := range q.Rubric {
			payload.Rubric = append(payload.Rubric, rubricPayload{
				Aspect: r.Aspect,
				Points: r.Points,
			})
		}
		if err := questionValidate.Struct(payload); err != nil {
			return fmt.Errorf("essay %s: %w", q.BlueprintItemId, err)
		}
		return nil

	default:
		return fmt.Errorf("question %s: unknown type %q", q.BlueprintItemId, q.Type)
	}
}
