package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizbank-be/internal/entity"
)

func validMcq() generatedQuestion {
	return generatedQuestion{
		BlueprintItemId: "4f4b3f8a-0000-0000-0000-000000000001",
		Type:            entity.QuestionMCQ,
		Stem:            "Apa tujuan utama normalisasi basis data?",
		Options: []string{
			"Mengurangi redundansi",
			"Mempercepat query",
			"Menambah tabel",
			"Menghapus indeks",
			"Menggabungkan relasi",
		},
		AnswerKey:   "A",
		Explanation: "Normalisasi menghilangkan redundansi dan anomali data.",
	}
}

func validEssay() generatedQuestion {
	return generatedQuestion{
		BlueprintItemId: "4f4b3f8a-0000-0000-0000-000000000002",
		Type:            entity.QuestionEssay,
		Stem:            "Jelaskan perbedaan 2NF dan 3NF.",
		Explanation:     "Pembahasan membandingkan ketergantungan parsial dan transitif.",
		ExpectedAnswer:  &entity.EssayAnswer{Ringkas: "2NF menghapus ketergantungan parsial."},
		KeywordGroups: []entity.KeywordGroup{
			{Concept: "2NF", MustHaveOneOf: []string{"parsial"}},
			{Concept: "3NF", MustHaveOneOf: []string{"transitif"}},
		},
		Rubric: []entity.RubricCriterion{{Aspect: "Ketepatan konsep", Points: 5}},
	}
}

func TestValidateQuestion(t *testing.T) {
	require.NoError(t, validateQuestion(validMcq()))
	require.NoError(t, validateQuestion(validEssay()))

	short := validMcq()
	short.Stem = "Apa?"
	assert.Error(t, validateQuestion(short))

	badKey := validMcq()
	badKey.AnswerKey = "F"
	assert.Error(t, validateQuestion(badKey))

	fourOptions := validMcq()
	fourOptions.Options = fourOptions.Options[:4]
	assert.Error(t, validateQuestion(fourOptions))

	noAnswer := validEssay()
	noAnswer.ExpectedAnswer = nil
	assert.Error(t, validateQuestion(noAnswer))

	oneGroup := validEssay()
	oneGroup.KeywordGroups = oneGroup.KeywordGroups[:1]
	assert.Error(t, validateQuestion(oneGroup))

	unknown := validMcq()
	unknown.Type = "TRUE_FALSE"
	assert.Error(t, validateQuestion(unknown))
}
