package worker

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"quizbank-be/internal/entity"
)

// Length caps applied to model output before validation.
const (
	maxMcqStem        = 220
	maxMcqOption      = 120
	maxMcqExplanation = 700

	maxEssayStem        = 260
	maxEssayRingkas     = 220
	maxEssayPanjang     = 800
	maxEssayExplanation = 850
	maxRubricAspect     = 60
	maxKeywordConcept   = 60
	maxKeyword          = 32

	mcqOptionCount   = 5
	minKeywordGroups = 2
	maxKeywordGroups = 6
	maxKeywordsPer   = 8
	minRubricRows    = 1
	maxRubricRows    = 6
)

// Fallback texts used when the model omits a field entirely.
const (
	fallbackStem           = "Buat pertanyaan berdasarkan konteks."
	fallbackMcqExplanation = "Jawaban benar sesuai materi pada konteks yang diberikan."
	fallbackExplanation    = "Pembahasan ringkas berdasarkan materi pada konteks yang diberikan."
	fallbackRingkas        = "Jawaban ideal ringkas berdasarkan materi pada konteks."
	fallbackConcept        = "Konsep inti"
	fallbackKeyword        = "kata_kunci"
	padConcept             = "Konsep inti tambahan"
	padKeyword             = "kata_kunci_tambahan"
	fallbackRubricAspect   = "Ketepatan konsep"
)

// generatedQuestion is one model answer after coercion and normalization,
// ready for schema validation and persistence.
type generatedQuestion struct {
	BlueprintItemId string
	Type            entity.QuestionType
	Stem            string
	Options         []string
	AnswerKey       string
	Explanation     string
	ExpectedAnswer  *entity.EssayAnswer
	KeywordGroups   []entity.KeywordGroup
	Rubric          []entity.RubricCriterion
}

// coerceResults accepts the shapes models actually emit: a bare array, an
// object keyed results/result/data/items, a single question object, or a
// results field holding one object instead of an array. Anything else
// coerces to an empty set.
func coerceResults(raw json.RawMessage) []map[string]interface{} {
	var asArray []map[string]interface{}
	if err := json.Unmarshal(raw, &asArray); err == nil {
		return asArray
	}

	var asObject map[string]interface{}
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return nil
	}

	for _, key := range []string{"results", "result", "data", "items"} {
		v, ok := asObject[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []interface{}:
			out := make([]map[string]interface{}, 0, len(t))
			for _, item := range t {
				if m, ok := item.(map[string]interface{}); ok {
					out = append(out, m)
				}
			}
			return out
		case map[string]interface{}:
			return []map[string]interface{}{t}
		}
	}

	// A single question object at the top level
	if _, hasType := asObject["type"]; hasType {
		if _, hasId := asObject["blueprintItemId"]; hasId {
			return []map[string]interface{}{asObject}
		}
	}

	return nil
}

var (
	objectivePrefixRe = regexp.MustCompile(`(?i)^Peserta didik\s+dapat\s+`)
	answerKeyWordRe   = regexp.MustCompile(`\b([A-E])\b`)
	answerKeyLeadRe   = regexp.MustCompile(`^([A-E])[\.\)\:\-]`)
)

// normalizeQuestion repairs the omissions and format drift the model is known
// for, without ever rejecting: every rule has a deterministic fallback.
func normalizeQuestion(m map[string]interface{}) generatedQuestion {
	q := generatedQuestion{
		BlueprintItemId: strings.TrimSpace(stringField(m, "blueprintItemId")),
		Type:            entity.QuestionType(strings.ToUpper(strings.TrimSpace(stringField(m, "type")))),
	}

	q.Stem = strings.TrimSpace(stringField(m, "stem"))
	if q.Stem == "" {
		q.Stem = fallbackStem
	}

	if q.Type == entity.QuestionMCQ {
		q.Stem = clampRunes(q.Stem, maxMcqStem)
		q.Options = normalizeOptions(m["options"])
		q.AnswerKey = normalizeAnswerKey(m["answerKey"])
		q.Explanation = clampRunes(backfillExplanation(m, fallbackMcqExplanation), maxMcqExplanation)
		return q
	}

	q.Stem = clampRunes(q.Stem, maxEssayStem)
	q.Explanation = clampRunes(backfillExplanation(m, fallbackExplanation), maxEssayExplanation)
	q.ExpectedAnswer = normalizeExpectedAnswer(m["expectedAnswer"])
	q.KeywordGroups = normalizeKeywordGroups(m["keywordGroups"])
	q.Rubric = normalizeRubric(m["rubric"])
	return q
}

// backfillExplanation walks the aliases models use for explanations, then
// falls back to the essay summary, then to a fixed text.
func backfillExplanation(m map[string]interface{}, fallback string) string {
	for _, key := range []string{"explanation", "rationale", "pembahasan", "penjelasan", "analysis", "reason"} {
		if s := strings.TrimSpace(stringField(m, key)); s != "" {
			return s
		}
	}
	if ea, ok := m["expectedAnswer"].(map[string]interface{}); ok {
		if ringkas := strings.TrimSpace(stringField(ea, "ringkas")); ringkas != "" {
			return "Pembahasan ringkas: " + ringkas
		}
	}
	return fallback
}

func normalizeOptions(raw interface{}) []string {
	items, _ := raw.([]interface{})
	if len(items) > mcqOptionCount {
		items = items[:mcqOptionCount]
	}

	options := make([]string, 0, mcqOptionCount)
	for _, item := range items {
		var text string
		switch t := item.(type) {
		case string:
			text = objectivePrefixRe.ReplaceAllString(strings.TrimSpace(t), "")
		case map[string]interface{}:
			body := firstString(t, "text", "value", "content", "option")
			label := firstString(t, "label", "key", "id")
			switch {
			case body != "" && label != "":
				text = label + ". " + body
			case body != "":
				text = body
			default:
				encoded, _ := json.Marshal(t)
				text = string(encoded)
			}
		default:
			text = fmt.Sprintf("%v", item)
		}
		options = append(options, clampRunes(text, maxMcqOption))
	}

	for len(options) < mcqOptionCount {
		options = append(options, "...")
	}
	return options
}

func normalizeAnswerKey(raw interface{}) string {
	switch t := raw.(type) {
	case string:
		upper := strings.ToUpper(strings.TrimSpace(t))
		if m := answerKeyWordRe.FindStringSubmatch(upper); m != nil {
			return m[1]
		}
		if m := answerKeyLeadRe.FindStringSubmatch(upper); m != nil {
			return m[1]
		}
	case float64:
		n := int(t)
		if n >= 1 && n <= 5 {
			return string(rune('A' + n - 1))
		}
	}
	return "A"
}

func normalizeExpectedAnswer(raw interface{}) *entity.EssayAnswer {
	out := &entity.EssayAnswer{}
	if m, ok := raw.(map[string]interface{}); ok {
		out.Ringkas = strings.TrimSpace(stringField(m, "ringkas"))
		out.Panjang = clampRunes(strings.TrimSpace(stringField(m, "panjang")), maxEssayPanjang)
	} else if s, ok := raw.(string); ok {
		out.Ringkas = strings.TrimSpace(s)
	}
	if out.Ringkas == "" {
		out.Ringkas = fallbackRingkas
	}
	out.Ringkas = clampRunes(out.Ringkas, maxEssayRingkas)
	return out
}

func normalizeKeywordGroups(raw interface{}) []entity.KeywordGroup {
	items, _ := raw.([]interface{})
	if len(items) > maxKeywordGroups {
		items = items[:maxKeywordGroups]
	}

	groups := make([]entity.KeywordGroup, 0, maxKeywordGroups)
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		group := entity.KeywordGroup{
			Concept: clampRunes(strings.TrimSpace(stringField(m, "concept")), maxKeywordConcept),
		}
		if group.Concept == "" {
			group.Concept = fallbackConcept
		}

		if kws, ok := m["must_have_one_of"].([]interface{}); ok {
			for _, kw := range kws {
				if s, ok := kw.(string); ok && strings.TrimSpace(s) != "" {
					group.MustHaveOneOf = append(group.MustHaveOneOf, clampRunes(strings.TrimSpace(s), maxKeyword))
				}
				if len(group.MustHaveOneOf) == maxKeywordsPer {
					break
				}
			}
		}
		if len(group.MustHaveOneOf) == 0 {
			group.MustHaveOneOf = []string{fallbackKeyword}
		}
		groups = append(groups, group)
	}

	for len(groups) < minKeywordGroups {
		groups = append(groups, entity.KeywordGroup{
			Concept:       padConcept,
			MustHaveOneOf: []string{padKeyword},
		})
	}
	return groups
}

func normalizeRubric(raw interface{}) []entity.RubricCriterion {
	items, _ := raw.([]interface{})
	if len(items) > maxRubricRows {
		items = items[:maxRubricRows]
	}

	rubric := make([]entity.RubricCriterion, 0, maxRubricRows)
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		row := entity.RubricCriterion{
			Aspect: clampRunes(strings.TrimSpace(stringField(m, "aspect")), maxRubricAspect),
			Points: normalizePoints(m["points"]),
		}
		if row.Aspect == "" {
			row.Aspect = fallbackRubricAspect
		}
		rubric = append(rubric, row)
	}

	if len(rubric) == 0 {
		rubric = []entity.RubricCriterion{
			{Aspect: "Ketepatan konsep", Points: 4},
			{Aspect: "Kejelasan penjelasan", Points: 3},
			{Aspect: "Kelengkapan poin penting", Points: 3},
		}
	}
	return rubric
}

func normalizePoints(raw interface{}) int {
	f, ok := raw.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 3
	}
	n := int(math.Round(f))
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(stringField(m, key)); s != "" {
			return s
		}
	}
	return ""
}

func clampRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
