package assessment

import (
	"fmt"
	"math"
	"strings"

	"github.com/riskcheck/riskcheck/internal/domain/catalog"
	"github.com/riskcheck/riskcheck/internal/domain/profile"
)

// Result is the outcome of scoring one submission.
type Result struct {
	Responses []ScoredResponse
	// RawTotal is the sum before clamping.
	RawTotal  float64
	Total     float64
	RiskLevel string
	Warnings  []Warning
}

// Score turns a catalog, profile facts and client answers into scored
// responses, a clamped total and a risk level. It does no I/O.
//
// Auto-populated responses come first, followed by manual answers in input
// order. A question answered more than once keeps its first position and
// its last answer.
func Score(s *Strategy, cat *catalog.Catalog, facts profile.Facts, answers []AnswerInput) Result {
	var res Result

	for _, rule := range s.AutoRules {
		item, ok := cat.Lookup(rule.QuestionID)
		if !ok {
			res.warn(WarnAutoQuestionMissing, rule.QuestionID, "auto-populated question is not configured; skipped")
			continue
		}
		r := ScoredResponse{QuestionID: item.QuestionID, Answer: AnswerNo, AutoPopulated: true}
		if rule.Fact.Holds(facts) {
			r.Answer = AnswerYes
			r.Score = item.Weight
		}
		res.Responses = append(res.Responses, r)
	}

	seen := make(map[string]int, len(answers))
	for _, in := range answers {
		id := strings.TrimSpace(in.QuestionID)
		if _, auto := s.autoRule(id); auto {
			res.warn(WarnAutoPopulatedIgnored, id, "answer is derived from the profile; submitted value ignored")
			continue
		}
		r := scoreManual(s, cat, id, in.Answer)
		if _, ok := cat.Lookup(id); !ok {
			res.warn(WarnUnknownQuestion, id, "question is not in the catalog; scored as 0")
		}
		if i, dup := seen[id]; dup {
			res.warn(WarnDuplicateAnswer, id, fmt.Sprintf("answered more than once; keeping %q", in.Answer))
			res.Responses[i] = r
			continue
		}
		seen[id] = len(res.Responses)
		res.Responses = append(res.Responses, r)
	}

	for _, r := range res.Responses {
		res.RawTotal += r.Score
	}
	res.RawTotal = roundScore(res.RawTotal)
	res.Total = Clamp(res.RawTotal)
	res.RiskLevel = Classify(s, res.Total)
	return res
}

func scoreManual(s *Strategy, cat *catalog.Catalog, questionID, answer string) ScoredResponse {
	r := ScoredResponse{QuestionID: questionID, Answer: answer}
	item, ok := cat.Lookup(questionID)
	if !ok {
		return r
	}
	if o, ok := s.Overrides[questionID]; ok {
		r.Score = o.Score(answer)
		return r
	}
	if answer == AnswerYes {
		r.Score = item.Weight
	}
	return r
}

// Clamp floors total at zero. There is no upper bound.
func Clamp(total float64) float64 {
	if total < 0 {
		return 0
	}
	return total
}

// Classify maps total onto the strategy's threshold ladder.
func Classify(s *Strategy, total float64) string {
	for _, t := range s.Ladder {
		if total > t.Min || (!s.Strict && total == t.Min) {
			return t.Label
		}
	}
	return s.Floor
}

// roundScore drops float noise from summing fractional weights so that
// totals such as 2.1 land exactly on their threshold.
func roundScore(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func (r *Result) warn(code WarningCode, questionID, msg string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, QuestionID: questionID, Message: msg})
}
