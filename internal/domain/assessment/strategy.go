package assessment

import (
	"strings"

	"github.com/riskcheck/riskcheck/internal/domain/profile"
)

// IllnessType selects a scoring strategy. Any type without a bespoke
// strategy scores as Generic.
type IllnessType string

const (
	Glaucoma IllnessType = "glaucoma"
	Cancer   IllnessType = "cancer"
	Generic  IllnessType = "generic"
)

func ParseIllnessType(s string) IllnessType {
	switch t := IllnessType(strings.ToLower(strings.TrimSpace(s))); t {
	case Glaucoma, Cancer:
		return t
	default:
		return Generic
	}
}

// Fact is a yes/no predicate over profile facts.
type Fact string

const (
	FactDiabetes  Fact = "has_diabetes"
	FactAgeOver40 Fact = "age_over_40"
)

func (f Fact) Holds(facts profile.Facts) bool {
	switch f {
	case FactDiabetes:
		return facts.HasDiabetes
	case FactAgeOver40:
		return facts.AgeYears > 40
	default:
		return false
	}
}

// AutoRule answers QuestionID from a profile fact instead of the client.
type AutoRule struct {
	QuestionID string
	Fact       Fact
}

// Override replaces the weight-based score of one question. Answers other
// than Yes or No score 0.
type Override struct {
	Yes float64
	No  float64
}

func (o Override) Score(answer string) float64 {
	switch answer {
	case AnswerYes:
		return o.Yes
	case AnswerNo:
		return o.No
	default:
		return 0
	}
}

// Threshold is one rung of a classification ladder.
type Threshold struct {
	Min   float64
	Label string
}

// Addendum is extra guidance appended when Fact holds.
type Addendum struct {
	Fact Fact
	Text string
}

// Strategy holds everything that differs between illness types.
type Strategy struct {
	Type      IllnessType
	AutoRules []AutoRule
	Overrides map[string]Override
	// Ladder is ordered from the highest Min down. A total reaching no rung
	// is classified as Floor.
	Ladder []Threshold
	Floor  string
	// Strict compares with > instead of >=.
	Strict   bool
	Guidance map[string]string
	Addenda  []Addendum
}

const consultMessage = "Consult a healthcare professional to discuss your results and any symptoms you have noticed."

var strategies = map[IllnessType]*Strategy{
	Glaucoma: {
		Type: Glaucoma,
		AutoRules: []AutoRule{
			{QuestionID: "G7", Fact: FactDiabetes},
			{QuestionID: "G11", Fact: FactAgeOver40},
		},
		Ladder: []Threshold{
			{Min: 8, Label: "Critical"},
			{Min: 5, Label: "High"},
			{Min: 2.1, Label: "Moderate"},
		},
		Floor: "Low",
		Guidance: map[string]string{
			"Critical": "Your answers indicate a critical glaucoma risk. Book an eye examination with an ophthalmologist as soon as possible.",
			"High":     "Your answers indicate a high glaucoma risk. Schedule a comprehensive eye examination, including eye pressure measurement, within the next few weeks.",
			"Moderate": "Your answers indicate a moderate glaucoma risk. Arrange a routine eye examination and mention any family history of glaucoma.",
			"Low":      "Your answers indicate a low glaucoma risk. Keep up regular eye check-ups every one to two years.",
		},
		Addenda: []Addendum{
			{Fact: FactDiabetes, Text: "Diabetes raises the risk of glaucoma and other eye conditions. Have a dilated eye examination every year."},
			{Fact: FactAgeOver40, Text: "Glaucoma risk increases after age 40. Have your eye pressure and optic nerve checked regularly."},
		},
	},
	Cancer: {
		Type: Cancer,
		AutoRules: []AutoRule{
			{QuestionID: "C5", Fact: FactDiabetes},
		},
		Overrides: map[string]Override{
			// Screening already performed lowers the risk.
			"C6": {Yes: -1, No: 1},
		},
		Ladder: []Threshold{
			{Min: 9, Label: "Very High"},
			{Min: 7, Label: "High"},
			{Min: 5, Label: "Localized"},
			{Min: 3, Label: "Moderate"},
		},
		Floor: "Low",
		Guidance: map[string]string{
			"Very High": "Your answers indicate a very high cancer risk. See a doctor promptly for a clinical evaluation and appropriate screening tests.",
			"High":      "Your answers indicate a high cancer risk. Make an appointment with your doctor to discuss screening options soon.",
			"Localized": "Your answers point to localized risk factors. Discuss the affected areas with your doctor at your next visit.",
			"Moderate":  "Your answers indicate a moderate cancer risk. Follow the recommended screening schedule for your age and sex.",
			"Low":       "Your answers indicate a low cancer risk. Maintain a healthy lifestyle and attend routine screenings.",
		},
		Addenda: []Addendum{
			{Fact: FactDiabetes, Text: "Diabetes is associated with a higher risk of some cancers. Keep your blood sugar under control and mention your diabetes during screenings."},
		},
	},
	Generic: {
		Type: Generic,
		Ladder: []Threshold{
			{Min: 7.5, Label: "Very high risk"},
			{Min: 5, Label: "High risk"},
			{Min: 2.5, Label: "Moderate risk"},
		},
		Floor:  "Low risk",
		Strict: true,
	},
}

// StrategyFor never returns nil. The result is a private copy of the
// built-in table; changing it does not affect other callers.
func StrategyFor(t IllnessType) *Strategy {
	s, ok := strategies[t]
	if !ok {
		s = strategies[Generic]
	}
	return s.clone()
}

func (s *Strategy) clone() *Strategy {
	c := *s
	c.AutoRules = append([]AutoRule(nil), s.AutoRules...)
	c.Ladder = append([]Threshold(nil), s.Ladder...)
	c.Addenda = append([]Addendum(nil), s.Addenda...)
	if s.Overrides != nil {
		c.Overrides = make(map[string]Override, len(s.Overrides))
		for k, v := range s.Overrides {
			c.Overrides[k] = v
		}
	}
	if s.Guidance != nil {
		c.Guidance = make(map[string]string, len(s.Guidance))
		for k, v := range s.Guidance {
			c.Guidance[k] = v
		}
	}
	return &c
}

func (s *Strategy) autoRule(questionID string) (AutoRule, bool) {
	for _, r := range s.AutoRules {
		if r.QuestionID == questionID {
			return r, true
		}
	}
	return AutoRule{}, false
}
