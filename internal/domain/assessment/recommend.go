package assessment

import "github.com/riskcheck/riskcheck/internal/domain/profile"

// Recommend returns the guidance for total. The consult message is always
// first, followed by the bracket guidance and any profile addenda.
func Recommend(s *Strategy, total float64, facts profile.Facts) []string {
	recs := []string{consultMessage}
	if text, ok := s.Guidance[Classify(s, total)]; ok {
		recs = append(recs, text)
	}
	for _, a := range s.Addenda {
		if a.Fact.Holds(facts) {
			recs = append(recs, a.Text)
		}
	}
	return recs
}
