package profile

import (
	"time"
)

// Profile maps to the user_profile table. Only the attributes the scoring
// engine reads are modelled here.
type Profile struct {
	UserID      string     `db:"user_id" json:"user_id"`
	HasDiabetes *bool      `db:"has_diabetes" json:"has_diabetes,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Facts are derived from a Profile for every scoring request and never
// cached.
type Facts struct {
	HasDiabetes bool `json:"has_diabetes"`
	AgeYears    int  `json:"age_years"`
}

// AgeOn returns the number of full years between dob and now. A birthday
// later in the year than now has not happened yet. Future dates give 0.
func AgeOn(dob, now time.Time) int {
	dy, dm, dd := dob.Date()
	ny, nm, nd := now.In(dob.Location()).Date()
	age := ny - dy
	if nm < dm || (nm == dm && nd < dd) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// FactsFrom derives Facts from p as of now. A nil profile yields zero facts.
func FactsFrom(p *Profile, now time.Time) Facts {
	var f Facts
	if p == nil {
		return f
	}
	f.HasDiabetes = p.HasDiabetes != nil && *p.HasDiabetes
	if p.DateOfBirth != nil {
		f.AgeYears = AgeOn(*p.DateOfBirth, now)
	}
	return f
}
