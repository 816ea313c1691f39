package assessment

import (
	"time"

	"github.com/google/uuid"
)

const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
)

// AnswerInput is one client-submitted answer.
type AnswerInput struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// ScoredResponse is the engine's verdict on one question.
type ScoredResponse struct {
	QuestionID    string  `json:"question_id"`
	Answer        string  `json:"answer"`
	Score         float64 `json:"score"`
	AutoPopulated bool    `json:"auto_populated"`
}

type WarningCode string

const (
	WarnUnknownQuestion      WarningCode = "unknown_question"
	WarnProfileNotFound      WarningCode = "profile_not_found"
	WarnDuplicateAnswer      WarningCode = "duplicate_answer"
	WarnAutoPopulatedIgnored WarningCode = "auto_populated_ignored"
	WarnAutoQuestionMissing  WarningCode = "auto_question_missing"
)

// Warning records a degradation the engine recovered from. A run with
// warnings still produces a valid assessment.
type Warning struct {
	Code       WarningCode `json:"code"`
	QuestionID string      `json:"question_id,omitempty"`
	Message    string      `json:"message"`
}

// Assessment is written once and never updated. Resubmitting creates a new
// one.
type Assessment struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	UserID          string           `db:"user_id" json:"user_id"`
	IllnessType     string           `db:"illness_type" json:"illness_type"`
	Responses       []ScoredResponse `json:"responses"`
	TotalScore      float64          `db:"total_score" json:"total_score"`
	RiskLevel       string           `db:"risk_level" json:"risk_level"`
	Recommendations []string         `db:"recommendations" json:"recommendations"`
	Warnings        []Warning        `db:"warnings" json:"warnings,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}

// Response looks up the scored response for questionID.
func (a *Assessment) Response(questionID string) (ScoredResponse, bool) {
	for _, r := range a.Responses {
		if r.QuestionID == questionID {
			return r, true
		}
	}
	return ScoredResponse{}, false
}

// Completed is the payload of the assessment.completed event.
type Completed struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
	UserID       string    `json:"user_id"`
	IllnessType  string    `json:"illness_type"`
	TotalScore   float64   `json:"total_score"`
	RiskLevel    string    `json:"risk_level"`
	CreatedAt    time.Time `json:"created_at"`
}

const EventCompleted = "assessment.completed"
