package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/riskcheck/riskcheck/internal/domain/catalog"
	"github.com/riskcheck/riskcheck/internal/domain/profile"
	"github.com/riskcheck/riskcheck/internal/platform/events"
)

var (
	ErrInvalidInput = errors.New("invalid assessment request")
	ErrNoQuestions  = errors.New("no questions configured for this type")
	ErrPersist      = errors.New("failed to store assessment")
)

type CatalogResolver interface {
	Resolve(ctx context.Context, illnessType string) (*catalog.Catalog, error)
}

type FactExtractor interface {
	Extract(ctx context.Context, userID string) (profile.Facts, bool, error)
}

type SubmitRequest struct {
	UserID      string        `json:"-"`
	IllnessType string        `json:"illness_type"`
	Answers     []AnswerInput `json:"answers"`
}

type Service struct {
	repo      Repository
	catalogs  CatalogResolver
	facts     FactExtractor
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, catalogs CatalogResolver, facts FactExtractor) *Service {
	return &Service{
		repo:      repo,
		catalogs:  catalogs,
		facts:     facts,
		publisher: events.Noop{},
		now:       time.Now,
	}
}

// SetPublisher enables assessment.completed events.
func (s *Service) SetPublisher(p events.Publisher) {
	s.publisher = p
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Submit scores one questionnaire and stores the result. Unknown questions
// and a missing profile degrade into warnings on the returned assessment.
// Nothing is stored when the illness type has no questions.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Assessment, error) {
	log := zerolog.Ctx(ctx)

	req.UserID = strings.TrimSpace(req.UserID)
	illnessType := catalog.NormalizeType(req.IllnessType)
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if illnessType == "" {
		return nil, fmt.Errorf("%w: illness_type is required", ErrInvalidInput)
	}
	for i, in := range req.Answers {
		if strings.TrimSpace(in.QuestionID) == "" {
			return nil, fmt.Errorf("%w: answers[%d].question_id is required", ErrInvalidInput, i)
		}
	}

	cat, err := s.catalogs.Resolve(ctx, illnessType)
	if err != nil {
		return nil, err
	}
	if cat.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestions, illnessType)
	}

	facts, found, err := s.facts.Extract(ctx, req.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", req.UserID).Msg("profile lookup failed, scoring without profile facts")
	}

	strategy := StrategyFor(ParseIllnessType(illnessType))
	res := Score(strategy, cat, facts, req.Answers)

	warnings := res.Warnings
	if !found {
		warnings = append([]Warning{{
			Code:    WarnProfileNotFound,
			Message: "no profile found; auto-populated questions scored as No",
		}}, warnings...)
	}

	a := &Assessment{
		ID:              uuid.New(),
		UserID:          req.UserID,
		IllnessType:     illnessType,
		Responses:       res.Responses,
		TotalScore:      res.Total,
		RiskLevel:       res.RiskLevel,
		Recommendations: Recommend(strategy, res.Total, facts),
		Warnings:        warnings,
		CreatedAt:       s.now().UTC(),
	}
	for _, w := range a.Warnings {
		log.Warn().
			Str("assessment_id", a.ID.String()).
			Str("code", string(w.Code)).
			Str("question_id", w.QuestionID).
			Msg(w.Message)
	}

	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := s.publisher.Publish(ctx, EventCompleted, Completed{
		AssessmentID: a.ID,
		UserID:       a.UserID,
		IllnessType:  a.IllnessType,
		TotalScore:   a.TotalScore,
		RiskLevel:    a.RiskLevel,
		CreatedAt:    a.CreatedAt,
	}); err != nil {
		log.Warn().Err(err).Str("assessment_id", a.ID.String()).Msg("publish assessment event")
	}

	log.Info().
		Str("assessment_id", a.ID.String()).
		Str("illness_type", a.IllnessType).
		Float64("total_score", a.TotalScore).
		Str("risk_level", a.RiskLevel).
		Msg("assessment completed")
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, userID, illnessType string, limit, offset int) ([]*Assessment, int, error) {
	return s.repo.ListByUser(ctx, userID, catalog.NormalizeType(illnessType), limit, offset)
}
