package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/riskcheck/riskcheck/internal/config"
	"github.com/riskcheck/riskcheck/internal/domain/assessment"
	"github.com/riskcheck/riskcheck/internal/domain/catalog"
	"github.com/riskcheck/riskcheck/internal/domain/profile"
	"github.com/riskcheck/riskcheck/internal/platform/auth"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:            env,
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		RequestTimeout: 5 * time.Second,
		AuthSigningKey: strings.Repeat("s", 32),
	}
}

func testServices(t *testing.T) *services {
	t.Helper()
	bank, err := catalog.DefaultBank()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	return newServices(
		catalog.NewMemoryRepository(bank.Questions...),
		profile.NewMemoryRepository(),
		assessment.NewMemoryRepository(),
	)
}

func TestRouter_Health(t *testing.T) {
	e := newRouter(testConfig("development"), zerolog.Nop(), testServices(t))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected a request id header")
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready with no checks, got %d", rec.Code)
	}
}

func TestRouter_SubmitAndRead(t *testing.T) {
	e := newRouter(testConfig("development"), zerolog.Nop(), testServices(t))

	body := `{"illness_type":"glaucoma","answers":[{"question_id":"G1","answer":"Yes"},{"question_id":"G2","answer":"Yes"},{"question_id":"G4","answer":"Yes"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "patient-1")
	req.Header.Set("X-User-Roles", auth.RolePatient)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		AssessmentID string  `json:"assessment_id"`
		TotalScore   float64 `json:"total_score"`
		RiskLevel    string  `json:"risk_level"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.TotalScore != 5 || created.RiskLevel != "High" {
		t.Errorf("unexpected result: %+v", created)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/assessments/"+created.AssessmentID, nil)
	req.Header.Set("X-User-ID", "patient-1")
	req.Header.Set("X-User-Roles", auth.RolePatient)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_NotConfiguredType(t *testing.T) {
	e := newRouter(testConfig("development"), zerolog.Nop(), testServices(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", strings.NewReader(`{"illness_type":"asthma"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Roles", auth.RolePatient)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no questions configured for this type") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_RequiresTokenOutsideDevelopment(t *testing.T) {
	cfg := testConfig("production")
	e := newRouter(cfg, zerolog.Nop(), testServices(t))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/illness-types", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	token, err := auth.IssueToken(auth.JWTConfig{SigningKey: []byte(cfg.AuthSigningKey)}, "doc-1", []string{auth.RoleDoctor}, time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/illness-types", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers([]string{"G1=Yes", " G2 = No "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].QuestionID != "G2" || got[1].Answer != "No" {
		t.Errorf("unexpected answers: %+v", got)
	}

	for _, bad := range []string{"G1", "=Yes"} {
		if _, err := parseAnswers([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestScoreOffline(t *testing.T) {
	bank, err := catalog.DefaultBank()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	yes := true
	dob := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

	a, err := scoreOffline(context.Background(), bank, &profile.Profile{UserID: "offline", HasDiabetes: &yes, DateOfBirth: &dob}, "glaucoma", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g7, _ := a.Response("G7")
	g11, _ := a.Response("G11")
	if !g7.AutoPopulated || g7.Answer != "Yes" || g11.Answer != "Yes" {
		t.Errorf("expected auto-populated yes answers, got %+v %+v", g7, g11)
	}
	if a.TotalScore != g7.Score+g11.Score {
		t.Errorf("unexpected total %v", a.TotalScore)
	}
}

func TestScoreOffline_NormalizesBank(t *testing.T) {
	bank := &catalog.Bank{Questions: []*catalog.QuestionBankItem{
		{IllnessType: "Cancer", QuestionID: " C1 ", Text: "Family history?", Weight: 2},
		{IllnessType: "CANCER", QuestionID: "C6", Text: "Screened recently?", Weight: 1},
	}}

	a, err := scoreOffline(context.Background(), bank, nil, "Cancer", []assessment.AnswerInput{
		{QuestionID: "C1", Answer: "Yes"},
		{QuestionID: "C6", Answer: "No"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.IllnessType != "cancer" || a.TotalScore != 3 {
		t.Errorf("unexpected assessment: type=%s total=%v", a.IllnessType, a.TotalScore)
	}
}

func TestScoreOffline_RejectsInvalidBank(t *testing.T) {
	bank := &catalog.Bank{Questions: []*catalog.QuestionBankItem{
		{IllnessType: "glaucoma", QuestionID: "G1", Text: "Family history?", Weight: 0},
	}}

	a, err := scoreOffline(context.Background(), bank, nil, "glaucoma", nil)
	if !errors.Is(err, catalog.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question error, got %v", err)
	}
	if a != nil {
		t.Errorf("expected no assessment, got %+v", a)
	}
}
