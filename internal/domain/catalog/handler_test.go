package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo) {
	t.Helper()
	return NewHandler(newSeededService(t)), echo.New()
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	return httpErr.Code
}

func TestHandler_ListTypes(t *testing.T) {
	h, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := h.ListTypes(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"cancer","glaucoma"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandler_ListQuestions(t *testing.T) {
	h, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("type")
	c.SetParamValues("cancer")

	if err := h.ListQuestions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		IllnessType string              `json:"illness_type"`
		Questions   []*QuestionBankItem `json:"questions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.IllnessType != "cancer" || len(body.Questions) != 6 {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestHandler_ListQuestions_NotConfigured(t *testing.T) {
	h, e := newTestHandler(t)
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("type")
	c.SetParamValues("asthma")

	if code := httpCode(t, h.ListQuestions(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestHandler_UpsertQuestion(t *testing.T) {
	h, e := newTestHandler(t)
	body := `{"text":"Do you have a family history?","weight":1.5,"sort_order":1}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("type", "qid")
	c.SetParamValues("Asthma", "A1")

	if err := h.UpsertQuestion(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if _, err := h.svc.Get(context.Background(), "asthma", "A1"); err != nil {
		t.Errorf("expected stored question: %v", err)
	}
}

func TestHandler_UpsertQuestion_InvalidWeight(t *testing.T) {
	h, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"text":"q","weight":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("type", "qid")
	c.SetParamValues("asthma", "A1")

	if code := httpCode(t, h.UpsertQuestion(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_DeleteQuestion(t *testing.T) {
	h, e := newTestHandler(t)
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("type", "qid")
	c.SetParamValues("glaucoma", "G3")
	if err := h.DeleteQuestion(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("type", "qid")
	c.SetParamValues("glaucoma", "G3")
	if code := httpCode(t, h.DeleteQuestion(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestHandler_GetQuestion(t *testing.T) {
	h, e := newTestHandler(t)
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("type", "qid")
	c.SetParamValues("Glaucoma", "G7")
	if err := h.GetQuestion(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var it QuestionBankItem
	if err := json.Unmarshal(rec.Body.Bytes(), &it); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if it.IllnessType != "glaucoma" || it.QuestionID != "G7" || !it.AutoPopulate {
		t.Errorf("unexpected question: %+v", it)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("type", "qid")
	c.SetParamValues("glaucoma", "G99")
	if code := httpCode(t, h.GetQuestion(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}
