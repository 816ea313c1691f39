package assessment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/riskcheck/riskcheck/internal/platform/auth"
	"github.com/riskcheck/riskcheck/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := api.Group("", auth.RequireRole(auth.RolePatient))
	write.POST("/assessments", h.Submit)

	read := api.Group("", auth.RequireRole(auth.RolePatient, auth.RoleDoctor))
	read.GET("/assessments", h.List)
	read.GET("/assessments/:id", h.Get)
}

// submitResponse is the summary returned to the submitting client.
type submitResponse struct {
	AssessmentID    uuid.UUID        `json:"assessment_id"`
	IllnessType     string           `json:"illness_type"`
	TotalScore      float64          `json:"total_score"`
	RiskLevel       string           `json:"risk_level"`
	Recommendations []string         `json:"recommendations"`
	Responses       []ScoredResponse `json:"responses"`
	Warnings        []Warning        `json:"warnings,omitempty"`
}

func (h *Handler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	req.UserID = auth.UserIDFromContext(ctx)

	a, err := h.svc.Submit(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNoQuestions):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrPersist):
			return echo.NewHTTPError(http.StatusInternalServerError, ErrPersist.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, submitResponse{
		AssessmentID:    a.ID,
		IllnessType:     a.IllnessType,
		TotalScore:      a.TotalScore,
		RiskLevel:       a.RiskLevel,
		Recommendations: a.Recommendations,
		Responses:       a.Responses,
		Warnings:        a.Warnings,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// Other users' assessments are reported as missing.
	if a.UserID != auth.UserIDFromContext(ctx) && !auth.HasRole(ctx, auth.RoleDoctor) {
		return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserIDFromContext(ctx)
	if other := c.QueryParam("user_id"); other != "" && other != userID {
		if !auth.HasRole(ctx, auth.RoleDoctor) {
			return echo.NewHTTPError(http.StatusForbidden, "cannot list another user's assessments")
		}
		userID = other
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(ctx, userID, c.QueryParam("illness_type"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Assessment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}
