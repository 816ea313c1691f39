package catalog

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/riskcheck/riskcheck/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RolePatient, auth.RoleDoctor))
	read.GET("/illness-types", h.ListTypes)
	read.GET("/illness-types/:type/questions", h.ListQuestions)
	read.GET("/illness-types/:type/questions/:qid", h.GetQuestion)

	write := api.Group("", auth.RequireRole(auth.RoleAdmin))
	write.PUT("/illness-types/:type/questions/:qid", h.UpsertQuestion)
	write.DELETE("/illness-types/:type/questions/:qid", h.DeleteQuestion)
}

func (h *Handler) ListTypes(c echo.Context) error {
	types, err := h.svc.ListTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if types == nil {
		types = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"illness_types": types})
}

func (h *Handler) ListQuestions(c echo.Context) error {
	cat, err := h.svc.Resolve(c.Request().Context(), c.Param("type"))
	if err != nil {
		if errors.Is(err, ErrInvalidQuestion) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if cat.Len() == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no questions configured for this type")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"illness_type": cat.IllnessType,
		"questions":    cat.Items(),
	})
}

func (h *Handler) GetQuestion(c echo.Context) error {
	it, err := h.svc.Get(c.Request().Context(), c.Param("type"), c.Param("qid"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) UpsertQuestion(c echo.Context) error {
	var it QuestionBankItem
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it.IllnessType = c.Param("type")
	it.QuestionID = c.Param("qid")
	if err := h.svc.Upsert(c.Request().Context(), &it); err != nil {
		if errors.Is(err, ErrInvalidQuestion) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) DeleteQuestion(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("type"), c.Param("qid")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
