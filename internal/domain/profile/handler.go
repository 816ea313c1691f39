package profile

import (
	"errors"
	"net/http"
	"time"

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
	g := api.Group("", auth.RequireRole(auth.RolePatient))
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.PutProfile)
}

// profileRequest accepts the date of birth as a plain calendar date.
type profileRequest struct {
	HasDiabetes *bool   `json:"has_diabetes"`
	DateOfBirth *string `json:"date_of_birth"`
}

func (h *Handler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.svc.Get(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) PutProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	p := &Profile{UserID: auth.UserIDFromContext(ctx), HasDiabetes: req.HasDiabetes}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
		}
		p.DateOfBirth = &dob
	}
	if err := h.svc.Save(ctx, p); err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}
