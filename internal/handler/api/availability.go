package api

import (
	"errors"
	"net/http"

	"reserva-api/internal/handler/httperr"
	"reserva-api/internal/pkg/errs"
	"reserva-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	queries queries.AvailabilityQueries
}

func NewAvailabilityHandler(qrys queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{queries: qrys}
}

// @Summary Resource availability
// @Description Day grid of bookable slots for one resource
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} queries.ResourceAvailabilityView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/availability [get]
func (h *AvailabilityHandler) ForResource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID", nil)
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("date is required"), "date query parameter is required", nil)
		return
	}

	view, err := h.queries.ForResource(c.Request.Context(), id, date)
	if err != nil {
		abortAvailabilityError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Site availability
// @Description Day grids for every active resource of a site
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param code path string true "Site code"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param type query string false "Resource type code"
// @Success 200 {object} queries.SiteAvailabilityView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sites/{code}/availability [get]
func (h *AvailabilityHandler) ForSite(c *gin.Context) {
	code := c.Param("code")

	date := c.Query("date")
	if date == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("date is required"), "date query parameter is required", nil)
		return
	}

	view, err := h.queries.ForSite(c.Request.Context(), code, c.Query("type"), date)
	if err != nil {
		abortAvailabilityError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func abortAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrResourceNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
	case errors.Is(err, errs.ErrSiteNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Site not found", nil)
	case errors.Is(err, errs.ErrInvalidInterval):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
