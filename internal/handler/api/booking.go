package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	reqdto "reserva-api/internal/handler/dto/request"
	resdto "reserva-api/internal/handler/dto/response"
	"reserva-api/internal/handler/httperr"
	"reserva-api/internal/handler/middleware"
	"reserva-api/internal/pkg/errs"
	"reserva-api/internal/usecase/commands"
	"reserva-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, qrys queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: cmds,
		queries:  qrys,
	}
}

// @Summary Create booking
// @Description Book a resource for a time slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.commands.Create(c.Request.Context(), actor, req.ToParams())
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings
// @Description List bookings visible to the caller, with optional filters
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param site query string false "Site code"
// @Param resource query string false "Resource code fragment"
// @Param type query string false "Resource type code"
// @Param status query string false "Booking status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD), inclusive"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} resdto.BookingListResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	items, err := h.queries.List(c.Request.Context(), actor, filter)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingListItems(items))
}

// @Summary Reschedule booking
// @Description Move a confirmed booking to a new time slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RescheduleBookingRequest true "New time slot"
// @Success 200 {object} resdto.BookingResponse
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id} [patch]
func (h *BookingHandler) Reschedule(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID", nil)
		return
	}

	var req reqdto.RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.commands.Reschedule(c.Request.Context(), actor, id, req.ToParams())
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID", nil)
		return
	}

	if err := h.commands.Cancel(c.Request.Context(), actor, id); err != nil {
		abortBookingError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Restore booking
// @Description Bring a cancelled future booking back to confirmed
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/restore [post]
func (h *BookingHandler) Restore(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID", nil)
		return
	}

	view, err := h.commands.Restore(c.Request.Context(), actor, id)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func parseListFilter(c *gin.Context) (queries.ListFilter, error) {
	f := queries.ListFilter{
		SiteCode:         c.Query("site"),
		ResourceCode:     c.Query("resource"),
		ResourceTypeCode: c.Query("type"),
		Status:           c.Query("status"),
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		f.StartDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		f.EndDate = &t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			return f, errors.New("invalid limit")
		}
		f.Limit = int32(n)
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return f, errors.New("invalid offset")
		}
		f.Offset = int32(n)
	}

	return f, nil
}

func abortBookingError(c *gin.Context, err error) {
	var ruleErr *commands.RuleViolationError
	if errors.As(err, &ruleErr) {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking violates rule set", ruleErr.Violations)
		return
	}

	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, errs.ErrResourceNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
	case errors.Is(err, errs.ErrResourceInactive):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Resource is not active", nil)
	case errors.Is(err, errs.ErrInvalidInterval):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid time interval", nil)
	case errors.Is(err, errs.ErrSchedulingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Time slot conflicts with another booking", nil)
	case errors.Is(err, errs.ErrStaleState):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not in a state that allows this operation", nil)
	case errors.Is(err, errs.ErrBookingStarted):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking has already started", nil)
	case errors.Is(err, errs.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not allowed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
