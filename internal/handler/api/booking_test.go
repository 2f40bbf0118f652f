//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"reserva-api/internal/domain/rules"
	"reserva-api/internal/domain/user"
	"reserva-api/internal/handler/api"
	resdto "reserva-api/internal/handler/dto/response"
	"reserva-api/internal/pkg/errs"
	"reserva-api/internal/usecase/commands"
	"reserva-api/internal/usecase/queries"
	"reserva-api/internal/usecase/shared"
	"reserva-api/tests/common/builder"
	"reserva-api/tests/common/httptest"
	"reserva-api/tests/common/testutil"
	commandsmock "reserva-api/tests/mock/commands"
	queriesmock "reserva-api/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	actor        shared.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	siteID := uuid.New()
	s.actor = shared.Actor{ID: uuid.New(), Role: user.RoleEmployee, SiteID: &siteID}

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("actor", s.actor)
		c.Next()
	}

	// Setup routes
	s.router.POST("/bookings", authMiddleware, s.handler.Create)
	s.router.GET("/bookings", authMiddleware, s.handler.List)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.Get)
	s.router.PATCH("/bookings/:id", authMiddleware, s.handler.Reschedule)
	s.router.DELETE("/bookings/:id", authMiddleware, s.handler.Cancel)
	s.router.POST("/bookings/:id/restore", authMiddleware, s.handler.Restore)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"

	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	returnView := builder.NewBookingBuilder().BuildView()

	validation := []testCaseBooking{
		{name: "missing field: resource_id (required)", mutate: testutil.Field("resource_id", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: start_at (required)", mutate: testutil.Field("start_at", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: end_at (required)", mutate: testutil.Field("end_at", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: purpose (required)", mutate: testutil.Field("purpose", nil), expectCode: http.StatusBadRequest},
		{name: "purpose length invalid (256 chars)", mutate: testutil.Field("purpose", strings.Repeat("a", 256)), expectCode: http.StatusBadRequest},
		{name: "purpose length OK (255 chars)", mutate: testutil.Field("purpose", strings.Repeat("a", 255)), expectCode: http.StatusCreated},
		{name: "attendees invalid (0)", mutate: testutil.Field("attendees", 0), expectCode: http.StatusBadRequest},
		{name: "attendees boundary OK (1)", mutate: testutil.Field("attendees", 1), expectCode: http.StatusCreated},
	}

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.actor, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.Code, response.Code)
		s.Equal("confirmed", response.Status)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, tc := range validation {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().Create(gomock.Any(), s.actor, gomock.Any()).
						Return(returnView, nil).Times(1)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				if tc.expectCode == http.StatusCreated {
					httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
				} else {
					httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
				}
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 422 with violation detail on rule violations", func() {
		ruleErr := &commands.RuleViolationError{Violations: []rules.Violation{
			{Field: "duration", Reason: "booking shorter than minimum duration"},
			{Field: "daily_limit", Reason: "daily booking limit reached"},
		}}
		s.mockCommands.EXPECT().Create(gomock.Any(), s.actor, gomock.Any()).
			Return(nil, ruleErr).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Booking violates rule set")
		httptest.AssertViolationFields(s.T(), rec, "duration", "daily_limit")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "resource not found",
				commandsError:  errs.ErrResourceNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Resource not found",
			},
			{
				name:           "resource inactive",
				commandsError:  errs.ErrResourceInactive,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Resource is not active",
			},
			{
				name:           "invalid interval",
				commandsError:  errs.ErrInvalidInterval,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid time interval",
			},
			{
				name:           "scheduling conflict",
				commandsError:  errs.ErrSchedulingConflict,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "conflicts with another booking",
			},
			{
				name:           "forbidden",
				commandsError:  errs.ErrForbidden,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Not allowed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), s.actor, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: returns 200 OK with BookingResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
		s.Equal(returnView.ResourceCode, response.ResourceCode)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: 404 Not Found for missing booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, bookingID).
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: 403 Forbidden for another user's booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, bookingID).
			Return(nil, errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Not allowed")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestList() {
	item := builder.NewBookingBuilder().BuildListItem()

	s.Run("success: returns 200 OK with list", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), s.actor, gomock.Any()).
			Return([]*queries.BookingListItem{item}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?status=confirmed&limit=20", nil, "bearer-token")

		var response []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
		s.Equal(item.Code, response[0].Code)
	})

	s.Run("success: filter is passed through", func() {
		s.mockQueries.EXPECT().
			List(gomock.Any(), s.actor, gomock.Cond(func(f queries.ListFilter) bool {
				return f.SiteCode == "HQ" &&
					f.ResourceTypeCode == "parking" &&
					f.StartDate != nil && f.StartDate.Format("2006-01-02") == "2026-09-01" &&
					f.Limit == 10 && f.Offset == 20
			})).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings?site=HQ&type=parking&from=2026-09-01&limit=10&offset=20", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request for malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?from=09-01-2026", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid from date")
	})

	s.Run("error: 400 Bad Request for negative limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=-1", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid limit")
	})
}

// ================================================================================
// TestReschedule
// ================================================================================

func (s *BookingHandlerTestSuite) TestReschedule() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	reqBody := builder.NewBookingBuilder().BuildRescheduleRequestDTO()
	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: returns 200 OK with updated booking", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), s.actor, bookingID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
	})

	s.Run("error: 400 Bad Request when start_at missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("start_at", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 409 Conflict when slot is taken", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), s.actor, bookingID, gomock.Any()).
			Return(nil, errs.ErrSchedulingConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "conflicts with another booking")
	})

	s.Run("error: 409 Conflict when booking already started", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), s.actor, bookingID, gomock.Any()).
			Return(nil, errs.ErrBookingStarted).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already started")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.actor, bookingID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	s.Run("error: 409 Conflict for already cancelled booking", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.actor, bookingID).
			Return(errs.ErrStaleState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "not in a state")
	})

	s.Run("error: 404 Not Found for missing booking", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.actor, bookingID).
			Return(errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

// ================================================================================
// TestRestore
// ================================================================================

func (s *BookingHandlerTestSuite) TestRestore() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/restore"

	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: returns 200 OK with restored booking", func() {
		s.mockCommands.EXPECT().Restore(gomock.Any(), s.actor, bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
	})

	s.Run("error: 409 Conflict when slot was claimed meanwhile", func() {
		s.mockCommands.EXPECT().Restore(gomock.Any(), s.actor, bookingID).
			Return(nil, errs.ErrSchedulingConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "conflicts with another booking")
	})
}
