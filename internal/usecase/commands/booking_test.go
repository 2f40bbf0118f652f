//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"reserva-api/internal/domain/booking"
	"reserva-api/internal/domain/resource"
	"reserva-api/internal/domain/rules"
	"reserva-api/internal/domain/user"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/clock"
	"reserva-api/internal/pkg/errs"
	"reserva-api/internal/usecase/commands"
	"reserva-api/internal/usecase/queries"
	"reserva-api/internal/usecase/shared"
	portsmock "reserva-api/tests/mock/ports"
	queriesmock "reserva-api/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var (
	testNow        = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	testSiteID     = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testTypeID     = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testResourceID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

type BookingCommandsTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	bookings    *portsmock.MockBookingRepository
	resources   *portsmock.MockResourceRepository
	ruleSets    *portsmock.MockRuleSetRepository
	views       *queriesmock.MockBookingReadStore
	invalidator *portsmock.MockAvailabilityInvalidator
	clk         *clock.MockClock
	uc          commands.BookingCommands
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.bookings = portsmock.NewMockBookingRepository(s.ctrl)
	s.resources = portsmock.NewMockResourceRepository(s.ctrl)
	s.ruleSets = portsmock.NewMockRuleSetRepository(s.ctrl)
	s.views = queriesmock.NewMockBookingReadStore(s.ctrl)
	s.invalidator = portsmock.NewMockAvailabilityInvalidator(s.ctrl)
	s.clk = clock.NewMockClock(testNow)
	s.uc = commands.NewBookingCommands(
		s.bookings, s.resources, s.ruleSets, s.views,
		shared.NewRolePolicy(), s.invalidator, s.clk,
	)
}

func (s *BookingCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func employeeActor() shared.Actor {
	siteID := testSiteID
	return shared.Actor{
		ID:     uuid.MustParse("44444444-4444-4444-4444-444444444444"),
		Role:   user.RoleEmployee,
		SiteID: &siteID,
	}
}

func meetingRoom() *resource.Resource {
	capacity := int32(10)
	return resource.Reconstruct(
		testResourceID, testSiteID, testTypeID,
		"ROOM-A", "Meeting Room A", &capacity, true,
		&resource.Type{ID: testTypeID, Code: "meeting_room", Name: "会議室", RequiresCapacity: true},
	)
}

func inactiveRoom() *resource.Resource {
	capacity := int32(10)
	return resource.Reconstruct(
		testResourceID, testSiteID, testTypeID,
		"ROOM-B", "Meeting Room B", &capacity, false,
		&resource.Type{ID: testTypeID, Code: "meeting_room", Name: "会議室", RequiresCapacity: true},
	)
}

func activeRuleSet() *rules.RuleSet {
	return &rules.RuleSet{
		ID:                 uuid.New(),
		SiteID:             testSiteID,
		ResourceTypeID:     testTypeID,
		Name:               "standard",
		OperatingHours:     []string{"08:00-20:00"},
		MinDurationMinutes: 30,
		MaxDurationMinutes: 180,
		BufferMinutes:      10,
		MaxBookingsPerDay:  2,
		MaxAdvanceDays:     30,
		IsActive:           true,
	}
}

func createParams(start, end time.Time) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		ResourceID: testResourceID,
		StartAt:    start,
		EndAt:      end,
		Purpose:    "定例会議",
		Attendees:  4,
	}
}

func reconstructBooking(owner uuid.UUID, status booking.Status, start, end time.Time) *booking.Booking {
	slot, _ := booking.NewTimeSlot(start, end)
	var cancelledAt *time.Time
	var cancelledBy *uuid.UUID
	if status == booking.StatusCancelled {
		at := testNow.Add(-time.Hour)
		cancelledAt = &at
		cancelledBy = &owner
	}
	return booking.Reconstruct(
		uuid.New(), "BOOK-2026-0042", testResourceID, owner, slot,
		status, booking.NewPurpose("定例会議"), nil, 4, nil,
		cancelledAt, cancelledBy, owner,
		testNow.Add(-24*time.Hour), testNow.Add(-24*time.Hour),
	)
}

func notFoundErr() error {
	return infra.WrapRepoErr("record not found", errors.New("no rows in result set"), infra.KindNotFound)
}

func conflictErr() error {
	return infra.WrapRepoErr("exclusion constraint", errors.New("conflicting key value"), infra.KindConflict)
}

func duplicateCodeErr() error {
	return infra.WrapRepoErr("failed to create booking",
		errors.New(`duplicate key value violates unique constraint "bookings_code_key"`), infra.KindDuplicateKey)
}

func (s *BookingCommandsTestSuite) TestCreate() {
	ctx := context.Background()
	actor := employeeActor()
	start := testNow.Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	s.Run("正常系_予約を作成できる", func() {
		s.SetupTest()
		newID := uuid.New()
		view := &queries.BookingView{ID: newID, Status: "confirmed"}

		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().CountActiveByUserAndDay(gomock.Any(), actor.ID, testTypeID, start).Return(0, nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, start.Add(-10*time.Minute), end.Add(10*time.Minute)).
			Return(nil, nil)
		s.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(newID, nil)
		s.invalidator.EXPECT().InvalidateDay(gomock.Any(), testResourceID, gomock.Any()).Return(nil)
		s.views.EXPECT().FindViewByID(gomock.Any(), newID).Return(view, nil)

		got, err := s.uc.Create(ctx, actor, createParams(start, end))
		s.NoError(err)
		s.Equal(newID, got.ID)
	})

	s.Run("リソースが存在しない場合はNotFound", func() {
		s.SetupTest()
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(nil, notFoundErr())

		_, err := s.uc.Create(ctx, actor, createParams(start, end))
		s.ErrorIs(err, errs.ErrResourceNotFound)
	})

	s.Run("非アクティブなリソースには予約できない", func() {
		s.SetupTest()
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(inactiveRoom(), nil)

		_, err := s.uc.Create(ctx, actor, createParams(start, end))
		s.ErrorIs(err, errs.ErrResourceInactive)
	})

	s.Run("他サイトのリソースには作成できない", func() {
		s.SetupTest()
		otherSite := uuid.New()
		outsider := actor
		outsider.SiteID = &otherSite

		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)

		_, err := s.uc.Create(ctx, outsider, createParams(start, end))
		s.ErrorIs(err, errs.ErrForbidden)
	})

	s.Run("開始時刻が過去の場合はInvalidInterval", func() {
		s.SetupTest()
		pastStart := testNow.Add(-time.Hour)

		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)

		_, err := s.uc.Create(ctx, actor, createParams(pastStart, pastStart.Add(time.Hour)))
		s.ErrorIs(err, errs.ErrInvalidInterval)
	})

	s.Run("終了が開始以前の場合はInvalidInterval", func() {
		s.SetupTest()
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)

		_, err := s.uc.Create(ctx, actor, createParams(end, start))
		s.ErrorIs(err, errs.ErrInvalidInterval)
	})

	s.Run("ルール違反はすべて集約して返す", func() {
		s.SetupTest()
		p := createParams(start, start.Add(15*time.Minute))
		p.Attendees = 20

		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().CountActiveByUserAndDay(gomock.Any(), actor.ID, testTypeID, start).Return(0, nil)

		_, err := s.uc.Create(ctx, actor, p)
		s.ErrorIs(err, errs.ErrRuleViolation)

		var rve *commands.RuleViolationError
		s.Require().ErrorAs(err, &rve)
		s.Len(rve.Violations, 2)
	})

	s.Run("既存予約と重複する場合はSchedulingConflict", func() {
		s.SetupTest()
		existing := reconstructBooking(uuid.New(), booking.StatusConfirmed, start.Add(30*time.Minute), end.Add(30*time.Minute))

		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().CountActiveByUserAndDay(gomock.Any(), actor.ID, testTypeID, start).Return(0, nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return([]*booking.Booking{existing}, nil)

		_, err := s.uc.Create(ctx, actor, createParams(start, end))
		s.ErrorIs(err, errs.ErrSchedulingConflict)
	})

	s.Run("排他制約違反はSchedulingConflictに変換される", func() {
		s.SetupTest()
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().CountActiveByUserAndDay(gomock.Any(), actor.ID, testTypeID, start).Return(0, nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return(nil, nil)
		s.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.Nil, conflictErr())

		_, err := s.uc.Create(ctx, actor, createParams(start, end))
		s.ErrorIs(err, errs.ErrSchedulingConflict)
	})

	s.Run("予約コードが衝突した場合は再生成してリトライする", func() {
		s.SetupTest()
		newID := uuid.New()
		view := &queries.BookingView{ID: newID, Status: "confirmed"}

		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().CountActiveByUserAndDay(gomock.Any(), actor.ID, testTypeID, start).Return(0, nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return(nil, nil)
		gomock.InOrder(
			s.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.Nil, duplicateCodeErr()),
			s.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(newID, nil),
		)
		s.invalidator.EXPECT().InvalidateDay(gomock.Any(), testResourceID, gomock.Any()).Return(nil)
		s.views.EXPECT().FindViewByID(gomock.Any(), newID).Return(view, nil)

		got, err := s.uc.Create(ctx, actor, createParams(start, end))
		s.NoError(err)
		s.Equal(newID, got.ID)
	})

	s.Run("コード衝突が続く場合は上限で打ち切る", func() {
		s.SetupTest()
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().CountActiveByUserAndDay(gomock.Any(), actor.ID, testTypeID, start).Return(0, nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return(nil, nil)
		s.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.Nil, duplicateCodeErr()).Times(5)

		_, err := s.uc.Create(ctx, actor, createParams(start, end))
		s.ErrorIs(err, errs.ErrDatabaseOperationFailed)
	})
}

func (s *BookingCommandsTestSuite) TestReschedule() {
	ctx := context.Background()
	actor := employeeActor()
	oldStart := testNow.Add(24 * time.Hour).Truncate(time.Hour)
	newStart := oldStart.Add(2 * time.Hour)
	newEnd := newStart.Add(time.Hour)

	s.Run("正常系_自分の予約を変更できる", func() {
		s.SetupTest()
		b := reconstructBooking(actor.ID, booking.StatusConfirmed, oldStart, oldStart.Add(time.Hour))
		view := &queries.BookingView{ID: b.ID(), Status: "confirmed"}

		s.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).Return(b, nil)
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().CountActiveByUserAndDay(gomock.Any(), actor.ID, testTypeID, newStart).Return(1, nil)
		// 自分自身しか返らない区間は除外IDで競合なしと判定される
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return([]*booking.Booking{b}, nil)
		s.bookings.EXPECT().Update(gomock.Any(), b).Return(nil)
		s.invalidator.EXPECT().InvalidateDay(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).Return(nil)
		s.views.EXPECT().FindViewByID(gomock.Any(), b.ID()).Return(view, nil)

		got, err := s.uc.Reschedule(ctx, actor, b.ID(), commands.RescheduleBookingParams{StartAt: newStart, EndAt: newEnd})
		s.NoError(err)
		s.Equal(b.ID(), got.ID)
		s.Equal(newStart, b.Slot().Start())
	})

	s.Run("予約が存在しない場合はNotFound", func() {
		s.SetupTest()
		id := uuid.New()
		s.bookings.EXPECT().FindByID(gomock.Any(), id).Return(nil, notFoundErr())

		_, err := s.uc.Reschedule(ctx, actor, id, commands.RescheduleBookingParams{StartAt: newStart, EndAt: newEnd})
		s.ErrorIs(err, errs.ErrBookingNotFound)
	})

	s.Run("キャンセル済み予約は変更できない", func() {
		s.SetupTest()
		b := reconstructBooking(actor.ID, booking.StatusCancelled, oldStart, oldStart.Add(time.Hour))

		s.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).Return(b, nil)
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().CountActiveByUserAndDay(gomock.Any(), actor.ID, testTypeID, newStart).Return(0, nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return(nil, nil)

		_, err := s.uc.Reschedule(ctx, actor, b.ID(), commands.RescheduleBookingParams{StartAt: newStart, EndAt: newEnd})
		s.ErrorIs(err, errs.ErrStaleState)
	})
}

func (s *BookingCommandsTestSuite) TestCancel() {
	ctx := context.Background()
	actor := employeeActor()
	start := testNow.Add(24 * time.Hour)

	s.Run("正常系_自分の予約を取り消せる", func() {
		s.SetupTest()
		b := reconstructBooking(actor.ID, booking.StatusConfirmed, start, start.Add(time.Hour))

		s.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).Return(b, nil)
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.bookings.EXPECT().Update(gomock.Any(), b).Return(nil)
		s.invalidator.EXPECT().InvalidateDay(gomock.Any(), testResourceID, gomock.Any()).Return(nil)

		err := s.uc.Cancel(ctx, actor, b.ID())
		s.NoError(err)
		s.Equal(booking.StatusCancelled, b.Status())
		s.NotNil(b.CancelledAt())
	})

	s.Run("開始済みの予約は取り消せない", func() {
		s.SetupTest()
		b := reconstructBooking(actor.ID, booking.StatusConfirmed, testNow.Add(-time.Hour), testNow.Add(time.Hour))

		s.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).Return(b, nil)
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)

		err := s.uc.Cancel(ctx, actor, b.ID())
		s.ErrorIs(err, errs.ErrBookingStarted)
	})

	s.Run("従業員は他人の予約を取り消せない", func() {
		s.SetupTest()
		b := reconstructBooking(uuid.New(), booking.StatusConfirmed, start, start.Add(time.Hour))

		s.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).Return(b, nil)
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)

		err := s.uc.Cancel(ctx, actor, b.ID())
		s.ErrorIs(err, errs.ErrForbidden)
	})
}

func (s *BookingCommandsTestSuite) TestRestore() {
	ctx := context.Background()
	actor := employeeActor()
	start := testNow.Add(24 * time.Hour)

	s.Run("正常系_取り消した予約を復元できる", func() {
		s.SetupTest()
		b := reconstructBooking(actor.ID, booking.StatusCancelled, start, start.Add(time.Hour))
		view := &queries.BookingView{ID: b.ID(), Status: "confirmed"}

		s.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).Return(b, nil)
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return(nil, nil)
		s.bookings.EXPECT().Update(gomock.Any(), b).Return(nil)
		s.invalidator.EXPECT().InvalidateDay(gomock.Any(), testResourceID, gomock.Any()).Return(nil)
		s.views.EXPECT().FindViewByID(gomock.Any(), b.ID()).Return(view, nil)

		got, err := s.uc.Restore(ctx, actor, b.ID())
		s.NoError(err)
		s.Equal(booking.StatusConfirmed, b.Status())
		s.Nil(b.CancelledAt())
		s.Equal(b.ID(), got.ID)
	})

	s.Run("枠が埋まっている場合は復元できない", func() {
		s.SetupTest()
		b := reconstructBooking(actor.ID, booking.StatusCancelled, start, start.Add(time.Hour))
		claimed := reconstructBooking(uuid.New(), booking.StatusConfirmed, start, start.Add(time.Hour))

		s.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).Return(b, nil)
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return([]*booking.Booking{claimed}, nil)

		_, err := s.uc.Restore(ctx, actor, b.ID())
		s.ErrorIs(err, errs.ErrSchedulingConflict)
		s.Equal(booking.StatusCancelled, b.Status())
	})

	s.Run("確定済みの予約は復元できない", func() {
		s.SetupTest()
		b := reconstructBooking(actor.ID, booking.StatusConfirmed, start, start.Add(time.Hour))

		s.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).Return(b, nil)
		s.resources.EXPECT().FindByID(gomock.Any(), testResourceID).Return(meetingRoom(), nil)
		s.ruleSets.EXPECT().FindActive(gomock.Any(), testSiteID, testTypeID).Return(activeRuleSet(), nil)
		s.bookings.EXPECT().
			FindActiveByResourceAndRange(gomock.Any(), testResourceID, gomock.Any(), gomock.Any()).
			Return(nil, nil)

		_, err := s.uc.Restore(ctx, actor, b.ID())
		s.ErrorIs(err, errs.ErrStaleState)
	})
}
