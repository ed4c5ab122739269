package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"roomreserve/internal/domain"
	"roomreserve/internal/pkg/clock"
	"roomreserve/internal/repository"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) CreateIfFree(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(int64), args.Error(2)
}

func (m *MockReservationRepository) Exists(ctx context.Context, f repository.ReservationFilter) (bool, error) {
	args := m.Called(ctx, f)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *MockReservationRepository, *MockRoomRepository, *clock.Fixed) {
	t.Helper()
	reservations := new(MockReservationRepository)
	rooms := new(MockRoomRepository)
	clk := clock.NewFixed(time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local))
	return NewService(reservations, rooms, clk, nil), reservations, rooms, clk
}

func activeRoom(id int64) *domain.Room {
	return &domain.Room{ID: id, Name: "Alpha", Size: "small", Capacity: 4, Active: true}
}

func validRequest(roomID int64) CreateReservationRequest {
	return CreateReservationRequest{
		RoomID:           roomID,
		StartTime:        day(9, 0),
		EndTime:          day(10, 30),
		ExpectedDuration: 90,
	}
}

func TestCreate_PremiumAutoApproved(t *testing.T) {
	svc, reservations, rooms, _ := newTestService(t)
	ctx := context.Background()

	rooms.On("GetByID", ctx, int64(1)).Return(activeRoom(1), nil)
	reservations.On("Exists", ctx, mock.Anything).Return(false, nil)
	reservations.On("CreateIfFree", ctx, mock.MatchedBy(func(r *domain.Reservation) bool {
		return r.Status == domain.ReservationApproved
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Reservation).ID = 42
	})
	reservations.On("GetByID", ctx, int64(42)).Return(&domain.Reservation{
		ID: 42, UserID: 7, RoomID: 1, Status: domain.ReservationApproved,
	}, nil)

	res, err := svc.Create(ctx, 7, domain.RoleClientPremium, validRequest(1))

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationApproved, res.Status)
	reservations.AssertExpectations(t)
}

func TestCreate_ClientStartsPending(t *testing.T) {
	svc, reservations, rooms, _ := newTestService(t)
	ctx := context.Background()

	rooms.On("GetByID", ctx, int64(1)).Return(activeRoom(1), nil)
	reservations.On("Exists", ctx, mock.Anything).Return(false, nil)
	reservations.On("CreateIfFree", ctx, mock.MatchedBy(func(r *domain.Reservation) bool {
		return r.Status == domain.ReservationPending
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Reservation).ID = 43
	})
	reservations.On("GetByID", ctx, int64(43)).Return(&domain.Reservation{
		ID: 43, Status: domain.ReservationPending,
	}, nil)

	res, err := svc.Create(ctx, 7, domain.RoleClient, validRequest(1))

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, res.Status)
}

func TestCreate_InvalidSlotSkipsRepository(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)

	req := validRequest(1)
	req.StartTime = day(9, 15)
	req.EndTime = day(10, 45)

	_, err := svc.Create(context.Background(), 7, domain.RoleClient, req)

	assert.ErrorIs(t, err, ErrStartNotAligned)
	assert.ErrorIs(t, err, ErrValidation)
	reservations.AssertNotCalled(t, "CreateIfFree", mock.Anything, mock.Anything)
}

func TestCreate_UnknownRoom(t *testing.T) {
	svc, _, rooms, _ := newTestService(t)
	ctx := context.Background()

	rooms.On("GetByID", ctx, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(ctx, 7, domain.RoleClient, validRequest(99))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreate_InactiveRoom(t *testing.T) {
	svc, _, rooms, _ := newTestService(t)
	ctx := context.Background()

	room := activeRoom(3)
	room.Active = false
	rooms.On("GetByID", ctx, int64(3)).Return(room, nil)

	_, err := svc.Create(ctx, 7, domain.RoleClient, validRequest(3))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreate_UserDayConflict(t *testing.T) {
	svc, reservations, rooms, _ := newTestService(t)
	ctx := context.Background()

	rooms.On("GetByID", ctx, int64(1)).Return(activeRoom(1), nil)
	reservations.On("Exists", ctx, mock.MatchedBy(func(f repository.ReservationFilter) bool {
		return f.UserID != nil && *f.UserID == 7 && f.Day != nil
	})).Return(true, nil)

	_, err := svc.Create(ctx, 7, domain.RoleClient, validRequest(1))

	assert.ErrorIs(t, err, ErrUserDayConflict)
	assert.ErrorIs(t, err, ErrConflict)
	reservations.AssertNotCalled(t, "CreateIfFree", mock.Anything, mock.Anything)
}

func TestCreate_RoomConflict(t *testing.T) {
	svc, reservations, rooms, _ := newTestService(t)
	ctx := context.Background()

	rooms.On("GetByID", ctx, int64(1)).Return(activeRoom(1), nil)
	reservations.On("Exists", ctx, mock.Anything).Return(false, nil)
	reservations.On("CreateIfFree", ctx, mock.Anything).Return(repository.ErrRoomOccupied)

	_, err := svc.Create(ctx, 7, domain.RoleClient, validRequest(1))

	assert.ErrorIs(t, err, ErrRoomConflict)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestList_ClientScopedToOwnReservations(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	reservations.On("List", ctx, mock.MatchedBy(func(f repository.ReservationFilter) bool {
		return f.UserID != nil && *f.UserID == 7
	})).Return([]domain.Reservation{}, int64(0), nil)

	_, _, err := svc.List(ctx, 7, domain.RoleClient, ListReservationsQuery{Page: 1, Limit: 10})
	assert.NoError(t, err)
	reservations.AssertExpectations(t)
}

func TestList_AdminSeesEverything(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	reservations.On("List", ctx, mock.MatchedBy(func(f repository.ReservationFilter) bool {
		return f.UserID == nil
	})).Return([]domain.Reservation{}, int64(0), nil)

	_, _, err := svc.List(ctx, 1, domain.RoleAdmin, ListReservationsQuery{Page: 1, Limit: 10})
	assert.NoError(t, err)
	reservations.AssertExpectations(t)
}

func TestList_InvalidFilters(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.List(ctx, 7, domain.RoleClient, ListReservationsQuery{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, _, err = svc.List(ctx, 7, domain.RoleClient, ListReservationsQuery{Date: "10-06-2026"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGet_ForeignReservationReadsAsNotFound(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	reservations.On("GetByIDForUser", ctx, int64(5), int64(7)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(ctx, 5, 7, domain.RoleClient)

	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	reservations.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGet_AdminBypassesOwnership(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	reservations.On("GetByID", ctx, int64(5)).Return(&domain.Reservation{ID: 5, UserID: 99}, nil)

	res, err := svc.Get(ctx, 5, 1, domain.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, int64(99), res.UserID)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	reservations.On("GetByIDForUser", ctx, int64(5), int64(7)).Return(&domain.Reservation{
		ID: 5, UserID: 7, Status: domain.ReservationCancelled,
	}, nil)

	_, err := svc.Cancel(ctx, 5, 7, domain.RoleClient)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.ErrorIs(t, err, ErrInvalidState)
	reservations.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_PendingSucceeds(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	reservations.On("GetByIDForUser", ctx, int64(5), int64(7)).Return(&domain.Reservation{
		ID: 5, UserID: 7, Status: domain.ReservationPending,
	}, nil)
	reservations.On("UpdateStatus", ctx, int64(5), domain.ReservationCancelled).Return(nil)
	reservations.On("GetByID", ctx, int64(5)).Return(&domain.Reservation{
		ID: 5, UserID: 7, Status: domain.ReservationCancelled,
	}, nil)

	res, err := svc.Cancel(ctx, 5, 7, domain.RoleClient)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, res.Status)
	reservations.AssertExpectations(t)
}

func TestApprove_NonPendingRejected(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	for _, status := range []domain.ReservationStatus{domain.ReservationApproved, domain.ReservationCancelled} {
		reservations.ExpectedCalls = nil
		reservations.On("GetByID", ctx, int64(5)).Return(&domain.Reservation{ID: 5, Status: status}, nil)

		_, err := svc.Approve(ctx, 5)
		assert.ErrorIs(t, err, ErrAlreadyProcessed, "status %s", status)
	}
}

func TestApprove_RechecksRoomOverlap(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	pending := &domain.Reservation{
		ID: 5, RoomID: 2, Status: domain.ReservationPending,
		StartTime: day(9, 0), EndTime: day(10, 0),
	}
	reservations.On("GetByID", ctx, int64(5)).Return(pending, nil)
	reservations.On("Exists", ctx, mock.MatchedBy(func(f repository.ReservationFilter) bool {
		return f.RoomID != nil && *f.RoomID == 2 &&
			f.StartsBefore != nil && f.StartsBefore.Equal(day(10, 0)) &&
			f.EndsAfter != nil && f.EndsAfter.Equal(day(9, 0))
	})).Return(true, nil)

	_, err := svc.Approve(ctx, 5)

	assert.ErrorIs(t, err, ErrRoomConflict)
	reservations.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_PendingSucceeds(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	pending := &domain.Reservation{
		ID: 5, RoomID: 2, Status: domain.ReservationPending,
		StartTime: day(9, 0), EndTime: day(10, 0),
	}
	approved := &domain.Reservation{
		ID: 5, RoomID: 2, Status: domain.ReservationApproved,
		StartTime: day(9, 0), EndTime: day(10, 0),
	}
	reservations.On("GetByID", ctx, int64(5)).Return(pending, nil).Once()
	reservations.On("Exists", ctx, mock.Anything).Return(false, nil)
	reservations.On("UpdateStatus", ctx, int64(5), domain.ReservationApproved).Return(nil)
	reservations.On("GetByID", ctx, int64(5)).Return(approved, nil).Once()

	res, err := svc.Approve(ctx, 5)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationApproved, res.Status)
	reservations.AssertExpectations(t)
}

func TestOccupiedSlots_DerivesSlotStarts(t *testing.T) {
	svc, reservations, _, _ := newTestService(t)
	ctx := context.Background()

	reservations.On("List", ctx, mock.MatchedBy(func(f repository.ReservationFilter) bool {
		return f.RoomID != nil && *f.RoomID == 1 && len(f.Statuses) == 1 &&
			f.Statuses[0] == domain.ReservationApproved
	})).Return([]domain.Reservation{
		{RoomID: 1, StartTime: day(9, 0), EndTime: day(10, 30), Status: domain.ReservationApproved},
	}, int64(1), nil)

	view, err := svc.OccupiedSlots(ctx, 1, "2026-06-10")

	assert.NoError(t, err)
	assert.Equal(t, []TimeRange{{Start: day(9, 0), End: day(10, 30)}}, view.Intervals)
	assert.Equal(t, []time.Time{day(9, 0), day(9, 30), day(10, 0)}, view.Slots)
}

func TestOccupiedSlots_BadDate(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.OccupiedSlots(context.Background(), 1, "June 10")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDisplayStatus_CompletedIsDerived(t *testing.T) {
	res := &domain.Reservation{
		Status:    domain.ReservationApproved,
		StartTime: day(9, 0),
		EndTime:   day(10, 0),
	}

	assert.Equal(t, "approved", res.DisplayStatus(day(9, 30)))
	assert.Equal(t, domain.DisplayCompleted, res.DisplayStatus(day(10, 0)))
	assert.Equal(t, domain.DisplayCompleted, res.DisplayStatus(day(11, 0)))

	res.Status = domain.ReservationCancelled
	assert.Equal(t, "cancelled", res.DisplayStatus(day(11, 0)))
}
