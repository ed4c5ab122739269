package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"roomreserve/internal/database"
	"roomreserve/internal/domain"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	// One connection, or the pool would hand out fresh empty in-memory DBs.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Role:         domain.RoleClient,
		Approved:     true,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedRoom(t *testing.T, db *gorm.DB, name string) *domain.Room {
	t.Helper()
	r := &domain.Room{Name: name, Size: "small", Capacity: 4, Active: true}
	require.NoError(t, NewRoomRepository(db).Create(context.Background(), r))
	return r
}

func slot(hour, minute int) time.Time {
	return time.Date(2026, 6, 10, hour, minute, 0, 0, time.Local)
}

func newReservation(userID, roomID int64, start, end time.Time, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		UserID:           userID,
		RoomID:           roomID,
		StartTime:        start,
		EndTime:          end,
		ExpectedDuration: int(end.Sub(start).Minutes()),
		Status:           status,
	}
}

func TestCreateIfFree_RejectsOverlapWithApproved(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")
	alpha := seedRoom(t, db, "Alpha")

	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, alpha.ID, slot(9, 0), slot(10, 30), domain.ReservationApproved)))

	err := repo.CreateIfFree(ctx,
		newReservation(u2.ID, alpha.ID, slot(10, 0), slot(11, 0), domain.ReservationApproved))
	assert.ErrorIs(t, err, ErrRoomOccupied)

	// Back-to-back is free: the earlier end touches the later start.
	assert.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u2.ID, alpha.ID, slot(10, 30), slot(12, 0), domain.ReservationApproved)))
}

func TestCreateIfFree_IgnoresPendingAndCancelled(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")
	alpha := seedRoom(t, db, "Alpha")

	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, alpha.ID, slot(9, 0), slot(10, 0), domain.ReservationPending)))
	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, alpha.ID, slot(11, 0), slot(12, 0), domain.ReservationCancelled)))

	// Neither of the above blocks the room.
	assert.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u2.ID, alpha.ID, slot(9, 0), slot(12, 0), domain.ReservationApproved)))
}

func TestCreateIfFree_OtherRoomUnaffected(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com")
	alpha := seedRoom(t, db, "Alpha")
	beta := seedRoom(t, db, "Beta")

	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, alpha.ID, slot(9, 0), slot(10, 0), domain.ReservationApproved)))

	assert.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, beta.ID, slot(9, 0), slot(10, 0), domain.ReservationApproved)))
}

func TestGetByIDForUser_ForeignIDNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	alpha := seedRoom(t, db, "Alpha")

	res := newReservation(owner.ID, alpha.ID, slot(9, 0), slot(10, 0), domain.ReservationPending)
	require.NoError(t, repo.CreateIfFree(ctx, res))

	got, err := repo.GetByIDForUser(ctx, res.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)

	_, err = repo.GetByIDForUser(ctx, res.ID, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestList_DayFilter(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com")
	alpha := seedRoom(t, db, "Alpha")

	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, alpha.ID, slot(9, 0), slot(10, 0), domain.ReservationApproved)))
	nextDay := slot(9, 0).AddDate(0, 0, 1)
	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, alpha.ID, nextDay, nextDay.Add(time.Hour), domain.ReservationApproved)))

	day := slot(0, 0)
	rows, total, err := repo.List(ctx, ReservationFilter{Day: &day})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].StartTime.Equal(slot(9, 0)))
}

func TestList_Pagination(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com")
	alpha := seedRoom(t, db, "Alpha")

	for i := 0; i < 3; i++ {
		start := slot(9, 0).Add(time.Duration(i*2) * time.Hour)
		require.NoError(t, repo.CreateIfFree(ctx,
			newReservation(u1.ID, alpha.ID, start, start.Add(time.Hour), domain.ReservationApproved)))
	}

	rows, total, err := repo.List(ctx, ReservationFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, ReservationFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 1)
}

func TestExists_EndsAfterExcludesFinished(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com")
	alpha := seedRoom(t, db, "Alpha")

	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, alpha.ID, slot(9, 0), slot(10, 0), domain.ReservationApproved)))

	afterEnd := slot(10, 0)
	busy, err := repo.Exists(ctx, ReservationFilter{UserID: &u1.ID, EndsAfter: &afterEnd})
	require.NoError(t, err)
	assert.False(t, busy)

	beforeEnd := slot(9, 30)
	busy, err = repo.Exists(ctx, ReservationFilter{UserID: &u1.ID, EndsAfter: &beforeEnd})
	require.NoError(t, err)
	assert.True(t, busy)
}

func TestUpdateStatus(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com")
	alpha := seedRoom(t, db, "Alpha")

	res := newReservation(u1.ID, alpha.ID, slot(9, 0), slot(10, 0), domain.ReservationPending)
	require.NoError(t, repo.CreateIfFree(ctx, res))

	require.NoError(t, repo.UpdateStatus(ctx, res.ID, domain.ReservationApproved))

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationApproved, got.Status)
}

func TestOverlappingApprovedRoomIDs(t *testing.T) {
	db := setupDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")
	alpha := seedRoom(t, db, "Alpha")
	beta := seedRoom(t, db, "Beta")
	gamma := seedRoom(t, db, "Gamma")

	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u1.ID, alpha.ID, slot(9, 0), slot(10, 30), domain.ReservationApproved)))
	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u2.ID, beta.ID, slot(9, 0), slot(10, 30), domain.ReservationPending)))
	require.NoError(t, repo.CreateIfFree(ctx,
		newReservation(u2.ID, gamma.ID, slot(8, 0), slot(9, 0), domain.ReservationApproved)))

	ids, err := repo.OverlappingApprovedRoomIDs(ctx, slot(9, 0), slot(10, 0))
	require.NoError(t, err)

	// Pending does not block, and gamma only touches the range boundary.
	assert.Equal(t, []int64{alpha.ID}, ids)
}
