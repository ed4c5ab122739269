package repository

import (
	"context"
	"errors"
	"time"

	"roomreserve/internal/domain"

	"gorm.io/gorm"
)

// ErrRoomOccupied is returned by CreateIfFree when the room already has an
// approved reservation overlapping the requested interval.
var ErrRoomOccupied = errors.New("room occupied")

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// ReservationFilter is the single query specification for reservation range
// queries. Every list-style read path composes one of these instead of ad hoc
// where-clauses, so filters cannot be silently dropped.
type ReservationFilter struct {
	UserID   *int64
	RoomID   *int64
	Statuses []domain.ReservationStatus

	// Day restricts to reservations overlapping the calendar day containing
	// the given instant (local midnight to next midnight, half-open).
	Day *time.Time

	// StartsAtOrAfter keeps reservations with start_time >= the instant.
	StartsAtOrAfter *time.Time

	// StartsBefore keeps reservations with start_time < the instant.
	// Combined with EndsAfter it expresses half-open interval overlap.
	StartsBefore *time.Time

	// EndsAfter keeps reservations with end_time > the instant.
	EndsAfter *time.Time

	// Page/Limit paginate when Limit > 0.
	Page  int
	Limit int

	// Order defaults to "created_at DESC".
	Order string

	PreloadUser bool
	PreloadRoom bool
}

// DayWindow returns the half-open [midnight, next midnight) window of t in
// t's location.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}

func (f ReservationFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.Day != nil {
		dayStart, dayEnd := DayWindow(*f.Day)
		// Overlap with the day window: catches reservations starting that day
		// and ones spanning into it.
		q = q.Where("start_time < ? AND end_time > ?", dayEnd, dayStart)
	}
	if f.StartsAtOrAfter != nil {
		q = q.Where("start_time >= ?", *f.StartsAtOrAfter)
	}
	if f.StartsBefore != nil {
		q = q.Where("start_time < ?", *f.StartsBefore)
	}
	if f.EndsAfter != nil {
		q = q.Where("end_time > ?", *f.EndsAfter)
	}
	return q
}

func toDomainReservation(m reservationModel) *domain.Reservation {
	r := &domain.Reservation{
		ID:               m.ID,
		UserID:           m.UserID,
		RoomID:           m.RoomID,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		ExpectedDuration: m.ExpectedDuration,
		Status:           domain.ReservationStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.User != nil {
		r.User = toDomainUser(*m.User)
	}
	if m.Room != nil {
		r.Room = toDomainRoom(*m.Room)
	}
	return r
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:               r.ID,
		UserID:           r.UserID,
		RoomID:           r.RoomID,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		ExpectedDuration: r.ExpectedDuration,
		Status:           string(r.Status),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// CreateIfFree inserts the reservation only if the room has no approved
// reservation overlapping [start, end). The overlap check and the insert run
// in one transaction; on postgres the reservations_no_overlap exclusion
// constraint backstops concurrent writers.
func (r *ReservationRepository) CreateIfFree(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		err := tx.Model(&reservationModel{}).
			Where("room_id = ?", res.RoomID).
			Where("status = ?", string(domain.ReservationApproved)).
			Where("start_time < ? AND end_time > ?", res.EndTime, res.StartTime).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrRoomOccupied
		}

		m := toReservationModel(res)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*res = *toDomainReservation(m)
		return nil
	})
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

// GetByIDForUser scopes the lookup to reservations owned by userID. A foreign
// id yields gorm.ErrRecordNotFound, so existence is not disclosed.
func (r *ReservationRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Where("user_id = ?", userID).
		First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

// List runs the filter and returns the matching page plus the total count.
func (r *ReservationRepository) List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, int64, error) {
	q := f.apply(r.db.WithContext(ctx).Model(&reservationModel{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.Order
	if order == "" {
		order = "created_at DESC"
	}
	q = q.Order(order)

	if f.Limit > 0 {
		page := f.Page
		if page <= 0 {
			page = 1
		}
		q = q.Limit(f.Limit).Offset((page - 1) * f.Limit)
	}
	if f.PreloadUser {
		q = q.Preload("User")
	}
	if f.PreloadRoom {
		q = q.Preload("Room")
	}

	var rows []reservationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, total, nil
}

// Exists reports whether any reservation matches the filter.
func (r *ReservationRepository) Exists(ctx context.Context, f ReservationFilter) (bool, error) {
	var cnt int64
	q := f.apply(r.db.WithContext(ctx).Model(&reservationModel{}))
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	return r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

// OverlappingApprovedRoomIDs returns the ids of rooms holding an approved
// reservation that overlaps [start, end).
func (r *ReservationRepository) OverlappingApprovedRoomIDs(ctx context.Context, start, end time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Distinct("room_id").
		Where("status = ?", string(domain.ReservationApproved)).
		Where("start_time < ? AND end_time > ?", end, start).
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
