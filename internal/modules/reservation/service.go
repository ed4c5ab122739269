package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roomreserve/internal/domain"
	"roomreserve/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// autoApprovedRoles is the tier policy for the initial status of a new
// reservation. Adding a tier means adding an entry here, not touching the
// creation path.
var autoApprovedRoles = map[domain.UserRole]bool{
	domain.RoleClientPremium: true,
}

func initialStatus(role domain.UserRole) domain.ReservationStatus {
	if autoApprovedRoles[role] {
		return domain.ReservationApproved
	}
	return domain.ReservationPending
}

const occupiedCacheTTL = 30 * time.Second

type Service struct {
	reservations ReservationRepository
	rooms        RoomRepository
	clock        Clock
	cache        *redis.Client // optional; nil disables the occupied-slots cache
}

func NewService(reservations ReservationRepository, rooms RoomRepository, clk Clock, cache *redis.Client) *Service {
	return &Service{
		reservations: reservations,
		rooms:        rooms,
		clock:        clk,
		cache:        cache,
	}
}

// Create validates the requested slot, runs the per-user and per-room
// conflict checks and inserts the reservation with its tier-derived initial
// status. The room-overlap check and the insert are one atomic unit.
func (s *Service) Create(ctx context.Context, userID int64, role domain.UserRole, req CreateReservationRequest) (*domain.Reservation, error) {
	now := s.clock.Now()
	if err := ValidateSlot(req.StartTime, req.EndTime, req.ExpectedDuration, now); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.Active {
		return nil, ErrRoomNotFound
	}

	// One active reservation per user per calendar day of the proposed start.
	day := req.StartTime
	busy, err := s.reservations.Exists(ctx, repository.ReservationFilter{
		UserID:   &userID,
		Statuses: []domain.ReservationStatus{domain.ReservationPending, domain.ReservationApproved},
		Day:      &day,
		EndsAfter: &now,
	})
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, ErrUserDayConflict
	}

	res := &domain.Reservation{
		UserID:           userID,
		RoomID:           req.RoomID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		ExpectedDuration: req.ExpectedDuration,
		Status:           initialStatus(role),
	}

	if err := s.reservations.CreateIfFree(ctx, res); err != nil {
		if errors.Is(err, repository.ErrRoomOccupied) {
			return nil, ErrRoomConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "reservations_no_overlap" {
			return nil, ErrRoomConflict
		}
		return nil, err
	}

	if res.Status == domain.ReservationApproved {
		s.invalidateOccupied(ctx, res.RoomID, res.StartTime)
	}

	return s.reservations.GetByID(ctx, res.ID)
}

// List returns the requester's reservations (or all of them for admins),
// optionally filtered by day and status, newest first.
func (s *Service) List(ctx context.Context, requesterID int64, role domain.UserRole, q ListReservationsQuery) ([]domain.Reservation, int64, error) {
	f := repository.ReservationFilter{
		Page:        q.Page,
		Limit:       q.Limit,
		PreloadUser: true,
		PreloadRoom: true,
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if role != domain.RoleAdmin {
		f.UserID = &requesterID
	}

	if q.Status != "" {
		status := domain.ReservationStatus(q.Status)
		switch status {
		case domain.ReservationPending, domain.ReservationApproved, domain.ReservationCancelled:
			f.Statuses = []domain.ReservationStatus{status}
		default:
			return nil, 0, ErrInvalidStatus
		}
	}

	if q.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", q.Date, time.Local)
		if err != nil {
			return nil, 0, ErrInvalidDate
		}
		f.Day = &day
	}

	return s.reservations.List(ctx, f)
}

// Get fetches one reservation. Non-admins only see their own; a foreign id
// reads as not found.
func (s *Service) Get(ctx context.Context, id, requesterID int64, role domain.UserRole) (*domain.Reservation, error) {
	var (
		res *domain.Reservation
		err error
	)
	if role == domain.RoleAdmin {
		res, err = s.reservations.GetByID(ctx, id)
	} else {
		res, err = s.reservations.GetByIDForUser(ctx, id, requesterID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// Cancel transitions any non-cancelled reservation to cancelled. Ownership
// rules follow Get.
func (s *Service) Cancel(ctx context.Context, id, requesterID int64, role domain.UserRole) (*domain.Reservation, error) {
	res, err := s.Get(ctx, id, requesterID, role)
	if err != nil {
		return nil, err
	}

	if res.Status == domain.ReservationCancelled {
		return nil, ErrAlreadyCancelled
	}

	wasApproved := res.Status == domain.ReservationApproved
	if err := s.reservations.UpdateStatus(ctx, id, domain.ReservationCancelled); err != nil {
		return nil, err
	}
	if wasApproved {
		s.invalidateOccupied(ctx, res.RoomID, res.StartTime)
	}

	return s.reservations.GetByID(ctx, id)
}

// Approve transitions a pending reservation to approved. The room invariant
// is re-checked here: approving must not produce two overlapping approved
// reservations.
func (s *Service) Approve(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if res.Status != domain.ReservationPending {
		return nil, ErrAlreadyProcessed
	}

	occupied, err := s.reservations.Exists(ctx, repository.ReservationFilter{
		RoomID:       &res.RoomID,
		Statuses:     []domain.ReservationStatus{domain.ReservationApproved},
		StartsBefore: &res.EndTime,
		EndsAfter:    &res.StartTime,
	})
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, ErrRoomConflict
	}

	if err := s.reservations.UpdateStatus(ctx, id, domain.ReservationApproved); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "reservations_no_overlap" {
			return nil, ErrRoomConflict
		}
		return nil, err
	}
	s.invalidateOccupied(ctx, res.RoomID, res.StartTime)

	return s.reservations.GetByID(ctx, id)
}

// OccupiedSlots derives the approved intervals of a room's day and the
// 30-minute slot start times they cover. Served from the redis cache when one
// is configured; the read side tolerates slight staleness.
func (s *Service) OccupiedSlots(ctx context.Context, roomID int64, dateStr string) (*OccupiedSlotsView, error) {
	day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	key := occupiedCacheKey(roomID, day)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var view OccupiedSlotsView
			if json.Unmarshal(raw, &view) == nil {
				return &view, nil
			}
		}
	}

	rows, _, err := s.reservations.List(ctx, repository.ReservationFilter{
		RoomID:   &roomID,
		Statuses: []domain.ReservationStatus{domain.ReservationApproved},
		Day:      &day,
		Order:    "start_time ASC",
	})
	if err != nil {
		return nil, err
	}

	intervals := make([]TimeRange, 0, len(rows))
	for _, r := range rows {
		intervals = append(intervals, TimeRange{Start: r.StartTime, End: r.EndTime})
	}

	dayStart, dayEnd := repository.DayWindow(day)
	view := &OccupiedSlotsView{
		RoomID:    roomID,
		Date:      dateStr,
		Intervals: intervals,
		Slots:     CoveredSlotStarts(intervals, dayStart, dayEnd),
	}

	if s.cache != nil {
		if raw, err := json.Marshal(view); err == nil {
			s.cache.Set(ctx, key, raw, occupiedCacheTTL)
		}
	}
	return view, nil
}

// RoomAgenda lists a room's pending and approved reservations with requester
// identity, start ascending. Without a date it covers everything starting
// from now.
func (s *Service) RoomAgenda(ctx context.Context, roomID int64, dateStr string) ([]domain.Reservation, error) {
	f := repository.ReservationFilter{
		RoomID:      &roomID,
		Statuses:    []domain.ReservationStatus{domain.ReservationApproved, domain.ReservationPending},
		Order:       "start_time ASC",
		PreloadUser: true,
	}

	if dateStr != "" {
		day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return nil, ErrInvalidDate
		}
		f.Day = &day
	} else {
		now := s.clock.Now()
		f.StartsAtOrAfter = &now
	}

	rows, _, err := s.reservations.List(ctx, f)
	return rows, err
}

// Now exposes the service clock so handlers can stamp derived display state.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

func occupiedCacheKey(roomID int64, day time.Time) string {
	return fmt.Sprintf("occupied:room:%d:%s", roomID, day.Format("2006-01-02"))
}

func (s *Service) invalidateOccupied(ctx context.Context, roomID int64, start time.Time) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, occupiedCacheKey(roomID, start))
}
