package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomreserve/internal/domain"
	"roomreserve/internal/pkg/validator"

	"gorm.io/gorm"
)

type Service struct {
	rooms        RoomRepository
	reservations ReservationReader
}

func NewService(rooms RoomRepository, reservations ReservationReader) *Service {
	return &Service{
		rooms:        rooms,
		reservations: reservations,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}

	room := &domain.Room{
		Name:       req.Name,
		Size:       req.Size,
		TVs:        req.TVs,
		Projectors: req.Projectors,
		Capacity:   req.Capacity,
		Active:     true,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRoomRequest) (*domain.Room, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}

	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Size != nil {
		room.Size = *req.Size
	}
	if req.TVs != nil {
		room.TVs = *req.TVs
	}
	if req.Projectors != nil {
		room.Projectors = *req.Projectors
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Active != nil {
		room.Active = *req.Active
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Remove soft-deactivates the room; reservation history stays untouched.
func (s *Service) Remove(ctx context.Context, id int64) (*domain.Room, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.rooms.Deactivate(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListActive(ctx)
}

// ListAvailable returns active rooms with no approved reservation overlapping
// [start, end) — the same half-open predicate the create path uses.
func (s *Service) ListAvailable(ctx context.Context, start, end time.Time) ([]domain.Room, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrValidation)
	}

	booked, err := s.reservations.OverlappingApprovedRoomIDs(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.rooms.ListActiveExcluding(ctx, booked)
}
