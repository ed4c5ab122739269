package room

import (
	"context"
	"time"

	"roomreserve/internal/domain"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Deactivate(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]domain.Room, error)
	ListActiveExcluding(ctx context.Context, exclude []int64) ([]domain.Room, error)
}

// ReservationReader supplies the overlap query behind the available-rooms
// view.
type ReservationReader interface {
	OverlappingApprovedRoomIDs(ctx context.Context, start, end time.Time) ([]int64, error)
}
