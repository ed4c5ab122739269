package reservation

import (
	"context"
	"time"

	"roomreserve/internal/domain"
	"roomreserve/internal/repository"
)

// ReservationRepository is the store surface the service needs.
type ReservationRepository interface {
	CreateIfFree(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Reservation, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, int64, error)
	Exists(ctx context.Context, f repository.ReservationFilter) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
}

// RoomRepository resolves the target room of a creation request.
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// Clock is the injectable time source for past/future checks.
type Clock interface {
	Now() time.Time
}
