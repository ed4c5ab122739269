package reservation

import (
	"time"

	"roomreserve/internal/domain"
)

type CreateReservationRequest struct {
	RoomID           int64     `json:"room_id" binding:"required"`
	StartTime        time.Time `json:"start_time" binding:"required"`
	EndTime          time.Time `json:"end_time" binding:"required"`
	ExpectedDuration int       `json:"expected_duration" binding:"required"`
}

type ListReservationsQuery struct {
	Date   string `form:"date"`
	Status string `form:"status"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
}

type TimeRange struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// OccupiedSlotsView is the read-side derivation for a room and day: the
// approved intervals plus every 30-minute start time they cover.
type OccupiedSlotsView struct {
	RoomID    int64       `json:"room_id"`
	Date      string      `json:"date"`
	Intervals []TimeRange `json:"intervals"`
	Slots     []time.Time `json:"slots"`
}

type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReservationResponse struct {
	ID               int64        `json:"id"`
	UserID           int64        `json:"user_id"`
	RoomID           int64        `json:"room_id"`
	StartTime        time.Time    `json:"start_time"`
	EndTime          time.Time    `json:"end_time"`
	ExpectedDuration int          `json:"expected_duration"`
	Status           string       `json:"status"`
	DisplayStatus    string       `json:"display_status"`
	CreatedAt        time.Time    `json:"created_at"`
	User             *UserSummary `json:"user,omitempty"`
	Room             *domain.Room `json:"room,omitempty"`
}

func toResponse(r *domain.Reservation, now time.Time) ReservationResponse {
	resp := ReservationResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		RoomID:           r.RoomID,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		ExpectedDuration: r.ExpectedDuration,
		Status:           string(r.Status),
		DisplayStatus:    r.DisplayStatus(now),
		CreatedAt:        r.CreatedAt,
		Room:             r.Room,
	}
	if r.User != nil {
		resp.User = &UserSummary{
			ID:    r.User.ID,
			Name:  r.User.Name,
			Email: r.User.Email,
		}
	}
	return resp
}
