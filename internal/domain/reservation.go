package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationCancelled ReservationStatus = "cancelled"
)

// DisplayCompleted is a derived, read-only status for approved reservations
// whose end time has passed. It is never persisted.
const DisplayCompleted = "completed"

type Reservation struct {
	ID               int64             `json:"id"`
	UserID           int64             `json:"user_id"`
	RoomID           int64             `json:"room_id"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          time.Time         `json:"end_time"`
	ExpectedDuration int               `json:"expected_duration"`
	Status           ReservationStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty"`
	Room *Room `json:"room,omitempty"`
}

// IsActive reports whether the reservation still occupies its holder's
// per-day allowance: pending or approved, and not yet ended.
func (r *Reservation) IsActive(now time.Time) bool {
	if r.Status != ReservationPending && r.Status != ReservationApproved {
		return false
	}
	return r.EndTime.After(now)
}

// DisplayStatus returns the persisted status, except for approved
// reservations that already ended, which read as "completed".
func (r *Reservation) DisplayStatus(now time.Time) string {
	if r.Status == ReservationApproved && !r.EndTime.After(now) {
		return DisplayCompleted
	}
	return string(r.Status)
}
