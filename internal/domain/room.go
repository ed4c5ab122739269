package domain

import "time"

type Room struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name" validate:"required"`
	Size       string    `json:"size" validate:"required"`
	TVs        int       `json:"tvs" validate:"gte=0"`
	Projectors int       `json:"projectors" validate:"gte=0"`
	Capacity   int       `json:"capacity" validate:"required,gte=1"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
