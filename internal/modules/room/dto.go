package room

type CreateRoomRequest struct {
	Name       string `json:"name" validate:"required"`
	Size       string `json:"size" validate:"required"`
	TVs        int    `json:"tvs" validate:"gte=0"`
	Projectors int    `json:"projectors" validate:"gte=0"`
	Capacity   int    `json:"capacity" validate:"required,gte=1"`
}

type UpdateRoomRequest struct {
	Name       *string `json:"name,omitempty"`
	Size       *string `json:"size,omitempty"`
	TVs        *int    `json:"tvs,omitempty" validate:"omitempty,gte=0"`
	Projectors *int    `json:"projectors,omitempty" validate:"omitempty,gte=0"`
	Capacity   *int    `json:"capacity,omitempty" validate:"omitempty,gte=1"`
	Active     *bool   `json:"active,omitempty"`
}
