package user

import (
	"time"

	"github.com/google/uuid"
)

type UserResponseDto struct {
	UUID     uuid.UUID `json:"uuid"`
	Business string    `json:"business"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Role     UserRole  `json:"role"`
	Live     bool      `json:"live"`
	CreateAt time.Time `json:"create_at"`
	UpdateAt time.Time `json:"update_at"`
}

type UserListResponseDto struct {
	Users     []UserResponseDto `json:"users"`
	SeatLimit int               `json:"seatLimit"`
}

func ToResponse(u User) UserResponseDto {
	return UserResponseDto{
		UUID:     u.UUID,
		Business: u.Business,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		Live:     u.Live,
		CreateAt: u.CreateAt,
		UpdateAt: u.UpdateAt,
	}
}
