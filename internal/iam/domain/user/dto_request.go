package user

type CreateUserRequestDto struct {
	Name     string   `json:"name" binding:"required,min=2,max=255"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Phone    string   `json:"phone" binding:"omitempty,max=50"`
	Role     UserRole `json:"role" binding:"required"`
}

type UpdateUserRequestDto struct {
	Name     *string   `json:"name" binding:"omitempty,min=2,max=255"`
	Phone    *string   `json:"phone" binding:"omitempty,max=50"`
	Password *string   `json:"password" binding:"omitempty,min=8"`
	Role     *UserRole `json:"role"`
}
