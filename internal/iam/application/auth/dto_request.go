package auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Business string `json:"business" binding:"required,min=2,max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	OTPCode  string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
