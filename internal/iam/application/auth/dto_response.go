package auth

import (
	"time"

	"stockverse/internal/iam/domain/model"
	"stockverse/internal/iam/domain/user"
)

type LoginResponse struct {
	User   user.UserResponseDto `json:"user"`
	Token  string               `json:"token"`
	Expire time.Time            `json:"expire"`
}

type MeResponse struct {
	User          user.UserResponseDto `json:"user"`
	Business      string               `json:"business"`
	Plan          model.PlanID         `json:"plan"`
	Active        bool                 `json:"active"`
	Entitlements  model.Entitlements   `json:"entitlements"`
	SystemTimeUTC time.Time            `json:"systemTimeUtc"`
}
