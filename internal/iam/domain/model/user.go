package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleAdmin   UserRole = "Admin"
	RoleManager UserRole = "Manager"
	RoleGuest   UserRole = "Guest"
)

var AllValidRoles = []UserRole{RoleAdmin, RoleManager, RoleGuest}

func IsValidUserRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleGuest:
		return true
	default:
		return false
	}
}

// User é a conta de acesso. Subscription só tem valor na linha do Admin,
// dono da assinatura da empresa.
type User struct {
	UUID         uuid.UUID                         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Business     string                            `gorm:"type:varchar(120);not null;index"`
	Name         string                            `gorm:"type:varchar(255);not null"`
	Email        string                            `gorm:"type:varchar(255);not null;unique"`
	Password     string                            `gorm:"column:password_hash;type:varchar(255);not null"`
	Phone        string                            `gorm:"type:varchar(50);not null;default:''"`
	Role         UserRole                          `gorm:"type:user_role;not null;default:'Guest'"`
	Subscription *datatypes.JSONType[Subscription] `gorm:"type:jsonb"`
	Live         bool                              `gorm:"not null;default:true"`
	CreateAt     time.Time                         `gorm:"column:create_at;not null;autoCreateTime"`
	UpdateAt     time.Time                         `gorm:"column:update_at;not null;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail é a forma canônica usada como chave de identidade.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SubscriptionData devolve a assinatura gravada ou o valor zero (sem plano).
func (u User) SubscriptionData() Subscription {
	if u.Subscription == nil {
		return Subscription{}
	}
	return u.Subscription.Data()
}

func (u *User) SetSubscription(s Subscription) {
	v := datatypes.NewJSONType(s)
	u.Subscription = &v
}
