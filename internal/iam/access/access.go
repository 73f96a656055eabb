// Package access resolve, uma vez por requisição, quem está chamando e o que
// a empresa dessa pessoa pode usar.
package access

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stockverse/internal/iam/domain/model"
)

const contextKey = "AccessCapabilityKey"

// Access é a capacidade de autorização repassada aos serviços.
type Access struct {
	UserUUID     uuid.UUID
	Email        string
	Name         string
	Business     string
	Role         model.UserRole
	Plan         model.PlanID
	Active       bool
	Entitlements model.Entitlements
	Token        string
}

// Resolve monta o Access a partir do usuário e do Admin da empresa. owner
// nil (empresa sem Admin) resulta em nenhum módulo liberado.
func Resolve(user model.User, owner *model.User, now time.Time) Access {
	a := Access{
		UserUUID:     user.UUID,
		Email:        model.NormalizeEmail(user.Email),
		Name:         user.Name,
		Business:     user.Business,
		Role:         user.Role,
		Entitlements: model.EntitlementsFor(model.Subscription{}, now),
	}
	if owner == nil {
		return a
	}
	sub := owner.SubscriptionData()
	a.Plan = sub.PlanID
	a.Active = sub.IsActive(now)
	a.Entitlements = model.EntitlementsFor(sub, now)
	return a
}

func (a Access) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CanManage: Admin ou Manager.
func (a Access) CanManage() bool {
	return a.Role == model.RoleAdmin || a.Role == model.RoleManager
}

func (a Access) CanWrite() bool {
	return a.Role != model.RoleGuest
}

func (a Access) Has(m model.Module) bool {
	return a.Entitlements.Has(m)
}

// Is compara o email do chamador sem diferenciar maiúsculas.
func (a Access) Is(email string) bool {
	return a.Email != "" && strings.EqualFold(a.Email, strings.TrimSpace(email))
}

func (a Access) HasRole(roles ...model.UserRole) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func Set(c *gin.Context, a Access) {
	c.Set(contextKey, a)
}

func Get(c *gin.Context) (Access, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Access{}, false
	}
	a, ok := v.(Access)
	return a, ok
}
