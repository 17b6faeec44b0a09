package auth

import (
	"strings"

	"agencia_backend/internal/models"
)

// AdminPolicy decides whether a user may call the operator-override surface.
// Deployments can swap the implementation (role claims, external IdP) without
// touching handlers.
type AdminPolicy interface {
	IsAdmin(user *models.User) bool
}

// RoleAndAllowListPolicy grants admin to users with the admin role, plus any
// email on the static allow-list. The list covers deployments where role data
// has not been backfilled yet.
type RoleAndAllowListPolicy struct {
	allowed map[string]struct{}
}

func NewRoleAndAllowListPolicy(emails []string) *RoleAndAllowListPolicy {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &RoleAndAllowListPolicy{allowed: allowed}
}

func (p *RoleAndAllowListPolicy) IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	if user.Role == models.UserRoleAdmin {
		return true
	}
	_, ok := p.allowed[strings.ToLower(user.Email)]
	return ok
}
