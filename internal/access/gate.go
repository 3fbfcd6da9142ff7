package access

import "dropletbot/internal/domain"

// IsAuthorized reports whether an actor holding actorRoles may use a gated control.
// An empty authorized set means the controls are open to everyone.
func IsAuthorized(actorRoles, authorized domain.RoleSet) bool {
	if len(authorized) == 0 {
		return true
	}
	for id := range actorRoles {
		if authorized.Has(id) {
			return true
		}
	}
	return false
}

type RoleSource interface {
	AuthorizedRoles() domain.RoleSet
}

// Gate checks actors against the currently loaded authorized roles.
type Gate struct {
	roles RoleSource
}

func NewGate(roles RoleSource) *Gate {
	return &Gate{roles: roles}
}

func (g *Gate) Allow(actorRoles domain.RoleSet) bool {
	return IsAuthorized(actorRoles, g.roles.AuthorizedRoles())
}
