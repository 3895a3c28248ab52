package service

import (
	"strings"

	"github.com/oikos/disc-backend/internal/model"
)

// AccessPolicy decides the role granted to an authenticated email.
type AccessPolicy interface {
	RoleFor(email string) model.Role
}

// EmailAllowlist grants the admin role to a fixed set of addresses.
type EmailAllowlist struct {
	admins map[string]struct{}
}

// NewEmailAllowlist creates an EmailAllowlist. Addresses are matched
// case-insensitively after trimming.
func NewEmailAllowlist(adminEmails []string) *EmailAllowlist {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &EmailAllowlist{admins: admins}
}

// RoleFor returns RoleAdmin for allowlisted addresses and RoleParticipant otherwise.
func (p *EmailAllowlist) RoleFor(email string) model.Role {
	if _, ok := p.admins[normalizeEmail(email)]; ok {
		return model.RoleAdmin
	}
	return model.RoleParticipant
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
