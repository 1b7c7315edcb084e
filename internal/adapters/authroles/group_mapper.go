// Package authroles resolves identity-provider group memberships to
// application roles. Centralizes the role checks that were previously
// scattered at individual call sites.
package authroles

import (
	"strings"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
)

// GroupRoleMapper grants the role of the first rule any of the
// identity's groups matches. Rules are ordered by precedence (admin
// before staff) and group names compare case-insensitively, so an IdP
// reporting "Admins" still grants the admin role.
type GroupRoleMapper struct {
	rules []groupRule
}

type groupRule struct {
	group string
	role  domainauth.Role
}

// NewGroupRoleMapper builds a mapper granting admin to members of
// adminGroup and staff to members of staffGroup. An empty group name
// contributes no rule.
func NewGroupRoleMapper(adminGroup, staffGroup string) GroupRoleMapper {
	var rules []groupRule
	if adminGroup != "" {
		rules = append(rules, groupRule{group: adminGroup, role: domainauth.RoleAdmin})
	}
	if staffGroup != "" {
		rules = append(rules, groupRule{group: staffGroup, role: domainauth.RoleStaff})
	}
	return GroupRoleMapper{rules: rules}
}

// Map returns the highest-precedence role the groups grant, or guest
// when none match.
func (m GroupRoleMapper) Map(groups []string) domainauth.Role {
	for _, rule := range m.rules {
		for _, g := range groups {
			if strings.EqualFold(g, rule.group) {
				return rule.role
			}
		}
	}
	return domainauth.RoleGuest
}
