package api

import "strings"

type Role string

const (
	InternalRole Role = "INTERNAL"
	AdminRole    Role = "ADMIN"
	EditorRole   Role = "EDITOR"
	ViewerRole   Role = "VIEWER"
)

var roles = []Role{InternalRole, AdminRole, EditorRole, ViewerRole}

// GetRole parses a role name case-insensitively. Unknown names return "".
func GetRole(s string) Role {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, r := range roles {
		if string(r) == s {
			return r
		}
	}
	return ""
}

// Priority orders roles for minimum-role checks. Unknown roles return -1.
func (r Role) Priority() int {
	switch r {
	case ViewerRole:
		return 0
	case EditorRole:
		return 1
	case AdminRole:
		return 2
	case InternalRole:
		return 99
	default:
		return -1
	}
}
