package authz

import (
	"strings"

	"golang.org/x/text/cases"
)

// roleLabels maps case-folded caller labels to roles. Localized Cyrillic
// labels and their ASCII equivalents resolve to the same role; the set is
// inherited from the identity layer this engine receives labels from.
var roleLabels = map[string]Role{
	"jurist":        RoleJurist,
	"юрист":         RoleJurist,
	"expert":        RoleExpert,
	"эксперт":       RoleExpert,
	"moderator":     RoleModerator,
	"модератор":     RoleModerator,
	"admin":         RoleAdmin,
	"администратор": RoleAdmin,
}

// folder performs Unicode case folding so that labels like "ЮРИСТ" and
// "Jurist" normalize identically regardless of script.
var folder = cases.Fold()

// Resolve maps a caller-supplied role label to a Role.
// Matching is case-insensitive (Unicode case folding) after trimming
// whitespace. An empty or unrecognized label yields (RoleUnknown, false):
// an authentication failure, never a default role.
func Resolve(label string) (Role, bool) {
	normalized := folder.String(strings.TrimSpace(label))
	if normalized == "" {
		return RoleUnknown, false
	}

	role, ok := roleLabels[normalized]
	if !ok {
		return RoleUnknown, false
	}
	return role, true
}
