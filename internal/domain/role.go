package domain

import (
	"strings"
	"unicode"
)

// RoleTag is the normalized form of a free-text authority string.
type RoleTag string

const (
	RoleAdmin               RoleTag = "ADMIN"
	RoleDataManager         RoleTag = "DATA_MANAGER"
	RoleCoordinator         RoleTag = "COORDINATOR"
	RoleRegionalManagerLike RoleTag = "REGIONAL_MANAGER_LIKE"
	RoleAvp                 RoleTag = "AVP"
	RoleFieldOfficer        RoleTag = "FIELD_OFFICER"
	RoleHR                  RoleTag = "HR"
	RoleUnknown             RoleTag = "UNKNOWN"
)

var roleSynonyms = map[string]RoleTag{
	"ADMIN":                 RoleAdmin,
	"ADMINISTRATOR":         RoleAdmin,
	"SUPER_ADMIN":           RoleAdmin,
	"DATA_MANAGER":          RoleDataManager,
	"DATAMANAGER":           RoleDataManager,
	"COORDINATOR":           RoleCoordinator,
	"MANAGER":               RoleRegionalManagerLike,
	"OFFICE_MANAGER":        RoleRegionalManagerLike,
	"REGIONAL_MANAGER":      RoleRegionalManagerLike,
	"REGIONAL_MANAGER_LIKE": RoleRegionalManagerLike,
	"AVP":                   RoleAvp,
	"AREA_VICE_PRESIDENT":   RoleAvp,
	"FIELD_OFFICER":         RoleFieldOfficer,
	"FIELDOFFICER":          RoleFieldOfficer,
	"HR":                    RoleHR,
	"HUMAN_RESOURCES":       RoleHR,
}

// NormalizeRole maps a raw authority value such as "ROLE_MANAGER" or
// "field officer" to its RoleTag. Unrecognized input yields RoleUnknown.
func NormalizeRole(raw string) RoleTag {
	key := canonicalRoleKey(raw)
	if key == "" {
		return RoleUnknown
	}
	if tag, ok := roleSynonyms[key]; ok {
		return tag
	}
	return RoleUnknown
}

func canonicalRoleKey(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 5 && strings.EqualFold(s[:5], "ROLE_") {
		s = s[5:]
	}
	s = strings.ToUpper(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsKnown reports whether the tag grants anything beyond RoleUnknown.
func (r RoleTag) IsKnown() bool {
	return r != "" && r != RoleUnknown
}

// HasAnyRole reports whether the primary authority or any supplementary one
// resolves to a tag in candidates.
func HasAnyRole(primary string, all []string, candidates ...RoleTag) bool {
	if len(candidates) == 0 {
		return false
	}
	want := make(map[RoleTag]struct{}, len(candidates))
	for _, c := range candidates {
		want[c] = struct{}{}
	}
	if _, ok := want[NormalizeRole(primary)]; ok {
		return true
	}
	for _, raw := range all {
		if _, ok := want[NormalizeRole(raw)]; ok {
			return true
		}
	}
	return false
}

// Capabilities are the view and permission flags derived from a caller's roles.
type Capabilities struct {
	Role            RoleTag `json:"role"`
	IsAdmin         bool    `json:"isAdmin"`
	IsDataManager   bool    `json:"isDataManager"`
	IsManager       bool    `json:"isManager"`
	IsCoordinator   bool    `json:"isCoordinator"`
	IsAvp           bool    `json:"isAvp"`
	IsFieldOfficer  bool    `json:"isFieldOfficer"`
	IsHR            bool    `json:"isHr"`
	CanManageTeams  bool    `json:"canManageTeams"`
	CanViewAllTeams bool    `json:"canViewAllTeams"`
}

// ResolveCapabilities computes capability flags from the primary role and the
// full authority list.
func ResolveCapabilities(primary string, all []string) Capabilities {
	caps := Capabilities{
		Role:           NormalizeRole(primary),
		IsAdmin:        HasAnyRole(primary, all, RoleAdmin),
		IsDataManager:  HasAnyRole(primary, all, RoleDataManager),
		IsManager:      HasAnyRole(primary, all, RoleRegionalManagerLike),
		IsCoordinator:  HasAnyRole(primary, all, RoleCoordinator),
		IsAvp:          HasAnyRole(primary, all, RoleAvp),
		IsFieldOfficer: HasAnyRole(primary, all, RoleFieldOfficer),
		IsHR:           HasAnyRole(primary, all, RoleHR),
	}
	if !caps.Role.IsKnown() {
		for _, raw := range all {
			if tag := NormalizeRole(raw); tag.IsKnown() {
				caps.Role = tag
				break
			}
		}
	}
	caps.CanManageTeams = caps.IsAdmin || caps.IsDataManager
	caps.CanViewAllTeams = caps.CanManageTeams || caps.IsHR
	return caps
}
