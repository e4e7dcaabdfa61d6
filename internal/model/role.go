package model

import "strings"

// Role is a faction tag. Admin is the privileged role; every other value is a
// faction whose members see only their own operatives.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleFreedom   Role = "Freedom"
	RoleDuty      Role = "Duty"
	RoleNeutral   Role = "Neutral"
	RoleMercenary Role = "Mercenary"
	RoleMonolith  Role = "Monolith"
	RoleBandit    Role = "Bandit"
	RoleClearSky  Role = "ClearSky"
	RoleLoner     Role = "Loner"
)

// RoleInfo describes a faction for UI pickers.
type RoleInfo struct {
	Value Role   `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var factions = []RoleInfo{
	{Value: RoleFreedom, Label: "Свобода", Color: "#4CAF50"},
	{Value: RoleDuty, Label: "Долг", Color: "#F44336"},
	{Value: RoleNeutral, Label: "Нейтрал", Color: "#9E9E9E"},
	{Value: RoleMercenary, Label: "Наёмник", Color: "#2196F3"},
	{Value: RoleMonolith, Label: "Монолит", Color: "#9C27B0"},
	{Value: RoleBandit, Label: "Бандит", Color: "#795548"},
	{Value: RoleClearSky, Label: "Чистое небо", Color: "#00BCD4"},
	{Value: RoleLoner, Label: "Одиночка", Color: "#FF9800"},
}

// Factions returns the faction catalogue. Admin is not a faction.
func Factions() []RoleInfo {
	out := make([]RoleInfo, len(factions))
	copy(out, factions)
	return out
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	if r == RoleAdmin {
		return true
	}
	for _, f := range factions {
		if f.Value == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether r is the Admin role.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// ParseRole matches s against the role set ignoring case and surrounding space.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(RoleAdmin)) {
		return RoleAdmin, true
	}
	for _, f := range factions {
		if strings.EqualFold(s, string(f.Value)) {
			return f.Value, true
		}
	}
	return "", false
}
