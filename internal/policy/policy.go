// Package policy decides which roles may see or change which records.
// Every function is pure; roles outside the closed set are always denied.
package policy

import "dayzone/internal/model"

// CanViewOperatives reports whether caller may list or read operatives of target.
func CanViewOperatives(caller, target model.Role) bool {
	if !caller.Valid() || !target.Valid() {
		return false
	}
	return caller.IsAdmin() || caller == target
}

// CanMutateOperative reports whether caller may change an operative owned by recordRole.
func CanMutateOperative(caller, recordRole model.Role) bool {
	return CanViewOperatives(caller, recordRole)
}

// CanMutateWanted reports whether caller may change the wanted list.
func CanMutateWanted(caller model.Role) bool {
	return caller.IsAdmin()
}

// CanMutateUser reports whether caller may administer user accounts.
func CanMutateUser(caller model.Role) bool {
	return caller.IsAdmin()
}

// CanDeleteUser reports whether caller may delete targetID. Nobody may delete themselves.
func CanDeleteUser(caller model.Role, callerID, targetID uint) bool {
	return CanMutateUser(caller) && callerID != targetID
}
