package models

// Role is a user's access level. The store keeps it as a raw integer where
// zero means a standard user and any non-zero value is privileged; code
// outside the store boundary goes through Privileged instead of comparing
// integers.
type Role int

// RoleStandard is the role assigned at registration.
const RoleStandard Role = 0

// RoleAdmin is the conventional privileged value, though any non-zero role
// passes the admin gate.
const RoleAdmin Role = 1

// Privileged reports whether the role passes the admin gate.
func (r Role) Privileged() bool { return r != RoleStandard }
