// Package token mints and parses the signed session tokens issued on
// successful login. A token carries the identity, role, permission list,
// and role-scoped config list, so downstream authorization needs no lookup
// round-trip to enforce access.
package token
