// Package permission maps roles to the permission list and role-scoped
// config list embedded in session tokens. The registry is populated during
// engine construction and frozen before the first login.
package permission
