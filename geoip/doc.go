// Package geoip resolves client IPs to ISO 3166-1 alpha-2 country codes for
// suspicious-login evaluation. Resolution is best-effort: an unresolvable IP
// yields an empty country, never a failed login.
package geoip
