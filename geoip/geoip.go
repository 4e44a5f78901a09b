package geoip

import (
	"context"
	"errors"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Resolver defines a public type used by authlane APIs.
//
// Resolver instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Country returns the ISO 3166-1 alpha-2 code for the IP, or an empty string
// when the address cannot be resolved. Errors are reserved for backend
// failures; callers treat both the same way (no country available).
type Resolver interface {
	Country(ctx context.Context, ip string) (string, error)
}

// MaxMind resolves countries from a local MaxMind GeoLite2/GeoIP2 Country
// database.
type MaxMind struct {
	reader *geoip2.Reader
}

// OpenMaxMind describes the openmaxmind operation and its observable behavior.
//
// OpenMaxMind may return an error when input validation, dependency calls, or security checks fail.
// OpenMaxMind does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func OpenMaxMind(path string) (*MaxMind, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &MaxMind{reader: reader}, nil
}

// NewMaxMindFromBytes describes the newmaxmindfrombytes operation and its observable behavior.
//
// NewMaxMindFromBytes may return an error when input validation, dependency calls, or security checks fail.
// NewMaxMindFromBytes does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMaxMindFromBytes(data []byte) (*MaxMind, error) {
	reader, err := geoip2.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return &MaxMind{reader: reader}, nil
}

// Country describes the country operation and its observable behavior.
//
// Country may return an error when input validation, dependency calls, or security checks fail.
// Country does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *MaxMind) Country(_ context.Context, ip string) (string, error) {
	if m == nil || m.reader == nil {
		return "", errors.New("maxmind reader not initialized")
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", nil
	}

	record, err := m.reader.Country(parsed)
	if err != nil {
		return "", err
	}
	return record.Country.IsoCode, nil
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *MaxMind) Close() error {
	if m == nil || m.reader == nil {
		return nil
	}
	return m.reader.Close()
}

// Static resolves countries from a fixed in-memory table. Intended for tests
// and local development.
type Static struct {
	table map[string]string
}

// NewStatic describes the newstatic operation and its observable behavior.
//
// NewStatic may return an error when input validation, dependency calls, or security checks fail.
// NewStatic does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStatic(table map[string]string) *Static {
	copied := make(map[string]string, len(table))
	for ip, country := range table {
		copied[ip] = country
	}
	return &Static{table: copied}
}

// Country describes the country operation and its observable behavior.
//
// Country may return an error when input validation, dependency calls, or security checks fail.
// Country does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Static) Country(_ context.Context, ip string) (string, error) {
	if s == nil {
		return "", nil
	}
	return s.table[ip], nil
}
