package permission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Role defines a public type used by authlane APIs.
//
// Role instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Role struct {
	Name        string
	Permissions []string
	Configs     []string
}

// Registry defines a public type used by authlane APIs.
//
// Registry instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Registry struct {
	known  map[string]struct{}
	roles  map[string]Role
	frozen bool
}

// NewRegistry describes the newregistry operation and its observable behavior.
//
// NewRegistry may return an error when input validation, dependency calls, or security checks fail.
// NewRegistry does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRegistry(permissions []string) (*Registry, error) {
	if len(permissions) == 0 {
		return nil, errors.New("permission set must not be empty")
	}

	known := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, errors.New("permission name must not be empty")
		}
		if _, dup := known[p]; dup {
			return nil, fmt.Errorf("duplicate permission %q", p)
		}
		known[p] = struct{}{}
	}

	return &Registry{
		known: known,
		roles: make(map[string]Role),
	}, nil
}

// RegisterRole describes the registerrole operation and its observable behavior.
//
// RegisterRole may return an error when input validation, dependency calls, or security checks fail.
// RegisterRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Registry) RegisterRole(name string, permissions, configs []string) error {
	if r.frozen {
		return errors.New("registry is frozen")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("role name must not be empty")
	}
	if _, dup := r.roles[name]; dup {
		return fmt.Errorf("duplicate role %q", name)
	}

	perms := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if _, ok := r.known[p]; !ok {
			return fmt.Errorf("role %q references unknown permission %q", name, p)
		}
		perms = append(perms, p)
	}
	sort.Strings(perms)

	cfgs := make([]string, len(configs))
	copy(cfgs, configs)
	sort.Strings(cfgs)

	r.roles[name] = Role{
		Name:        name,
		Permissions: perms,
		Configs:     cfgs,
	}
	return nil
}

// Freeze describes the freeze operation and its observable behavior.
//
// Freeze may return an error when input validation, dependency calls, or security checks fail.
// Freeze does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// After Freeze the registry is immutable and safe for unlocked concurrent
// reads.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Lookup describes the lookup operation and its observable behavior.
//
// Lookup may return an error when input validation, dependency calls, or security checks fail.
// Lookup does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Registry) Lookup(name string) (Role, bool) {
	role, ok := r.roles[name]
	return role, ok
}

// Roles describes the roles operation and its observable behavior.
//
// Roles may return an error when input validation, dependency calls, or security checks fail.
// Roles does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Registry) Roles() []string {
	names := make([]string, 0, len(r.roles))
	for name := range r.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
