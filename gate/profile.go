package gate

import "context"

// Profile is a named set of permissions.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a subject to its profile. A nil profile means none.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// StaticProfile is an in-memory profile.
type StaticProfile struct {
	name        string
	permissions map[Permission]bool
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{name: name, permissions: make(map[Permission]bool, len(permissions))}
	for _, perm := range permissions {
		p.permissions[perm] = true
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

func (p *StaticProfile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	return perms
}

// HasPermission supports wildcard matching.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// KeyedResolver maps subjects to profiles through a key such as a role name.
type KeyedResolver[U any, K comparable] struct {
	key      func(U) K
	profiles map[K]Profile
}

// NewKeyedResolver creates a resolver using key to pick a profile.
func NewKeyedResolver[U any, K comparable](key func(U) K) *KeyedResolver[U, K] {
	return &KeyedResolver[U, K]{key: key, profiles: make(map[K]Profile)}
}

// Set assigns profile to every subject whose key is k.
func (r *KeyedResolver[U, K]) Set(k K, profile Profile) {
	r.profiles[k] = profile
}

// Resolve returns the profile for user, or nil if its key has none.
func (r *KeyedResolver[U, K]) Resolve(_ context.Context, user U) (Profile, error) {
	return r.profiles[r.key(user)], nil
}
