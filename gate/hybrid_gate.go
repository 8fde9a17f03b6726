package gate

import "context"

// HybridGate combines profile permissions with resource policies:
//  1. the subject must be non-zero
//  2. its profile must grant resource:action
//  3. if a policy is registered for the resource type and a resource is
//     given, the policy must allow it
type HybridGate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

func NewHybridGate[U comparable](resolver ProfileResolver[U]) *HybridGate[U] {
	return &HybridGate[U]{
		resolver: resolver,
		policies: make(map[string]Policy[U]),
	}
}

// Register adds a resource-specific policy.
func (g *HybridGate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

func (g *HybridGate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	profile := g.profile(ctx, user)
	if profile == nil || !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	if resource != nil {
		if policy, ok := g.policies[resourceType]; ok && !policy.Can(ctx, user, action, resource) {
			return ErrUnauthorized
		}
	}
	return nil
}

func (g *HybridGate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission. Used to show or hide UI
// before a specific resource is loaded.
func (g *HybridGate[U]) CanProfile(ctx context.Context, user U, action Action, resourceType string) bool {
	profile := g.profile(ctx, user)
	return profile != nil && profile.HasPermission(NewPermission(resourceType, action))
}

// Profile returns the subject's profile or nil.
func (g *HybridGate[U]) Profile(ctx context.Context, user U) Profile {
	return g.profile(ctx, user)
}

func (g *HybridGate[U]) profile(ctx context.Context, user U) Profile {
	var zero U
	if user == zero {
		return nil
	}
	p, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return nil
	}
	return p
}
