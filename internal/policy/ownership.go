package policy

import (
	"context"

	"github.com/diewo77/go-pharmacy/gate"
)

// Ownable is implemented by documents that belong to a user.
type Ownable interface {
	OwnerID() string
}

// OwnershipPolicy allows access to resources the subject owns.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can allows nil resources (list/create) and denies resources that are not
// Ownable.
func (p *OwnershipPolicy) Can(_ context.Context, s Subject, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.OwnerID() != "" && ownable.OwnerID() == s.ID
}

// AdminBypassPolicy allows admins through and defers to inner for everybody else.
type AdminBypassPolicy struct {
	inner   gate.Policy[Subject]
	isAdmin func(ctx context.Context, s Subject) bool
}

func NewAdminBypassPolicy(inner gate.Policy[Subject], isAdmin func(ctx context.Context, s Subject) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdmin: isAdmin}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, s Subject, action gate.Action, resource any) bool {
	if p.isAdmin(ctx, s) {
		return true
	}
	return p.inner.Can(ctx, s, action, resource)
}
