package policy

import (
	"context"
	"net/http"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/gate"
	"github.com/diewo77/go-pharmacy/internal/models"
)

// Subject is who is asking: the session user's id and role.
type Subject struct {
	ID   string
	Role models.UserType
}

// SubjectFromContext builds the subject from the request session.
func SubjectFromContext(ctx context.Context) Subject {
	u, ok := auth.UserFromContext(ctx)
	if !ok {
		return Subject{}
	}
	return Subject{ID: u.ID, Role: u.UserType}
}

// AuthGate is the console's view of what each role may do. The backend stays
// the authority; this only decides what to render and which routes to serve.
type AuthGate struct {
	Gate     *gate.HybridGate[Subject]
	Resolver *gate.KeyedResolver[Subject, models.UserType]
}

// NewAuthGate registers the role profiles and the quotation ownership policy.
func NewAuthGate() *AuthGate {
	resolver := gate.NewKeyedResolver[Subject](func(s Subject) models.UserType { return s.Role })
	for role, profile := range DefaultProfiles() {
		resolver.Set(role, profile)
	}
	ag := &AuthGate{Gate: gate.NewHybridGate[Subject](resolver), Resolver: resolver}
	ag.RegisterPolicy("quotation", NewAdminBypassPolicy(NewOwnershipPolicy(), ag.IsAdmin))
	return ag
}

// DefaultProfiles returns the permission set of each user type.
func DefaultProfiles() map[models.UserType]gate.Profile {
	return map[models.UserType]gate.Profile{
		models.UserTypeClient: gate.NewStaticProfile(string(models.UserTypeClient),
			gate.NewPermission("drug", gate.ActionList),
			gate.NewPermission("prescription", gate.ActionCreate),
			"profile:*",
			gate.NewPermission("quotation", gate.ActionList),
			gate.NewPermission("quotation", gate.ActionView),
			gate.NewPermission("quotation", gate.ActionApprove),
		),
		models.UserTypePharmacist: gate.NewStaticProfile(string(models.UserTypePharmacist),
			"drug:*",
			"prescription:*",
			"quotation:*",
			gate.NewPermission("user", gate.ActionList),
			"profile:*",
		),
		models.UserTypeAdmin: gate.NewStaticProfile(string(models.UserTypeAdmin), gate.PermissionSuperAdmin),
	}
}

// RegisterPolicy adds a policy for a resource type.
func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[Subject]) {
	ag.Gate.Register(resourceType, p)
}

// Authorize checks the current user against action on resource.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	return ag.Gate.Authorize(ctx, SubjectFromContext(ctx), action, resourceType, resource)
}

func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// CanProfile checks only profile permissions.
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	return ag.Gate.CanProfile(ctx, SubjectFromContext(ctx), action, resourceType)
}

// IsAdmin reports a superadmin profile.
func (ag *AuthGate) IsAdmin(ctx context.Context, s Subject) bool {
	p := ag.Gate.Profile(ctx, s)
	return p != nil && p.HasPermission(gate.PermissionSuperAdmin)
}

// IsStaff reports any known non-client profile.
func (ag *AuthGate) IsStaff(ctx context.Context) bool {
	s := SubjectFromContext(ctx)
	return s.Role != models.UserTypeClient && ag.Gate.Profile(ctx, s) != nil
}

// RequirePermission returns middleware that checks a profile permission.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ag.CanProfile(r.Context(), action, resourceType) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff keeps clients out of the admin area. Clients are sent home
// rather than shown an error page.
func (ag *AuthGate) RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserFromContext(r.Context()); !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !ag.IsStaff(r.Context()) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
