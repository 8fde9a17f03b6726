package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/go-pharmacy/gate"
)

func TestStaticProfile(t *testing.T) {
	p := gate.NewStaticProfile("pharmacist", "drug:*", "user:list")
	if p.Name() != "pharmacist" {
		t.Errorf("Name() = %q", p.Name())
	}
	if len(p.Permissions()) != 2 {
		t.Errorf("expected 2 permissions, got %d", len(p.Permissions()))
	}
	if !p.HasPermission("drug:delete") {
		t.Error("drug:* should grant drug:delete")
	}
	if p.HasPermission("user:delete") {
		t.Error("user:list should not grant user:delete")
	}
}

func TestKeyedResolver_Unknown(t *testing.T) {
	r := gate.NewKeyedResolver[string](func(s string) string { return s })
	r.Set("admin", gate.NewStaticProfile("admin", gate.PermissionSuperAdmin))

	p, err := r.Resolve(context.Background(), "nobody")
	if err != nil || p != nil {
		t.Errorf("Resolve(nobody) = %v, %v; want nil, nil", p, err)
	}
}
