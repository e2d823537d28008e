package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/go-multidoc/gate"
)

func TestStaticProfile_HasPermission(t *testing.T) {
	p := gate.NewStaticProfile(1, "editor",
		gate.NewPermission("template", gate.ActionCreate),
		gate.NewPermission("archive", gate.ActionList),
	)
	if !p.HasPermission("template:create") {
		t.Error("should grant template:create")
	}
	if p.HasPermission("template:delete") {
		t.Error("should not grant template:delete")
	}

	admin := gate.NewStaticProfile(2, "admin", gate.PermissionSuperAdmin)
	if !admin.HasPermission("archive:delete") {
		t.Error("superadmin should grant everything")
	}
}

func TestStaticProfile_PermissionsSorted(t *testing.T) {
	p := gate.NewStaticProfile(1, "viewer", "template:view", "archive:view", "archive:list")
	got := p.Permissions()
	want := []gate.Permission{"archive:list", "archive:view", "template:view"}
	if len(got) != len(want) {
		t.Fatalf("Permissions() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Permissions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStaticResolver(t *testing.T) {
	r := gate.NewStaticResolver[uint]()
	r.Set(1, gate.NewStaticProfile(1, "viewer"))

	p, err := r.Resolve(context.Background(), 1)
	if err != nil || p == nil || p.Name() != "viewer" {
		t.Fatalf("Resolve(1) = %v, %v", p, err)
	}
	p, err = r.Resolve(context.Background(), 2)
	if err != nil || p != nil {
		t.Fatalf("Resolve(2) = %v, %v, want nil, nil", p, err)
	}
}
