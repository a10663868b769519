package domain

import "testing"

func permFlags(p PermissionSet) []bool {
	return []bool{
		p.ViewRates,
		p.SubmitApplications,
		p.ViewApplications,
		p.ReplyApplications,
		p.CheckReceipts,
		p.ManageUsers,
		p.ManageRoles,
		p.ViewAllData,
	}
}

// Permission sets must be monotone along USER < ADMIN < SUPER_ADMIN: a higher
// role never loses a flag the lower role has.
func TestPermissionsMonotone(t *testing.T) {
	order := []Role{RoleUser, RoleAdmin, RoleSuperAdmin}
	for i := 1; i < len(order); i++ {
		lower := permFlags(order[i-1].Permissions())
		higher := permFlags(order[i].Permissions())
		for j := range lower {
			if lower[j] && !higher[j] {
				t.Errorf("%s grants flag %d but %s does not", order[i-1], j, order[i])
			}
		}
	}
}

func TestPermissionsByRole(t *testing.T) {
	user := RoleUser.Permissions()
	if !user.ViewRates || !user.SubmitApplications {
		t.Fatalf("user must view rates and submit applications: %+v", user)
	}
	if user.ViewApplications || user.ManageRoles || user.ViewAllData {
		t.Fatalf("user must not hold staff flags: %+v", user)
	}

	admin := RoleAdmin.Permissions()
	if !admin.ViewApplications || !admin.ReplyApplications || !admin.CheckReceipts {
		t.Fatalf("admin missing staff flags: %+v", admin)
	}
	if admin.ManageUsers || admin.ManageRoles || admin.ViewAllData {
		t.Fatalf("admin must not hold super admin flags: %+v", admin)
	}

	super := RoleSuperAdmin.Permissions()
	for i, flag := range permFlags(super) {
		if !flag {
			t.Fatalf("super admin missing flag %d", i)
		}
	}
}

func TestUnknownRoleGetsUserPermissions(t *testing.T) {
	if Role("bogus").Permissions() != RoleUser.Permissions() {
		t.Fatalf("unknown roles must degrade to user permissions")
	}
}

func TestRoleValidAndStaff(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin, RoleSuperAdmin} {
		if !r.Valid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if Role("bogus").Valid() {
		t.Errorf("bogus role must be invalid")
	}
	if RoleUser.Staff() {
		t.Errorf("user is not staff")
	}
	if !RoleAdmin.Staff() || !RoleSuperAdmin.Staff() {
		t.Errorf("admin and super admin are staff")
	}
}
