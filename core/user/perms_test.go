package user

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role string
		perm string
		want bool
	}{
		{name: "admin manages users", role: RoleAdmin, perm: PermCreateUsers, want: true},
		{name: "admin manages backups", role: RoleAdmin, perm: PermBackups, want: true},
		{name: "admin cannot export class reports", role: RoleAdmin, perm: PermExportClassReports},
		{name: "deputy manages students", role: RoleDeputy, perm: PermManageStudents, want: true},
		{name: "deputy views reports", role: RoleDeputy, perm: PermViewReports, want: true},
		{name: "deputy cannot manage backups", role: RoleDeputy, perm: PermBackups},
		{name: "deputy cannot create users", role: RoleDeputy, perm: PermCreateUsers},
		{name: "teacher views students", role: RoleTeacher, perm: PermViewStudents, want: true},
		{name: "teacher edits own students", role: RoleTeacher, perm: PermEditOwnStudents, want: true},
		{name: "teacher cannot edit students", role: RoleTeacher, perm: PermEditStudents},
		{name: "class teacher exports class reports", role: RoleClassTeacher, perm: PermExportClassReports, want: true},
		{name: "class teacher adds achievements", role: RoleClassTeacher, perm: PermAddAchievements, want: true},
		{name: "class teacher cannot import/export", role: RoleClassTeacher, perm: PermImportExport},
		{name: "unknown role", role: "superuser", perm: PermBackups},
		{name: "unknown permission", role: RoleAdmin, perm: "fly"},
		{name: "empty role", role: "", perm: PermBackups},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.want {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range AllRoles {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	if IsValidRole("principal") {
		t.Error(`IsValidRole("principal") = true, want false`)
	}
}
