package user

// Permission tokens
const (
	PermCreateUsers        = "create_users"
	PermEditUsers          = "edit_users"
	PermDeleteUsers        = "delete_users"
	PermManageStudents     = "manage_students"
	PermImportExport       = "import_export"
	PermBackups            = "backups"
	PermViewReports        = "view_reports"
	PermEditStudents       = "edit_students"
	PermViewStudents       = "view_students"
	PermEditOwnStudents    = "edit_own_students"
	PermAddAchievements    = "add_achievements"
	PermManageClass        = "manage_class"
	PermEditClassStudents  = "edit_class_students"
	PermExportClassReports = "export_class_reports"
)

// RolePermissions maps each role to its allowed-action set.
var RolePermissions = map[string][]string{
	RoleAdmin:        {PermCreateUsers, PermEditUsers, PermDeleteUsers, PermManageStudents, PermImportExport, PermBackups},
	RoleDeputy:       {PermManageStudents, PermImportExport, PermViewReports, PermEditStudents},
	RoleTeacher:      {PermViewStudents, PermEditOwnStudents, PermAddAchievements},
	RoleClassTeacher: {PermManageClass, PermEditClassStudents, PermViewReports, PermExportClassReports, PermAddAchievements},
}

// HasPermission reports whether the role's allowed set contains the
// permission token. Unknown roles and unknown tokens are simply false.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, perm := range perms {
		if perm == permission {
			return true
		}
	}
	return false
}
