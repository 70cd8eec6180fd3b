package school

import (
	"context"

	"github.com/trezcool/tuzo/core"
	"github.com/trezcool/tuzo/core/user"
)

// CanExportClass is the one place where object ownership, not role alone,
// gates an action: admins may export any class report, a class teacher
// only the report of the class registered to them. Every other role is
// denied.
func CanExportClass(role string, userID int, cls SchoolClass) bool {
	switch role {
	case user.RoleAdmin:
		return true
	case user.RoleClassTeacher:
		return cls.ClassTeacherID != nil && *cls.ClassTeacherID == userID
	}
	return false
}

// CanExportClass resolves the class and applies the ownership check.
// A missing class is simply not exportable.
func (svc *Service) CanExportClass(ctx context.Context, role string, userID, classID int) (bool, error) {
	cls, err := svc.repo.GetClassByID(ctx, classID)
	if err != nil {
		if core.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return CanExportClass(role, userID, cls), nil
}
