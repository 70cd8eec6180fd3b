package sqliterepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tuzo/core"
	"github.com/trezcool/tuzo/core/school"
	"github.com/trezcool/tuzo/core/user"
	testutil "github.com/trezcool/tuzo/tests"
)

func setupUsers(t *testing.T) (*user.Service, *school.Service) {
	db := testutil.PrepareDB(t, testutil.NewConfig(t))
	log := testutil.Logger()
	return user.NewService(NewUserRepository(db), log), school.NewService(NewSchoolRepository(db), log)
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupUsers(t)

	usr, err := svc.Create(ctx, user.NewUser{
		Username: " JDoe ", Password: "S3kr3t-pass", PasswordConfirm: "S3kr3t-pass", Role: user.RoleDeputy,
	})
	require.NoError(t, err)
	assert.NotZero(t, usr.ID)
	assert.Equal(t, "jdoe", usr.Username) // normalized
	assert.Equal(t, user.RoleDeputy, usr.Role)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("S3kr3t-pass"))

	// username is taken, regardless of case
	_, err = svc.Create(ctx, user.NewUser{
		Username: "jDOE", Password: "An0ther-pass", PasswordConfirm: "An0ther-pass", Role: user.RoleTeacher,
	})
	assert.Equal(t, user.ErrUsernameExists, err)
	assert.True(t, core.IsDuplicateKey(err))

	got, err := svc.GetByUsername(ctx, " JDOE ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.GetByUsername(ctx, "nobody")
	assert.Equal(t, user.ErrNotFound, err)
	assert.True(t, core.IsNotFound(err))

	// partial update keeps unset fields
	inactive := false
	got, err = svc.Update(ctx, usr.ID, user.UpdateUser{Role: user.RoleTeacher, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "jdoe", got.Username)
	assert.Equal(t, user.RoleTeacher, got.Role)
	assert.False(t, got.IsActive)

	got, err = svc.Update(ctx, usr.ID, user.UpdateUser{Username: "janedoe"})
	require.NoError(t, err)
	assert.Equal(t, "janedoe", got.Username)
	assert.Equal(t, user.RoleTeacher, got.Role)

	_, err = svc.Update(ctx, 9999, user.UpdateUser{Username: "ghost"})
	assert.Equal(t, user.ErrNotFound, err)

	users, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUpdateUserTakenUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupUsers(t)

	_, err := svc.Create(ctx, user.NewUser{
		Username: "jdoe", Password: "S3kr3t-pass", PasswordConfirm: "S3kr3t-pass", Role: user.RoleTeacher,
	})
	require.NoError(t, err)
	other, err := svc.Create(ctx, user.NewUser{
		Username: "asmith", Password: "S3kr3t-pass", PasswordConfirm: "S3kr3t-pass", Role: user.RoleTeacher,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, user.UpdateUser{Username: "jdoe"})
	assert.Equal(t, user.ErrUsernameExists, err)
	assert.True(t, core.IsDuplicateKey(err))

	// keeping one's own username is not a collision
	_, err = svc.Update(ctx, other.ID, user.UpdateUser{Username: "asmith", Role: user.RoleDeputy})
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupUsers(t)

	usr, err := svc.Create(ctx, user.NewUser{
		Username: "jdoe", Password: "S3kr3t-pass", PasswordConfirm: "S3kr3t-pass", Role: user.RoleAdmin,
	})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, " JDoe ", "S3kr3t-pass")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.Authenticate(ctx, "jdoe", "wrong-pass")
	assert.Equal(t, user.ErrInvalidCredentials, err)

	_, err = svc.Authenticate(ctx, "nobody", "S3kr3t-pass")
	assert.Equal(t, user.ErrInvalidCredentials, err)

	inactive := false
	_, err = svc.Update(ctx, usr.ID, user.UpdateUser{IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "jdoe", "S3kr3t-pass")
	assert.Equal(t, user.ErrInvalidCredentials, err)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, schSvc := setupUsers(t)

	admin, err := svc.Create(ctx, user.NewUser{
		Username: "headmaster", Password: "S3kr3t-pass", PasswordConfirm: "S3kr3t-pass", Role: user.RoleAdmin,
	})
	require.NoError(t, err)

	// the store must always keep at least one admin
	err = svc.Delete(ctx, admin.ID)
	assert.Equal(t, user.ErrLastAdmin, err)
	assert.True(t, core.IsConflict(err))

	admin2, err := svc.Create(ctx, user.NewUser{
		Username: "viceroy", Password: "S3kr3t-pass", PasswordConfirm: "S3kr3t-pass", Role: user.RoleAdmin,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, admin2.ID))

	assert.Equal(t, user.ErrNotFound, svc.Delete(ctx, 9999))

	// deleting a class teacher clears the class reference
	teacher, err := svc.Create(ctx, user.NewUser{
		Username: "mpemba", Password: "S3kr3t-pass", PasswordConfirm: "S3kr3t-pass", Role: user.RoleClassTeacher,
	})
	require.NoError(t, err)
	grade, err := schSvc.CreateGrade(ctx, school.NewGrade{Number: 10})
	require.NoError(t, err)
	cls, err := schSvc.CreateClass(ctx, school.NewSchoolClass{GradeID: grade.ID, Letter: "А", TeacherID: &teacher.ID})
	require.NoError(t, err)
	require.NotNil(t, cls.ClassTeacherID)

	require.NoError(t, svc.Delete(ctx, teacher.ID))

	cls, err = schSvc.GetClass(ctx, cls.ID)
	require.NoError(t, err)
	assert.Nil(t, cls.ClassTeacherID)
	assert.Empty(t, cls.TeacherName)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupUsers(t)

	// refuses to seed without a password
	assert.Error(t, svc.EnsureDefaultAdmin(ctx, "admin", ""))

	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "Admin", "S3kr3t-pass"))

	usr, err := svc.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, usr.Role)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("S3kr3t-pass"))

	// any existing user disables seeding
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "admin2", "An0ther-pass"))
	users, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
