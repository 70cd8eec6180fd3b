package sqliterepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tuzo/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps sql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username string, excludedUsers ...user.User) error {
	query := "SELECT EXISTS (SELECT 1 FROM admin_users WHERE username = ?"
	args := []interface{}{username}
	if len(excludedUsers) > 0 {
		query += " AND id NOT IN (?" + strings.Repeat(",?", len(excludedUsers)-1) + ")"
		for _, u := range excludedUsers {
			args = append(args, u.ID)
		}
	}
	query += ")"

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if exists {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if err := repo.CheckUsernameUniqueness(ctx, usr.Username); err != nil {
		return user.User{}, err
	}

	res, err := repo.db.ExecContext(ctx,
		"INSERT INTO admin_users (username, password_hash, role, is_active, created_at) VALUES (?, ?, ?, ?, ?)",
		usr.Username, usr.PasswordHash, usr.Role, usr.IsActive, usr.CreatedAt.UTC(),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr.ID = int(id)
	return usr, nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &users,
		"SELECT id, username, password_hash, role, is_active, created_at FROM admin_users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		"SELECT id, username, password_hash, role, is_active, created_at FROM admin_users WHERE id = ?", id)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return usr, nil
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		"SELECT id, username, password_hash, role, is_active, created_at FROM admin_users WHERE username = ?", username)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by username")
	}
	return usr, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	sets := []string{"username = ?", "role = ?"}
	args := []interface{}{usr.Username, usr.Role}
	if len(usr.PasswordHash) > 0 {
		sets = append(sets, "password_hash = ?")
		args = append(args, usr.PasswordHash)
	}
	if isActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *isActive)
	}
	args = append(args, usr.ID)

	res, err := repo.db.ExecContext(ctx, "UPDATE admin_users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo userRepository) DeleteUser(ctx context.Context, id int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	defer func() { _ = tx.Rollback() }()

	var role string
	if err = tx.GetContext(ctx, &role, "SELECT role FROM admin_users WHERE id = ?", id); err != nil {
		return repo.trapNoRowsErr(err, "deleting user")
	}

	// the store must always keep at least one admin account
	if role == user.RoleAdmin {
		var adminCount int
		if err = tx.GetContext(ctx, &adminCount,
			"SELECT COUNT(*) FROM admin_users WHERE role = ?", user.RoleAdmin); err != nil {
			return errors.Wrap(err, "counting admins")
		}
		if adminCount <= 1 {
			return user.ErrLastAdmin
		}
	}

	// class-teacher links are advisory; clear them rather than block
	if _, err = tx.ExecContext(ctx,
		"UPDATE school_classes SET class_teacher_id = NULL WHERE class_teacher_id = ?", id); err != nil {
		return errors.Wrap(err, "clearing class teacher references")
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM admin_users WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return errors.Wrap(tx.Commit(), "deleting user")
}
