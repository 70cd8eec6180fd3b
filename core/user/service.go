package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tuzo/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("user not found")
	ErrUsernameExists     = core.NewDuplicateKeyError("a user with this username already exists")
	ErrLastAdmin          = core.NewConflictError("cannot delete the last administrator")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		// DeleteUser removes the user, clearing any class-teacher
		// references to it. Deleting the last admin-role user fails
		// with ErrLastAdmin.
		DeleteUser(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// checkUniqueness surfaces a username collision as-is so the caller sees
// the duplicate-key kind, same as grade numbers and class names.
func (svc *Service) checkUniqueness(uname string, exclUsers ...User) error {
	return svc.repo.CheckUsernameUniqueness(context.Background(), uname, exclUsers...)
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc); err != nil {
		return User{}, err
	}
	usr := User{
		Username:  nu.Username,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id int, uu UpdateUser) (User, error) {
	origUsr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err = uu.Validate(origUsr, svc); err != nil {
		return User{}, err
	}

	usr := User{
		ID:       id,
		Username: uu.Username,
		Role:     uu.Role,
	}
	if uu.Password != "" {
		if err = usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteUser(ctx, id)
}

// Authenticate looks up an active user by username and verifies the
// password. It does not distinguish a missing user from a bad password.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !usr.IsActive {
		return User{}, ErrInvalidCredentials
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

// EnsureDefaultAdmin seeds the bootstrap admin account when the store has
// no users at all. Idempotent; meant to be called once at process start.
func (svc *Service) EnsureDefaultAdmin(ctx context.Context, uname, pwd string) error {
	users, err := svc.repo.QueryAllUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	if pwd == "" {
		return errors.New("bootstrap admin password is not set")
	}

	usr := User{
		Username:  core.CleanString(uname, true /* lower */),
		Role:      RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err = svc.repo.CreateUser(ctx, usr); err != nil {
		return errors.Wrap(err, "seeding bootstrap admin")
	}
	svc.log.Info("bootstrap admin account created", map[string]interface{}{"username": usr.Username})
	return nil
}
