package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/repos"
	"github.com/learnhub/lms-backend/internal/types"
)

type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       types.Role
	Avatar     []byte
	AvatarName string
}

type UserService interface {
	CreateAdmin(ctx context.Context, in CreateUserInput) (*types.User, error)
	SetSuspended(ctx context.Context, userID uuid.UUID, suspended bool) (*types.User, error)
	EnsureSuperAdmin(ctx context.Context, email, password string) error
}

type userService struct {
	db         *gorm.DB
	log        *logger.Logger
	users      repos.UserRepo
	uploader   UploadService
	bcryptCost int
}

func NewUserService(db *gorm.DB, log *logger.Logger, users repos.UserRepo, uploader UploadService, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		db:         db,
		log:        log.With("service", "UserService"),
		users:      users,
		uploader:   uploader,
		bcryptCost: bcryptCost,
	}
}

// CreateAdmin registers a new ADMIN account. Only reachable by a
// SUPER_ADMIN caller; the route gate enforces that.
func (us *userService) CreateAdmin(ctx context.Context, in CreateUserInput) (*types.User, error) {
	exists, err := us.users.EmailExists(ctx, nil, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierr.Conflict("email already in use")
	}

	avatarURL := ""
	if len(in.Avatar) > 0 {
		if us.uploader == nil {
			return nil, apierr.Internal(fmt.Errorf("upload service not configured"))
		}
		key := fmt.Sprintf("avatars/%s-%s", uuid.New(), in.AvatarName)
		avatarURL, err = us.uploader.Upload(ctx, key, in.Avatar)
		if err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), us.bcryptCost)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hash),
		AvatarURL: avatarURL,
		Role:      types.RoleAdmin,
	}
	if err := us.users.Create(ctx, nil, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("email already in use")
		}
		return nil, err
	}
	return user, nil
}

func (us *userService) SetSuspended(ctx context.Context, userID uuid.UUID, suspended bool) (*types.User, error) {
	user, err := us.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound("user not found")
	}
	if user.Role == types.RoleSuperAdmin {
		return nil, apierr.Forbidden("cannot suspend a super admin")
	}
	if err := us.users.SetSuspended(ctx, nil, userID, suspended); err != nil {
		return nil, err
	}
	user.IsSuspended = suspended
	return user, nil
}

// EnsureSuperAdmin seeds the root account on startup when it does not
// exist yet. Safe to call on every boot.
func (us *userService) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		us.log.Warn("super admin seed skipped, credentials not configured")
		return nil
	}
	exists, err := us.users.EmailExists(ctx, nil, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), us.bcryptCost)
	if err != nil {
		return err
	}
	user := &types.User{
		ID:       uuid.New(),
		Name:     "Super Admin",
		Email:    email,
		Password: string(hash),
		Role:     types.RoleSuperAdmin,
	}
	if err := us.users.Create(ctx, nil, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	us.log.Info("seeded super admin account", "email", email)
	return nil
}
