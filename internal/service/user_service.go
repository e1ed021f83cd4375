package service

import (
	"context"
	"errors"
	"strings"

	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/pkg/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, creatorID *uint) (*model.User, error)
	DeleteUser(ctx context.Context, userID uint, actorID uint) error
	ListUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUser(ctx context.Context, id uint) (*model.UserResponse, error)
	// EnsureOwner seeds privileges, roles and the first owner account
	EnsureOwner(ctx context.Context, username, password string) error
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	RoleCode string `json:"role" validate:"required,oneof=OWNER STAFF IT_ADMIN"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	log           *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository, log *logrus.Logger) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		log:           log,
	}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, creatorID *uint) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validationError(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err == nil && existing != nil {
		return nil, ErrUsernameExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.roleRepo.FindByCode(ctx, req.RoleCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("unknown role %s", req.RoleCode)
		}
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		RoleID:   &role.ID,
		IsActive: true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		logger.LogError(s.log, "user", "CreateUser", "create user", req.Username, err)
		return nil, err
	}
	user.Role = role
	return user, nil
}

// DeleteUser refuses to remove the caller's own account
func (s *userService) DeleteUser(ctx context.Context, userID uint, actorID uint) error {
	if userID == actorID {
		return invalid("cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return notFoundOr(err, "user", userID)
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) EnsureOwner(ctx context.Context, username, password string) error {
	if err := s.privilegeRepo.SeedDefaults(ctx); err != nil {
		return err
	}
	if err := s.roleRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	all, err := s.privilegeRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range model.DefaultRoles {
		role, err := s.roleRepo.FindByCode(ctx, r.Code)
		if err != nil {
			return err
		}
		privileges := all
		if r.Code != model.RoleOwner {
			privileges, err = s.privilegeRepo.FindByCodes(ctx, model.DefaultRolePrivileges[r.Code])
			if err != nil {
				return err
			}
		}
		if err := s.roleRepo.AssignPrivileges(ctx, role, privileges); err != nil {
			return err
		}
	}

	_, err = s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	owner, err := s.CreateUser(ctx, &CreateUserRequest{Username: username, Password: password, RoleCode: model.RoleOwner}, nil)
	if err != nil {
		return err
	}
	s.log.WithField("username", owner.Username).Info("seeded owner account")
	return nil
}
