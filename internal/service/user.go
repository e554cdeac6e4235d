package service

import (
	"context"
	"errors"

	"delivery-manager/internal/core/apperr"
	"delivery-manager/internal/domain"
	"delivery-manager/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// List hides deactivated accounts from everyone but admin.
func (s *UserService) List(ctx context.Context, caller domain.Caller, roleFilter string) ([]domain.User, error) {
	f := domain.UserFilter{
		Role:       domain.Role(roleFilter),
		ActiveOnly: caller.Role != domain.RoleAdmin,
	}
	users, err := s.users.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list users failed", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load user failed", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || in.FullName == "" || in.Role == "" {
		return nil, apperr.BadRequest("username, password, full name and role are required")
	}
	role := domain.Role(in.Role)
	if !role.Valid() {
		return nil, apperr.BadRequest("invalid role")
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     in.Username,
		PasswordHash: utils.HashPassword(in.Password),
		FullName:     in.FullName,
		Role:         role,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.Conflict("username already exists")
		}
		return nil, apperr.Internal("create user failed", err)
	}
	return u, nil
}

type UpdateUserInput struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal("load user failed", err)
	}
	if u == nil {
		return apperr.NotFound("user not found")
	}

	fields := map[string]any{}
	if in.FullName != nil {
		fields["full_name"] = *in.FullName
	}
	if in.Role != nil {
		if !domain.Role(*in.Role).Valid() {
			return apperr.BadRequest("invalid role")
		}
		fields["role"] = *in.Role
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if in.Username != nil && *in.Username != u.Username {
		fields["username"] = *in.Username
	}
	if in.Password != nil && *in.Password != "" {
		fields["password_hash"] = utils.HashPassword(*in.Password)
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.users.Update(ctx, id, fields); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return apperr.Conflict("username already exists")
		}
		return apperr.Internal("update user failed", err)
	}
	return nil
}

// Delete deactivates; user rows are never removed so historical references
// on orders and payments stay resolvable.
func (s *UserService) Delete(ctx context.Context, callerID, id string) error {
	if id == callerID {
		return apperr.BadRequest("you cannot delete your own account")
	}
	found, err := s.users.SetActive(ctx, id, false)
	if err != nil {
		return apperr.Internal("delete user failed", err)
	}
	if !found {
		return apperr.NotFound("user not found")
	}
	return nil
}
