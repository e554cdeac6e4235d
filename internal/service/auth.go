package service

import (
	"context"

	"delivery-manager/internal/core/apperr"
	"delivery-manager/internal/core/auth"
	"delivery-manager/internal/domain"
	"delivery-manager/pkg/utils"
)

type UserSummary struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Role     domain.Role `json:"role"`
	Phone    string      `json:"phone"`
}

func summarize(u *domain.User) *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Phone:    u.Phone,
	}
}

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwter: jwter}
}

// Login checks the credentials against active users only; deactivated
// accounts fail the same way as unknown usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *UserSummary, error) {
	if username == "" || password == "" {
		return "", nil, apperr.BadRequest("username and password are required")
	}
	u, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		return "", nil, apperr.Internal("load user failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, apperr.Unauthorized("invalid username or password")
	}
	token, err := s.jwter.Issue(u.ID, u.Username, string(u.Role))
	if err != nil {
		return "", nil, apperr.Internal("issue token failed", err)
	}
	return token, summarize(u), nil
}

func (s *AuthService) Me(ctx context.Context, uid string) (*UserSummary, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("load user failed", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return summarize(u), nil
}
