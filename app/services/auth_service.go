package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/pkg/apperror"
	"github.com/shashiranjanraj/inkwell/pkg/auth"
)

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,person_name,max=100"`
	LastName  string `json:"lastName" validate:"required,person_name,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Role      string `json:"role" validate:"omitempty,role"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token   string          `json:"token"`
	Role    string          `json:"role"`
	Account *models.Account `json:"account"`
}

type AuthService struct {
	accounts repositories.AccountRepository
}

func NewAuthService(accounts repositories.AccountRepository) *AuthService {
	return &AuthService{accounts: accounts}
}

// Register creates an account. Emails are stored lower-cased.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, apperror.BadRequest("Email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("Failed to register", err)
	}

	role := in.Role
	if role == "" {
		role = auth.RoleUser
	}

	account := &models.Account{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Password:  hash,
		Role:      role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.BadRequest("Email already registered")
		}
		return nil, err
	}
	return account, nil
}

// Login checks the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(account.Password, in.Password) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := auth.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, apperror.Internal("Failed to issue token", err)
	}
	return &LoginResult{Token: token, Role: account.Role, Account: account}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
