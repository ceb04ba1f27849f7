package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/server/auth"
	"github.com/dmitrijs2005/penguintracker/internal/server/config"
	"github.com/dmitrijs2005/penguintracker/internal/server/models"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/users"
)

const minPasswordLength = 8

var errBadCredentials = &Error{Err: common.ErrorUnauthorized, Message: "Invalid email or password"}

// AuthResult is what login and registration hand back to the caller.
type AuthResult struct {
	AccessToken string
	User        *models.User
}

type UserService struct {
	repo                        users.Repository
	hasher                      *auth.PasswordHasher
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(repo users.Repository, hasher *auth.PasswordHasher, cfg *config.Config) *UserService {
	return &UserService{
		repo:                        repo,
		hasher:                      hasher,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	switch {
	case name == "" || email == "" || password == "":
		return nil, invalid("Name, email and password are required")
	case !strings.Contains(email, "@"):
		return nil, invalid("Email is not valid")
	case len(password) < minPasswordLength:
		return nil, invalid("Password must be at least %d characters", minPasswordLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}

	user, err := s.repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, &Error{Err: common.ErrorConflict, Message: "Email already registered"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, errBadCredentials
		}
		return nil, err
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		msg := "Invalid access token"
		if errors.Is(err, common.ErrTokenExpired) {
			msg = "Access token expired"
		}
		return nil, &Error{Err: common.ErrorUnauthorized, Message: msg}
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, &Error{Err: common.ErrorUnauthorized, Message: "Unknown user"}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, User: user}, nil
}
