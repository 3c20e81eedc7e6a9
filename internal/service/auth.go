package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
	"github.com/fasthotel/hotel-api/internal/utils"
)

// AuthConfig holds token and hashing parameters.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Session is what a successful sign-in returns to the client.
type Session struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// AuthService signs users in and manages refresh token rotation.
type AuthService struct {
	users  ports.UserRepo
	tokens ports.TokenRepo
	cfg    AuthConfig
	log    logrus.FieldLogger
}

func NewAuthService(users ports.UserRepo, tokens ports.TokenRepo, cfg AuthConfig, log logrus.FieldLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg, log: log}
}

// Register creates a client account and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	u, err := createUser(ctx, s.users, s.cfg.BcryptCost, NewUser{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     model.RoleClient,
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", u.ID).Info("account registered")
	return s.issue(ctx, *u)
}

// Login verifies credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}
	return s.issue(ctx, *u)
}

// Refresh exchanges a valid refresh token for a new pair, revoking the old
// refresh token.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*Session, error) {
	hash := utils.HashRefreshRaw(strings.TrimSpace(raw))
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoke refresh: %w", err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return s.issue(ctx, *u)
}

// Logout revokes one refresh token when raw is given, otherwise every
// session of the authenticated caller.
func (s *AuthService) Logout(ctx context.Context, raw string, caller *model.Principal) error {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		hash := utils.HashRefreshRaw(raw)
		if _, err := s.tokens.ValidateRefresh(ctx, hash); err != nil {
			return model.ErrInvalidCredentials
		}
		return s.tokens.RevokeByHash(ctx, hash)
	}
	if caller == nil {
		return fmt.Errorf("provide a bearer token or refresh_token: %w", model.ErrBadRequest)
	}
	return s.tokens.RevokeAllForUser(ctx, caller.UserID)
}

// Me loads the caller's account.
func (s *AuthService) Me(ctx context.Context, p model.Principal) (*model.User, error) {
	return s.users.GetByID(ctx, p.UserID)
}

func (s *AuthService) issue(ctx context.Context, u model.User) (*Session, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Role, u.GuestID, s.cfg.AccessTTLMin)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return &Session{User: u, Access: access, Refresh: refresh}, nil
}
