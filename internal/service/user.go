package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
	"github.com/fasthotel/hotel-api/internal/utils"
)

// NewUser is the input for account creation.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     string
	GuestID  *uint64
}

// UserService manages accounts on behalf of an authenticated actor.
type UserService struct {
	users      ports.UserRepo
	tokens     ports.TokenRepo
	bcryptCost int
	log        logrus.FieldLogger
}

func NewUserService(users ports.UserRepo, tokens ports.TokenRepo, bcryptCost int, log logrus.FieldLogger) *UserService {
	return &UserService{users: users, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func createUser(ctx context.Context, users ports.UserRepo, cost int, in NewUser) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if len(in.Name) < 3 {
		return nil, fmt.Errorf("name must have at least 3 characters: %w", model.ErrBadRequest)
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("a valid email is required: %w", model.ErrBadRequest)
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("password must have at least 6 characters: %w", model.ErrBadRequest)
	}
	if in.Role == "" {
		in.Role = model.RoleClient
	}
	if !model.ValidRole(in.Role) {
		return nil, fmt.Errorf("unknown role %q: %w", in.Role, model.ErrBadRequest)
	}

	hash, err := utils.HashPassword(in.Password, cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		GuestID:      in.GuestID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Create adds an account with any role. Only admins may do it.
func (s *UserService) Create(ctx context.Context, actor model.Principal, in NewUser) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	u, err := createUser(ctx, s.users, s.bcryptCost, in)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role, "by": actor.UserID}).Info("user created")
	return u, nil
}

// Get returns an account. Users may read themselves; staff may read anyone.
func (s *UserService) Get(ctx context.Context, actor model.Principal, id uint64) (*model.User, error) {
	if !actor.IsStaff() && actor.UserID != id {
		return nil, model.ErrForbidden
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, actor model.Principal) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	return s.users.List(ctx)
}

// Update changes an account. Users may edit their own name and email;
// admins may edit anyone, including role and guest link.
func (s *UserService) Update(ctx context.Context, actor model.Principal, id uint64, patch model.UserPatch) (*model.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, model.ErrForbidden
	}
	if !actor.IsAdmin() && (patch.Role != nil || patch.GuestID != nil) {
		return nil, fmt.Errorf("only admins change roles: %w", model.ErrForbidden)
	}
	if patch.Name == nil && patch.Email == nil && patch.Role == nil && patch.GuestID == nil {
		return nil, model.ErrNoFieldsToUpdate
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if len(name) < 3 {
			return nil, fmt.Errorf("name must have at least 3 characters: %w", model.ErrBadRequest)
		}
		u.Name = name
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("a valid email is required: %w", model.ErrBadRequest)
		}
		u.Email = email
	}
	if patch.Role != nil {
		if !model.ValidRole(*patch.Role) {
			return nil, fmt.Errorf("unknown role %q: %w", *patch.Role, model.ErrBadRequest)
		}
		u.Role = *patch.Role
	}
	if patch.GuestID != nil {
		u.GuestID = patch.GuestID
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes an account and revokes its sessions.
func (s *UserService) Delete(ctx context.Context, actor model.Principal, id uint64) error {
	if !actor.IsAdmin() {
		return model.ErrForbidden
	}
	if err := s.tokens.RevokeAllForUser(ctx, id); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "by": actor.UserID}).Info("user deleted")
	return nil
}

// EnsureAdmin creates the first admin account when the user table is
// empty. It is a no-op otherwise.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	u, err := createUser(ctx, s.users, s.bcryptCost, NewUser{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     model.RoleAdmin,
	})
	if err != nil && !errors.Is(err, model.ErrDuplicate) {
		return err
	}
	if u != nil {
		s.log.WithField("email", u.Email).Info("seeded admin account")
	}
	return nil
}
