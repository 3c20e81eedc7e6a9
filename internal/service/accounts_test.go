package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/utils"
)

type memUsers struct {
	byID map[uint64]model.User
	seq  uint64
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]model.User{}} }

func (m *memUsers) Create(ctx context.Context, u *model.User) error {
	for _, x := range m.byID {
		if x.Email == u.Email {
			return model.ErrEmailTaken
		}
	}
	m.seq++
	u.ID = m.seq
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, x := range m.byID {
		if x.Email == email {
			return &x, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) List(ctx context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.byID))
	for i := uint64(1); i <= m.seq; i++ {
		if u, ok := m.byID[i]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Update(ctx context.Context, u *model.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) Count(ctx context.Context) (int64, error) { return int64(len(m.byID)), nil }

type memTokens struct {
	rows map[string]memToken
}

type memToken struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

func newMemTokens() *memTokens { return &memTokens{rows: map[string]memToken{}} }

func (m *memTokens) StoreRefresh(ctx context.Context, userID uint64, hash string, exp time.Time) error {
	m.rows[hash] = memToken{userID: userID, exp: exp}
	return nil
}

func (m *memTokens) ValidateRefresh(ctx context.Context, hash string) (uint64, error) {
	t, ok := m.rows[hash]
	if !ok || t.revoked || time.Now().After(t.exp) {
		return 0, errors.New("invalid or expired refresh token")
	}
	return t.userID, nil
}

func (m *memTokens) RevokeByHash(ctx context.Context, hash string) error {
	t := m.rows[hash]
	t.revoked = true
	m.rows[hash] = t
	return nil
}

func (m *memTokens) RevokeAllForUser(ctx context.Context, userID uint64) error {
	for h, t := range m.rows {
		if t.userID == userID {
			t.revoked = true
			m.rows[h] = t
		}
	}
	return nil
}

const testSecret = "test-secret"

func newAuth(t *testing.T) (*AuthService, *UserService, *memUsers, *memTokens) {
	t.Helper()
	users, tokens := newMemUsers(), newMemTokens()
	log := newTestLogger(t)
	cfg := AuthConfig{JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	return NewAuthService(users, tokens, cfg, log), NewUserService(users, tokens, cfg.BcryptCost, log), users, tokens
}

func TestAuthRegisterAndLogin(t *testing.T) {
	auth, _, _, _ := newAuth(t)
	ctx := context.Background()

	sess, err := auth.Register(ctx, "Alice", " Alice@Hotel.test ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, sess.User.Role)
	assert.Equal(t, "alice@hotel.test", sess.User.Email)
	assert.NotEmpty(t, sess.Refresh.Raw)

	p, err := utils.ParseAccessToken(testSecret, sess.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, p.UserID)
	assert.Equal(t, model.RoleClient, p.Role)

	_, err = auth.Register(ctx, "Alice Two", "alice@hotel.test", "secret1")
	assert.ErrorIs(t, err, model.ErrDuplicate)

	_, err = auth.Login(ctx, "alice@hotel.test", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@hotel.test", "secret1")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	again, err := auth.Login(ctx, "ALICE@hotel.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)
}

func TestAuthRegister_Validation(t *testing.T) {
	auth, _, _, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Al", "al@hotel.test", "secret1")
	assert.ErrorIs(t, err, model.ErrBadRequest)
	_, err = auth.Register(ctx, "Alice", "not-an-email", "secret1")
	assert.ErrorIs(t, err, model.ErrBadRequest)
	_, err = auth.Register(ctx, "Alice", "alice@hotel.test", "123")
	assert.ErrorIs(t, err, model.ErrBadRequest)
}

func TestAuthRefreshRotates(t *testing.T) {
	auth, _, _, _ := newAuth(t)
	ctx := context.Background()
	sess, err := auth.Register(ctx, "Alice", "alice@hotel.test", "secret1")
	require.NoError(t, err)

	next, err := auth.Refresh(ctx, sess.Refresh.Raw)
	require.NoError(t, err)
	assert.NotEqual(t, sess.Refresh.Raw, next.Refresh.Raw)

	_, err = auth.Refresh(ctx, sess.Refresh.Raw)
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuthLogout(t *testing.T) {
	auth, _, _, _ := newAuth(t)
	ctx := context.Background()
	sess, err := auth.Register(ctx, "Alice", "alice@hotel.test", "secret1")
	require.NoError(t, err)
	other, err := auth.Login(ctx, "alice@hotel.test", "secret1")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, sess.Refresh.Raw, nil))
	_, err = auth.Refresh(ctx, sess.Refresh.Raw)
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	assert.ErrorIs(t, auth.Logout(ctx, "", nil), model.ErrBadRequest)

	caller := model.Principal{UserID: sess.User.ID, Role: model.RoleClient}
	require.NoError(t, auth.Logout(ctx, "", &caller))
	_, err = auth.Refresh(ctx, other.Refresh.Raw)
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestUserService_Permissions(t *testing.T) {
	_, users, repo, _ := newAuth(t)
	ctx := context.Background()

	require.NoError(t, users.EnsureAdmin(ctx, "root@hotel.test", "rootpw"))
	require.NoError(t, users.EnsureAdmin(ctx, "other@hotel.test", "rootpw"))
	n, _ := repo.Count(ctx)
	assert.Equal(t, int64(1), n, "seeding only happens on an empty table")

	admin := model.Principal{UserID: 1, Role: model.RoleAdmin}
	desk, err := users.Create(ctx, admin, NewUser{Name: "Front Desk", Email: "desk@hotel.test", Password: "deskpw", Role: model.RoleReceptionist})
	require.NoError(t, err)
	deskP := model.Principal{UserID: desk.ID, Role: model.RoleReceptionist}

	_, err = users.Create(ctx, deskP, NewUser{Name: "Someone", Email: "x@hotel.test", Password: "secret"})
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = users.Create(ctx, admin, NewUser{Name: "Someone", Email: "x@hotel.test", Password: "secret", Role: "owner"})
	assert.ErrorIs(t, err, model.ErrBadRequest)

	_, err = users.List(ctx, deskP)
	assert.ErrorIs(t, err, model.ErrForbidden)
	list, err := users.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	role := model.RoleAdmin
	_, err = users.Update(ctx, deskP, desk.ID, model.UserPatch{Role: &role})
	assert.ErrorIs(t, err, model.ErrForbidden)

	name := "Reception"
	got, err := users.Update(ctx, deskP, desk.ID, model.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Reception", got.Name)

	_, err = users.Update(ctx, deskP, desk.ID, model.UserPatch{})
	assert.ErrorIs(t, err, model.ErrBadRequest)

	assert.ErrorIs(t, users.Delete(ctx, deskP, 1), model.ErrForbidden)
	require.NoError(t, users.Delete(ctx, admin, desk.ID))
	assert.ErrorIs(t, users.Delete(ctx, admin, desk.ID), model.ErrNotFound)
}

func TestUserService_GetSelfOrStaff(t *testing.T) {
	auth, users, _, _ := newAuth(t)
	ctx := context.Background()
	a, err := auth.Register(ctx, "Alice", "alice@hotel.test", "secret1")
	require.NoError(t, err)
	b, err := auth.Register(ctx, "Bruno", "bruno@hotel.test", "secret1")
	require.NoError(t, err)

	alice := model.Principal{UserID: a.User.ID, Role: model.RoleClient}
	_, err = users.Get(ctx, alice, a.User.ID)
	assert.NoError(t, err)
	_, err = users.Get(ctx, alice, b.User.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = users.Get(ctx, model.Principal{UserID: 99, Role: model.RoleReceptionist}, b.User.ID)
	assert.NoError(t, err)
}
