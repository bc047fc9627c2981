package authservice

import (
	"context"
	"testing"
	"time"

	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/jwtauth"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u models.User) error {
	if _, ok := f.users[u.Username]; ok {
		return apperrors.NewConflict("user already exists")
	}

	f.users[u.Username] = u

	return nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, username string) (models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return models.User{}, apperrors.ErrNotFound
	}

	return u, nil
}

var testCfg = config.Auth{
	TTL:    time.Hour,
	Secret: "test-secret",
}

func adminToken(t *testing.T) string {
	t.Helper()

	token, err := jwtauth.GetToken(models.User{ //nolint:exhaustruct
		Username: "root",
		Role:     models.RoleAdmin,
	}, testCfg.TTL, testCfg.Secret)
	require.NoError(t, err)

	return token
}

func TestCreateCustomerNeedsNoToken(t *testing.T) {
	svc := New(newFakeUserRepo(), testCfg)

	token, err := svc.CreateUser(context.Background(), CreateUserRequest{ //nolint:exhaustruct
		Username: "alice",
		Password: "secret",
		Role:     models.RoleCustomer,
	})
	require.NoError(t, err)

	p, err := svc.Auth(token)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, models.RoleCustomer, p.Role)
}

func TestCreateStaffRequiresAdminToken(t *testing.T) {
	svc := New(newFakeUserRepo(), testCfg)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{ //nolint:exhaustruct
		Username: "bob",
		Password: "secret",
		Role:     models.RoleManager,
	})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCreateStaffRejectsNonAdminToken(t *testing.T) {
	svc := New(newFakeUserRepo(), testCfg)
	ctx := context.Background()

	customerToken, err := svc.CreateUser(ctx, CreateUserRequest{ //nolint:exhaustruct
		Username: "alice",
		Password: "secret",
		Role:     models.RoleCustomer,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserRequest{
		Username: "bob",
		Password: "secret",
		Role:     models.RoleManager,
		Token:    customerToken,
	})
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	require.ErrorIs(t, err, ErrNotAllowed)
}

func TestCreateStaffWithAdminToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := New(userRepo, testCfg)

	token, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "bob",
		Password: "secret",
		Role:     models.RoleManager,
		Token:    adminToken(t),
	})
	require.NoError(t, err)

	p, err := svc.Auth(token)
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, p.Role)
	require.NotEqual(t, "secret", userRepo.users["bob"].PasswordHash)
}

func TestCreateUserCollectsViolations(t *testing.T) {
	svc := New(newFakeUserRepo(), testCfg)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{ //nolint:exhaustruct
		Username: "  ",
		Password: "",
		Role:     "root",
	})

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Messages, 3)
}

func TestLogin(t *testing.T) {
	svc := New(newFakeUserRepo(), testCfg)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{ //nolint:exhaustruct
		Username: "alice",
		Password: "secret",
		Role:     models.RoleCustomer,
	})
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	p, err := svc.Auth(token)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := New(newFakeUserRepo(), testCfg)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{ //nolint:exhaustruct
		Username: "alice",
		Password: "secret",
		Role:     models.RoleCustomer,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	require.Error(t, err)
}

func TestAuthRejectsForgedToken(t *testing.T) {
	svc := New(newFakeUserRepo(), testCfg)

	forged, err := jwtauth.GetToken(models.User{ //nolint:exhaustruct
		Username: "mallory",
		Role:     models.RoleAdmin,
	}, time.Hour, "other-secret")
	require.NoError(t, err)

	_, err = svc.Auth(forged)
	require.Error(t, err)
}
