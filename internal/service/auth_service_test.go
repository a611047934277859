package service

import (
	"context"
	"testing"

	"github.com/somah-market/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterLoginVerify(t *testing.T) {
	ctx := context.Background()
	auth := NewAuth(newFakeUserRepo(), "test-secret")

	u, err := auth.Register(ctx, "Mona Ali", "Mona@Example.com ", "+20100000000", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "mona@example.com", u.Email)
	require.Equal(t, domain.RoleCustomer, u.Role)
	require.NotEqual(t, "s3cret-pass", u.PasswordHash)

	token, logged, err := auth.Login(ctx, "mona@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, u.ID, logged.ID)

	userID, role, err := auth.Verify(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, userID)
	require.Equal(t, domain.RoleCustomer, role)
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth := NewAuth(newFakeUserRepo(), "test-secret")

	_, err := auth.Register(ctx, "Mona Ali", "mona@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "Other Mona", "MONA@example.com", "", "another-pass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuth_RegisterShortPassword(t *testing.T) {
	auth := NewAuth(newFakeUserRepo(), "test-secret")

	_, err := auth.Register(context.Background(), "Mona Ali", "mona@example.com", "", "short")
	require.Error(t, err)
}

func TestAuth_LoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	auth := NewAuth(newFakeUserRepo(), "test-secret")

	_, _, err := auth.Login(ctx, "nobody@example.com", "whatever-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Register(ctx, "Mona Ali", "mona@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "mona@example.com", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_VerifyRejectsForeignToken(t *testing.T) {
	ctx := context.Background()

	users := newFakeUserRepo()
	auth := NewAuth(users, "test-secret")
	other := NewAuth(users, "other-secret")

	_, err := auth.Register(ctx, "Mona Ali", "mona@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	token, _, err := other.Login(ctx, "mona@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = auth.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = auth.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
