package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/shared/auth"
)

func newTestService() *Service {
	return NewService(NewMemoryRepo(), auth.PasswordHasher{Cost: 4})
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Ada@Example.com ", "analytical-engine")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "analytical-engine", user.HashedPassword)

	got, err := svc.Authenticate(ctx, "ADA@example.com", "analytical-engine")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	me, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "ADA@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newTestService()
	cases := map[string][2]string{
		"missing email":     {"", "pw"},
		"bad email":         {"not-an-email", "pw"},
		"missing password":  {"ada@example.com", ""},
		"password too long": {"ada@example.com", strings.Repeat("x", 73)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), in[0], in[1])
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), "ada@example.com", "right")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByIDUnknownOrMalformed(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByID(context.Background(), "0b7c6a0e-8f4c-4b5e-9d36-3a1f5f3e9a01")
	assert.ErrorIs(t, err, ErrNotFound)
}
