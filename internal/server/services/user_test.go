package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/logging"
	"github.com/krishirakshak/krishirakshak/internal/server/auth"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
)

func TestRegisterLoginAuthenticate(t *testing.T) {
	db, rm := newSQLiteDB(t)
	s := newTestUserService(db, rm)
	ctx := context.Background()

	res, err := s.Register(ctx, "  Farmer@Example.COM ", " Asha ", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "farmer@example.com", res.User.Email)
	assert.Equal(t, "Asha", res.User.DisplayName)
	assert.Positive(t, res.User.UserID)

	id, err := s.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User, id)

	login, err := s.Login(ctx, "FARMER@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, res.User, login.User)

	_, err = s.Login(ctx, "farmer@example.com", "wrong-horse")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRegister_Duplicate(t *testing.T) {
	db, rm := newSQLiteDB(t)
	s := newTestUserService(db, rm)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@b.in", "Ravi", "secret1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "A@B.IN", "Ravi Again", "secret2")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name, email, user, password string
	}{
		{"short email", "a@b", "Ravi", "secret1"},
		{"long email", strings.Repeat("a", 250) + "@b.in", "Ravi", "secret1"},
		{"short name", "a@b.in", " R ", "secret1"},
		{"long name", "a@b.in", strings.Repeat("n", 81), "secret1"},
		{"short password", "a@b.in", "Ravi", "12345"},
		{"long password", "a@b.in", "Ravi", strings.Repeat("p", 201)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := &fakeRepoManager{u: &fakeUsersRepo{}}
			s := newTestUserService(nil, rm)

			_, err := s.Register(context.Background(), tt.email, tt.user, tt.password)
			require.ErrorIs(t, err, common.ErrorValidation)
			assert.Nil(t, rm.u.created, "nothing stored on validation failure")
		})
	}
}

func TestRegister_StoresEncodedCredential(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := newTestUserService(nil, rm)

	_, err := s.Register(context.Background(), "a@b.in", "Ravi", "secret1")
	require.NoError(t, err)

	u := rm.u.created
	require.NotNil(t, u)
	assert.Len(t, u.PasswordHash, 43)
	assert.Len(t, u.Salt, 22)
	assert.NotContains(t, u.PasswordHash, "secret1")
	assert.Equal(t, testIterations, u.Iterations)
	assert.True(t, s.hasher.Verify("secret1", u.PasswordHash, u.Salt))
}

func TestLogin_AfterIterationPolicyChange(t *testing.T) {
	db, rm := newSQLiteDB(t)
	ctx := context.Background()

	before := NewUserService(db, rm, auth.NewPasswordHasher(1000), newTokens(), logging.Nop())
	reg, err := before.Register(ctx, "kisan@example.in", "Kisan", "monsoon-2026")
	require.NoError(t, err)

	after := NewUserService(db, rm, auth.NewPasswordHasher(2000), newTokens(), logging.Nop())
	res, err := after.Login(ctx, "kisan@example.in", "monsoon-2026")
	require.NoError(t, err)
	assert.Equal(t, reg.User, res.User)

	_, err = after.Login(ctx, "kisan@example.in", "wrong-password")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// new accounts pick up the new count
	_, err = after.Register(ctx, "ravi@example.in", "Ravi", "kharif-2026")
	require.NoError(t, err)
	u, err := rm.Users(db).GetByEmail(ctx, "ravi@example.in")
	require.NoError(t, err)
	assert.Equal(t, 2000, u.Iterations)
}

func TestLogin_MissingStoredIterationsRejected(t *testing.T) {
	h := auth.NewPasswordHasher(testIterations)
	d, salt, err := h.Derive("secret1", nil)
	require.NoError(t, err)

	rm := &fakeRepoManager{u: &fakeUsersRepo{getOut: &models.User{
		ID: 3, Email: "a@b.in", Name: "Ravi", PasswordHash: d, Salt: salt,
	}}}
	s := newTestUserService(nil, rm)

	_, err = s.Login(context.Background(), "a@b.in", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRegister_RepoError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: errors.New("disk full")}}
	s := newTestUserService(nil, rm)

	_, err := s.Register(context.Background(), "a@b.in", "Ravi", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin_RepoError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: errors.New("conn reset")}}
	s := newTestUserService(nil, rm)

	_, err := s.Login(context.Background(), "a@b.in", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestAuthenticate_Invalid(t *testing.T) {
	s := newTestUserService(nil, &fakeRepoManager{})

	_, err := s.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
