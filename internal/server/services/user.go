// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and access token checks.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/logging"
	"github.com/krishirakshak/krishirakshak/internal/server/auth"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/repomanager"
)

// Registration field limits, counted in characters.
const (
	MinEmailLength    = 5
	MaxEmailLength    = 254
	MinNameLength     = 2
	MaxNameLength     = 80
	MinPasswordLength = 6
	MaxPasswordLength = 200
)

// AuthResult is returned by a successful Register or Login.
type AuthResult struct {
	AccessToken string
	User        auth.Identity
}

// UserService provides authentication-related operations:
// - Register: create users and sign them in
// - Login: verify credentials and mint an access token
// - Authenticate: resolve a bearer token to an identity
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	logger      logging.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummy     [2]string
}

// NewUserService constructs a UserService backed by db through the given
// repository manager.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	tokens *auth.TokenService, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "user_service"),
		now:         time.Now,
	}
}

// Register creates an account and returns a token for it. The email is
// trimmed and lower-cased and the name trimmed before validation.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	if err := checkLength("email", email, MinEmailLength, MaxEmailLength); err != nil {
		return nil, err
	}
	if err := checkLength("name", name, MinNameLength, MaxNameLength); err != nil {
		return nil, err
	}
	if err := checkLength("password", password, MinPasswordLength, MaxPasswordLength); err != nil {
		return nil, err
	}

	cred, err := s.hasher.DeriveCredential(password)
	if err != nil {
		s.logger.Error(ctx, "derive credential", "error", err)
		return nil, common.ErrorInternal
	}
	digest, salt := cred.Encode()

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: digest,
		Salt:         salt,
		Iterations:   cred.Iterations,
		CreatedAt:    s.now().UTC(),
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "create user", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return s.signIn(u)
}

// Login verifies the password and returns a fresh token. The password is
// checked with the iteration count stored alongside the credential, so
// changing the configured count does not invalidate existing accounts.
// Unknown emails and wrong passwords both yield ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep response time close to that of a known account
			d := s.dummyCredential()
			s.hasher.Verify(password, d[0], d[1])
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "lookup user", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.VerifyIterations(password, u.PasswordHash, u.Salt, u.Iterations) {
		return nil, common.ErrorUnauthorized
	}
	return s.signIn(u)
}

// Authenticate validates an access token. Every failure is
// common.ErrInvalidToken.
func (s *UserService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	return s.tokens.Validate(ctx, token)
}

func (s *UserService) signIn(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID, u.Email, u.Name)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		AccessToken: token,
		User:        auth.Identity{UserID: u.ID, Email: u.Email, DisplayName: u.Name},
	}, nil
}

func (s *UserService) dummyCredential() [2]string {
	s.dummyOnce.Do(func() {
		digest, salt, err := s.hasher.Derive("krishirakshak-dummy", []byte("krishirakshak-dummy-salt"))
		if err == nil {
			s.dummy = [2]string{digest, salt}
		}
	})
	return s.dummy
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkLength(field, v string, lo, hi int) error {
	if n := utf8.RuneCountInString(v); n < lo || n > hi {
		return fmt.Errorf("%w: %s must be %d to %d characters", common.ErrorValidation, field, lo, hi)
	}
	return nil
}
