package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/logging"
)

// DefaultAccessTTL is the lifetime of an access token unless configured.
const DefaultAccessTTL = 8 * time.Hour

// SigningConfig is the process-wide token signing configuration. It is built
// once at startup and never modified.
type SigningConfig struct {
	Secret    []byte
	Issuer    string
	AccessTTL time.Duration
}

// Claims is the payload of an access token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// Identity is what a valid access token proves about its bearer.
type Identity struct {
	UserID      int64
	Email       string
	DisplayName string
}

// TokenService issues and validates HS256-signed access tokens.
type TokenService struct {
	cfg    SigningConfig
	now    func() time.Time
	logger logging.Logger
	parser *jwt.Parser
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithLogger sets the logger that receives rejection causes.
func WithLogger(l logging.Logger) TokenOption {
	return func(s *TokenService) { s.logger = l }
}

// NewTokenService builds a TokenService from cfg. A zero AccessTTL selects
// DefaultAccessTTL.
func NewTokenService(cfg SigningConfig, opts ...TokenOption) *TokenService {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}

	s := &TokenService{cfg: cfg, now: time.Now, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	s.logger = s.logger.With("module", "token_service")

	return s
}

// Issue mints an access token for the given user.
func (s *TokenService) Issue(userID int64, email, displayName string) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
			ID:        uuid.NewString(),
		},
		Email: email,
		Name:  displayName,
		Type:  common.TokenTypeAccess,
	})

	tokenString, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Validate checks the token's signature, algorithm, issuer, expiry and
// required claims. Every rejection is reported as common.ErrInvalidToken;
// the specific cause only goes to the debug log.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (Identity, error) {
	id, err := s.validate(tokenString)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "cause", err.Error())
		return Identity{}, common.ErrInvalidToken
	}
	return id, nil
}

var (
	errWrongType  = errors.New("token type is not access")
	errBadSubject = errors.New("subject is not a user id")
)

func (s *TokenService) validate(tokenString string) (Identity, error) {
	claims := &Claims{}

	_, err := s.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	if err != nil {
		return Identity{}, err
	}

	if claims.Type != common.TokenTypeAccess {
		return Identity{}, errWrongType
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, errBadSubject
	}

	return Identity{UserID: userID, Email: claims.Email, DisplayName: claims.Name}, nil
}
