// Package auth implements credential hashing and stateless session tokens.
//
// Both PasswordHasher and TokenService hold only immutable configuration and
// are safe for concurrent use.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2-HMAC-SHA256 policy. Iterations come from server configuration,
// never from request data.
const (
	DefaultIterations = 210_000
	SaltLength        = 16
	KeyLength         = 32
)

// b64 is the storage encoding for digests and salts: URL-safe, unpadded.
var b64 = base64.RawURLEncoding

// Credential is a derived password digest together with its salt and the
// iteration count that produced it.
type Credential struct {
	Digest     []byte
	Salt       []byte
	Iterations int
}

// Encode returns the digest and salt in their persisted string form.
func (c Credential) Encode() (digest, salt string) {
	return b64.EncodeToString(c.Digest), b64.EncodeToString(c.Salt)
}

// PasswordHasher derives and verifies PBKDF2 password digests.
type PasswordHasher struct {
	iterations int
	rand       io.Reader
}

// NewPasswordHasher returns a hasher using the given iteration count.
// Values below 1 select DefaultIterations.
func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations < 1 {
		iterations = DefaultIterations
	}
	return &PasswordHasher{iterations: iterations, rand: rand.Reader}
}

// Iterations reports the iteration count used by h.
func (h *PasswordHasher) Iterations() int {
	return h.iterations
}

// DeriveCredential derives a credential for password with a fresh random salt.
func (h *PasswordHasher) DeriveCredential(password string) (Credential, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return Credential{}, fmt.Errorf("salt: %w", err)
	}
	return Credential{
		Digest:     h.key(password, salt),
		Salt:       salt,
		Iterations: h.iterations,
	}, nil
}

// Derive returns the encoded digest and salt for password. When salt is
// empty a new random salt is generated; otherwise the given salt is used and
// the result is deterministic.
func (h *PasswordHasher) Derive(password string, salt []byte) (digest, encodedSalt string, err error) {
	if len(salt) == 0 {
		c, err := h.DeriveCredential(password)
		if err != nil {
			return "", "", err
		}
		digest, encodedSalt = c.Encode()
		return digest, encodedSalt, nil
	}

	c := Credential{Digest: h.key(password, salt), Salt: salt, Iterations: h.iterations}
	digest, encodedSalt = c.Encode()
	return digest, encodedSalt, nil
}

// Verify reports whether password matches the stored digest and salt under
// the iteration count of h. Undecodable input is treated as a mismatch.
func (h *PasswordHasher) Verify(password, digest, salt string) bool {
	return h.VerifyIterations(password, digest, salt, h.iterations)
}

// VerifyIterations is Verify for a credential derived with the given stored
// iteration count. A count below 1 never matches.
func (h *PasswordHasher) VerifyIterations(password, digest, salt string, iterations int) bool {
	if iterations < 1 {
		return false
	}
	expected, err := b64.DecodeString(digest)
	if err != nil {
		return false
	}
	rawSalt, err := b64.DecodeString(salt)
	if err != nil {
		return false
	}

	actual := pbkdf2.Key([]byte(password), rawSalt, iterations, KeyLength, sha256.New)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

func (h *PasswordHasher) key(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, h.iterations, KeyLength, sha256.New)
}
