package auth

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testIterations keeps the table tests fast; the default policy is covered
// separately.
const testIterations = 1_000

func TestPasswordHasher_DefaultPolicyScenario(t *testing.T) {
	h := NewPasswordHasher(DefaultIterations)
	require.Equal(t, 210_000, h.Iterations())

	d, s, err := h.Derive("correct-horse-battery", nil)
	require.NoError(t, err)

	assert.True(t, h.Verify("correct-horse-battery", d, s))
	assert.False(t, h.Verify("wrong-password", d, s))
}

func TestPasswordHasher_EncodingAndSizes(t *testing.T) {
	h := NewPasswordHasher(testIterations)

	d, s, err := h.Derive("pw", nil)
	require.NoError(t, err)

	assert.NotContains(t, d, "=")
	assert.NotContains(t, s, "=")

	digest, err := base64.RawURLEncoding.DecodeString(d)
	require.NoError(t, err)
	salt, err := base64.RawURLEncoding.DecodeString(s)
	require.NoError(t, err)

	assert.Len(t, digest, KeyLength)
	assert.Len(t, salt, SaltLength)
}

func TestPasswordHasher_DeterministicWithSalt(t *testing.T) {
	h := NewPasswordHasher(testIterations)
	salt := []byte("0123456789abcdef")

	d1, s1, err := h.Derive("farmer", salt)
	require.NoError(t, err)
	d2, s2, err := h.Derive("farmer", salt)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Equal(t, s1, s2)
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(salt), s1)
}

func TestPasswordHasher_KnownVector(t *testing.T) {
	// RFC 7914 section 11 PBKDF2-HMAC-SHA256 vector, first 32 bytes.
	h := NewPasswordHasher(1)
	d, _, err := h.Derive("passwd", []byte("salt"))
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(d)
	require.NoError(t, err)
	assert.Equal(t,
		[]byte{
			0x55, 0xac, 0x04, 0x6e, 0x56, 0xe3, 0x08, 0x9f, 0xec, 0x16, 0x91, 0xc2, 0x25, 0x44, 0xb6, 0x05,
			0xf9, 0x41, 0x85, 0x21, 0x6d, 0xde, 0x04, 0x65, 0xe6, 0x8b, 0x9d, 0x57, 0xc2, 0x0d, 0xac, 0xbc,
		},
		raw,
	)
}

func TestPasswordHasher_FreshSaltsDiffer(t *testing.T) {
	h := NewPasswordHasher(testIterations)

	d1, s1, err := h.Derive("same", nil)
	require.NoError(t, err)
	d2, s2, err := h.Derive("same", nil)
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, d1, d2)
	assert.True(t, h.Verify("same", d1, s1))
	assert.True(t, h.Verify("same", d2, s2))
}

func TestPasswordHasher_VerifyRejects(t *testing.T) {
	h := NewPasswordHasher(testIterations)
	d, s, err := h.Derive("p1", nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		digest   string
		salt     string
	}{
		{"other password", "p2", d, s},
		{"empty password", "", d, s},
		{"digest not base64", "p1", "!!not base64!!", s},
		{"salt not base64", "p1", d, "%%%"},
		{"padded digest", "p1", d + "=", s},
		{"truncated digest", "p1", d[:10], s},
		{"empty digest", "p1", "", s},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, h.Verify(tt.password, tt.digest, tt.salt))
			})
		})
	}
}

func TestPasswordHasher_BitFlipsFail(t *testing.T) {
	h := NewPasswordHasher(testIterations)
	c, err := h.DeriveCredential("bitflip")
	require.NoError(t, err)

	for i := 0; i < len(c.Digest)*8; i += 37 {
		flipped := append([]byte(nil), c.Digest...)
		flipped[i/8] ^= 1 << (i % 8)
		_, s := c.Encode()
		assert.False(t, h.Verify("bitflip", b64.EncodeToString(flipped), s), "digest bit %d", i)
	}

	for i := 0; i < len(c.Salt)*8; i += 11 {
		flipped := append([]byte(nil), c.Salt...)
		flipped[i/8] ^= 1 << (i % 8)
		d, _ := c.Encode()
		assert.False(t, h.Verify("bitflip", d, b64.EncodeToString(flipped)), "salt bit %d", i)
	}
}

func TestPasswordHasher_IterationsAreBound(t *testing.T) {
	d, s, err := NewPasswordHasher(testIterations).Derive("pw", nil)
	require.NoError(t, err)

	assert.False(t, NewPasswordHasher(testIterations+1).Verify("pw", d, s))
}

func TestPasswordHasher_VerifyIterations(t *testing.T) {
	d, s, err := NewPasswordHasher(testIterations).Derive("pw", nil)
	require.NoError(t, err)

	other := NewPasswordHasher(testIterations * 2)
	assert.True(t, other.VerifyIterations("pw", d, s, testIterations))
	assert.False(t, other.VerifyIterations("pw", d, s, testIterations*2))
	assert.False(t, other.VerifyIterations("wrong", d, s, testIterations))
	assert.False(t, other.VerifyIterations("pw", d, s, 0))
	assert.False(t, other.VerifyIterations("pw", "!!", s, testIterations))
}

func TestNewPasswordHasher_NonPositiveUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultIterations, NewPasswordHasher(0).Iterations())
	assert.Equal(t, DefaultIterations, NewPasswordHasher(-5).Iterations())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestPasswordHasher_RandomSourceFailure(t *testing.T) {
	h := NewPasswordHasher(testIterations)
	h.rand = failingReader{}

	_, _, err := h.Derive("pw", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")

	// An explicit salt does not touch the random source.
	_, _, err = h.Derive("pw", []byte("0123456789abcdef"))
	require.NoError(t, err)
}
