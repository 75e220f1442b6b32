package hashcli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishirakshak/krishirakshak/internal/server/auth"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	i := 0
	readPassword = func(int) ([]byte, error) {
		if i >= len(answers) {
			return nil, errors.New("no more input")
		}
		a := answers[i]
		i++
		return []byte(a), nil
	}
}

func parseOutput(t *testing.T, s string) map[string]string {
	t.Helper()
	m := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		k, v, ok := strings.Cut(line, "=")
		require.True(t, ok, line)
		m[k] = v
	}
	return m
}

func TestRun(t *testing.T) {
	stubPasswords(t, "correct-horse", "correct-horse")

	var out, prompts bytes.Buffer
	require.NoError(t, Run([]string{"-i", "1000"}, &out, &prompts))

	got := parseOutput(t, out.String())
	assert.Equal(t, "1000", got["iterations"])
	assert.True(t, auth.NewPasswordHasher(1000).Verify("correct-horse", got["password_hash"], got["salt"]))
	assert.Contains(t, prompts.String(), "Repeat password: ")
	assert.NotContains(t, out.String(), "correct-horse")
}

func TestRun_Mismatch(t *testing.T) {
	stubPasswords(t, "one", "two")

	var out bytes.Buffer
	err := Run([]string{"-i", "10"}, &out, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Empty(t, out.String())
}

func TestRun_ReadError(t *testing.T) {
	stubPasswords(t)

	err := Run(nil, &bytes.Buffer{}, &bytes.Buffer{})
	assert.EqualError(t, err, "no more input")
}

func TestRun_BadFlag(t *testing.T) {
	err := Run([]string{"-nope"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}
