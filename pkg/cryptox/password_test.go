package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("Password123")
	require.NoError(t, err)

	// bcrypt modular crypt format with the configured cost
	require.True(t, strings.HasPrefix(hash, "$2a$10$"), hash)
	require.NotContains(t, hash, "Password123")
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("samePassword1")
	require.NoError(t, err)
	hash2, err := HashPassword("samePassword1")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.NoError(t, VerifyPassword("samePassword1", hash1))
	require.NoError(t, VerifyPassword("samePassword1", hash2))
}

func TestVerifyPassword_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple", "Password123"},
		{"symbols", "P@ssw0rd!#$%^&*()"},
		{"longer than bcrypt limit", "Aa1" + strings.Repeat("x", 200)},
		{"unicode", "Пароль123Abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NoError(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("Correct-Password1")
	require.NoError(t, err)

	for _, wrong := range []string{
		"Wrong-Password1",
		"correct-password1",
		"Correct-Password1 ",
		"",
		// Differs only after byte 72; the pre-hash must still tell them apart.
		"Correct-Password1" + strings.Repeat("y", 80),
	} {
		require.ErrorIs(t, VerifyPassword(wrong, hash), ErrMismatch, wrong)
	}
}

func TestVerifyPassword_LongPasswordsDistinct(t *testing.T) {
	base := strings.Repeat("A1b", 30)
	hash, err := HashPassword(base + "x")
	require.NoError(t, err)

	require.ErrorIs(t, VerifyPassword(base+"y", hash), ErrMismatch)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	for _, h := range []string{"", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA", "plaintext"} {
		err := VerifyPassword("Password123", h)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrMismatch)
	}
}

func TestPepper_PersistedAndReused(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "pepper")

	SetPepperPath(path)
	t.Cleanup(func() { SetPepperPath(filepath.Join(os.TempDir(), "cryptox-test-pepper")) })

	hash, err := HashPassword("Password123")
	require.NoError(t, err)

	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	// Reloading from the same file must keep existing hashes valid.
	SetPepperPath(path)
	require.NoError(t, VerifyPassword("Password123", hash))

	// A different pepper must not.
	require.NoError(t, os.WriteFile(path, []byte("another-pepper"), 0600))
	SetPepperPath(path)
	require.ErrorIs(t, VerifyPassword("Password123", hash), ErrMismatch)
}

func TestPepper_Disabled(t *testing.T) {
	SetPepperPath("")
	t.Cleanup(func() { SetPepperPath(filepath.Join(os.TempDir(), "cryptox-test-pepper")) })

	p, err := GetPepper()
	require.NoError(t, err)
	require.Empty(t, p)

	hash, err := HashPassword("Password123")
	require.NoError(t, err)
	require.NoError(t, VerifyPassword("Password123", hash))
}
