package credentials

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEncryptionKey is a fixed 32-byte key for testing (hex-encoded to 64 chars).
const testEncryptionKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestStore(t *testing.T) *Store {
	t.Helper()

	t.Setenv("RECALL_CONFIG_DIR", t.TempDir())
	t.Setenv("RECALL_ENCRYPTION_KEY", testEncryptionKey)
	t.Setenv("RECALL_TOKEN", "")
	t.Setenv("RECALL_USER_ID", "")

	store, err := NewStore()
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	creds := &Credentials{
		Token:         "tok-abc-123",
		UserID:        "user-42",
		ServerAddress: "https://api.recallhq.io",
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(creds))
	assert.True(t, store.Exists())

	loaded, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, "tok-abc-123", loaded.Token)
	assert.Equal(t, "user-42", loaded.UserID)
	assert.Equal(t, "https://api.recallhq.io", loaded.ServerAddress)
	assert.False(t, loaded.LastUpdated.IsZero())
}

func TestStore_TokenIsEncryptedAtRest(t *testing.T) {
	store := newTestStore(t)

	plaintext := "super-secret-token-value"
	require.NoError(t, store.Save(&Credentials{Token: plaintext, UserID: "user-1"}))

	path, err := CredentialsPath()
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), plaintext)
	assert.Contains(t, string(raw), "user-1", "identity stays readable")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, plaintext, loaded.Token)
}

func TestStore_LoadNoCredentials(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load()

	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&Credentials{Token: "tok", UserID: "u"}))
	require.True(t, store.Exists())

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())

	assert.NoError(t, store.Delete(), "deleting twice is not an error")
}

func TestStore_GetActiveCredential_EnvOverride(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Credentials{Token: "stored-token", UserID: "stored-user"}))

	t.Setenv("RECALL_TOKEN", "env-token")
	t.Setenv("RECALL_USER_ID", "env-user")

	creds, err := store.GetActiveCredential()

	require.NoError(t, err)
	assert.Equal(t, "env-token", creds.Token)
	assert.Equal(t, "env-user", creds.UserID)
}

func TestStore_GetActiveCredential_Stored(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Credentials{Token: "stored-token", UserID: "stored-user"}))

	creds, err := store.GetActiveCredential()

	require.NoError(t, err)
	assert.Equal(t, "stored-token", creds.Token)
	assert.Equal(t, "stored-user", creds.UserID)
}

func TestStore_GetActiveCredential_ExpiredToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Credentials{
		Token:     "expired-token",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	_, err := store.GetActiveCredential()

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestStore_WrongKeyFailsDecryption(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Credentials{Token: "tok", UserID: "u"}))

	otherKey := "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"
	t.Setenv("RECALL_ENCRYPTION_KEY", otherKey)
	other, err := NewStore()
	require.NoError(t, err)

	_, err = other.Load()

	assert.ErrorIs(t, err, ErrEncryptionFailed)
}

func TestCredentialsPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECALL_CONFIG_DIR", dir)

	path, err := CredentialsPath()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultCredentialsFile), path)
}

func TestEnvKeyProvider_Validation(t *testing.T) {
	t.Setenv("TEST_RECALL_KEY", "")
	provider := NewEnvKeyProvider("TEST_RECALL_KEY")
	_, err := provider.GetKey()
	assert.Error(t, err, "unset variable")

	t.Setenv("TEST_RECALL_KEY", "not-hex")
	_, err = provider.GetKey()
	assert.Error(t, err, "invalid hex")

	t.Setenv("TEST_RECALL_KEY", "abcd")
	_, err = provider.GetKey()
	assert.Error(t, err, "wrong length")

	t.Setenv("TEST_RECALL_KEY", testEncryptionKey)
	key, err := provider.GetKey()
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, strings.Repeat("*", 5), MaskToken("short"))
	assert.Equal(t, "eyJhbGci...ignature", MaskToken("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.payload.signature"))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "never", FormatExpiry(time.Time{}))
	assert.Equal(t, "expired", FormatExpiry(time.Now().Add(-time.Hour)))
	assert.Contains(t, FormatExpiry(time.Now().Add(30*time.Minute)), "minutes")
	assert.Contains(t, FormatExpiry(time.Now().Add(5*time.Hour)), "hours")
	assert.Contains(t, FormatExpiry(time.Now().Add(72*time.Hour)), "days")
}
