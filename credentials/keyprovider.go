package credentials

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name used in the system keyring.
	keyringService = "recall-cli"
	// keyringUser is the user/account name used in the system keyring.
	keyringUser = "encryption-key"
	// keyLength is the required encryption key length (256 bits for AES-256).
	keyLength = 32
)

// ErrKeyringUnavailable indicates the system keyring is not available.
var ErrKeyringUnavailable = errors.New("system keyring unavailable")

// KeyProvider is an interface for obtaining the encryption key.
type KeyProvider interface {
	// GetKey returns the 32-byte encryption key.
	// If no key exists, it should generate and store a new one.
	GetKey() ([]byte, error)

	// Description returns a human-readable description of the key storage
	// mechanism.
	Description() string
}

// KeyringKeyProvider stores the encryption key in the system keyring
// (macOS Keychain, Windows Credential Manager, Linux Secret Service).
type KeyringKeyProvider struct {
	mu sync.Mutex
}

// NewKeyringKeyProvider creates a new KeyringKeyProvider.
func NewKeyringKeyProvider() *KeyringKeyProvider {
	return &KeyringKeyProvider{}
}

// GetKey retrieves the encryption key from the system keyring.
// If no key exists, it generates a new cryptographically random key and
// stores it.
func (p *KeyringKeyProvider) GetKey() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	keyHex, err := keyring.Get(keyringService, keyringUser)
	if err == nil {
		key, decErr := hex.DecodeString(keyHex)
		if decErr == nil && len(key) == keyLength {
			return key, nil
		}
		// Invalid key format, regenerate
	}

	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}

	return p.generateAndStoreKey()
}

// generateAndStoreKey creates a new random key and stores it in the keyring.
// Caller must hold p.mu.
func (p *KeyringKeyProvider) generateAndStoreKey() ([]byte, error) {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating random key: %w", err)
	}

	keyHex := hex.EncodeToString(key)
	if err := keyring.Set(keyringService, keyringUser, keyHex); err != nil {
		return nil, fmt.Errorf("%w: storing key: %v", ErrKeyringUnavailable, err)
	}

	return key, nil
}

// Description returns a description of this key provider.
func (p *KeyringKeyProvider) Description() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain"
	case "windows":
		return "Windows Credential Manager"
	default:
		return "System Keyring (Secret Service)"
	}
}

// EnvKeyProvider uses an encryption key from an environment variable.
// This is primarily for testing and CI environments.
type EnvKeyProvider struct {
	envVar string
}

// NewEnvKeyProvider creates an EnvKeyProvider that reads the key from the
// given env var.
func NewEnvKeyProvider(envVar string) *EnvKeyProvider {
	return &EnvKeyProvider{envVar: envVar}
}

// GetKey returns the key from the environment variable.
func (p *EnvKeyProvider) GetKey() ([]byte, error) {
	keyHex := os.Getenv(p.envVar)
	if keyHex == "" {
		return nil, fmt.Errorf("environment variable %s not set", p.envVar)
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key in %s: %w", p.envVar, err)
	}

	if len(key) != keyLength {
		return nil, fmt.Errorf("key in %s must be %d bytes, got %d", p.envVar, keyLength, len(key))
	}

	return key, nil
}

// Description returns a description of this key provider.
func (p *EnvKeyProvider) Description() string {
	return fmt.Sprintf("Environment variable (%s)", p.envVar)
}

// GetDefaultKeyProvider returns the appropriate key provider for the current
// environment. Priority:
// 1. RECALL_ENCRYPTION_KEY environment variable (for CI/testing)
// 2. System keyring (macOS Keychain, Windows Credential Manager, Linux Secret Service)
func GetDefaultKeyProvider() (KeyProvider, error) {
	if os.Getenv("RECALL_ENCRYPTION_KEY") != "" {
		return NewEnvKeyProvider("RECALL_ENCRYPTION_KEY"), nil
	}

	provider := NewKeyringKeyProvider()

	if _, err := provider.GetKey(); err != nil {
		if errors.Is(err, ErrKeyringUnavailable) {
			return nil, fmt.Errorf("system keyring unavailable; set RECALL_ENCRYPTION_KEY environment variable: %w", err)
		}
		return nil, err
	}

	return provider, nil
}
