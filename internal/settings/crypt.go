package settings

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 4096
	keyDerivationCtx = "usagedeck.settings.v1"
)

// Cipher encrypts API keys at rest with AES-256-GCM. The key is derived from
// a passphrase with PBKDF2, so the same secret always opens the same
// settings file.
type Cipher struct {
	aead cipher.AEAD
}

func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("empty encryption secret")
	}
	key := pbkdf2.Key([]byte(secret), []byte(keyDerivationCtx), pbkdf2Iterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("building cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("building AEAD: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt returns "nonceHex:cipherHex". Empty plaintext encrypts to the
// empty string so unset keys stay recognizably unset on disk.
func (c *Cipher) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plain), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

func (c *Cipher) Decrypt(stored string) (string, error) {
	if stored == "" {
		return "", nil
	}
	nonceHex, sealedHex, ok := strings.Cut(stored, ":")
	if !ok {
		return "", fmt.Errorf("malformed ciphertext")
	}
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		return "", fmt.Errorf("decoding nonce: %w", err)
	}
	sealed, err := hex.DecodeString(sealedHex)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("opening ciphertext: %w", err)
	}
	return string(plain), nil
}

// SecretFromEnv resolves the settings encryption passphrase: USAGEDECK_SECRET
// when set, otherwise a random secret generated once and persisted next to
// the settings file with owner-only permissions.
func SecretFromEnv(configDir string) (string, error) {
	if secret := strings.TrimSpace(os.Getenv("USAGEDECK_SECRET")); secret != "" {
		return secret, nil
	}

	path := filepath.Join(configDir, "secret")
	data, err := os.ReadFile(path)
	if err == nil && len(strings.TrimSpace(string(data))) > 0 {
		return strings.TrimSpace(string(data)), nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading secret file: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	secret := hex.EncodeToString(raw)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing secret file: %w", err)
	}
	return secret, nil
}
