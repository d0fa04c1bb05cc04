package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCipherRoundTrip(t *testing.T) {
	c, err := NewCipher("test-secret")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	enc, err := c.Encrypt("sk-or-v1-abcdef")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if enc == "sk-or-v1-abcdef" || !strings.Contains(enc, ":") {
		t.Errorf("ciphertext %q does not look encrypted", enc)
	}

	dec, err := c.Decrypt(enc)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if dec != "sk-or-v1-abcdef" {
		t.Errorf("Decrypt = %q, want original", dec)
	}
}

func TestCipherEmptyStringPassesThrough(t *testing.T) {
	c, _ := NewCipher("test-secret")
	enc, err := c.Encrypt("")
	if err != nil || enc != "" {
		t.Errorf("Encrypt(\"\") = (%q, %v), want (\"\", nil)", enc, err)
	}
	dec, err := c.Decrypt("")
	if err != nil || dec != "" {
		t.Errorf("Decrypt(\"\") = (%q, %v), want (\"\", nil)", dec, err)
	}
}

func TestCipherWrongSecretFails(t *testing.T) {
	c1, _ := NewCipher("secret-one")
	c2, _ := NewCipher("secret-two")

	enc, err := c1.Encrypt("payload")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := c2.Decrypt(enc); err == nil {
		t.Error("Decrypt with wrong secret succeeded")
	}
}

func TestCipherMalformedCiphertext(t *testing.T) {
	c, _ := NewCipher("test-secret")
	for _, bad := range []string{"no-separator", "zz:zz", "abcd"} {
		if _, err := c.Decrypt(bad); err == nil {
			t.Errorf("Decrypt(%q) succeeded, want error", bad)
		}
	}
}

func TestNewCipherRejectsEmptySecret(t *testing.T) {
	if _, err := NewCipher(""); err == nil {
		t.Error("NewCipher(\"\") succeeded, want error")
	}
}

func TestSecretFromEnv_PrefersEnv(t *testing.T) {
	t.Setenv("USAGEDECK_SECRET", "from-env")
	got, err := SecretFromEnv(t.TempDir())
	if err != nil {
		t.Fatalf("SecretFromEnv: %v", err)
	}
	if got != "from-env" {
		t.Errorf("secret = %q, want from-env", got)
	}
}

func TestSecretFromEnv_GeneratesAndPersists(t *testing.T) {
	t.Setenv("USAGEDECK_SECRET", "")
	dir := t.TempDir()

	first, err := SecretFromEnv(dir)
	if err != nil {
		t.Fatalf("SecretFromEnv: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("generated secret length = %d, want 64 hex chars", len(first))
	}

	second, err := SecretFromEnv(dir)
	if err != nil {
		t.Fatalf("SecretFromEnv (second): %v", err)
	}
	if first != second {
		t.Error("secret not stable across calls")
	}

	info, err := os.Stat(filepath.Join(dir, "secret"))
	if err != nil {
		t.Fatalf("stat secret file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("secret file mode = %o, want 600", perm)
	}
}
