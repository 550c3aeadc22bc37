package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return key
}

func TestParsePrivateKey_PKCS8PEM(t *testing.T) {
	key := generateTestKey(t)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal PKCS8: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	parsed, err := ParsePrivateKey(pemBytes, "")
	if err != nil {
		t.Fatalf("ParsePrivateKey failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Error("parsed key does not match original")
	}
}

func TestParsePrivateKey_PKCS1PEM(t *testing.T) {
	key := generateTestKey(t)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	parsed, err := ParsePrivateKey(pemBytes, "")
	if err != nil {
		t.Fatalf("ParsePrivateKey failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Error("parsed key does not match original")
	}
}

func TestParsePrivateKey_OpenSSH(t *testing.T) {
	key := generateTestKey(t)

	block, err := ssh.MarshalPrivateKey(key, "test key")
	if err != nil {
		t.Fatalf("marshal OpenSSH key: %v", err)
	}
	pemBytes := pem.EncodeToMemory(block)

	parsed, err := ParsePrivateKey(pemBytes, "")
	if err != nil {
		t.Fatalf("ParsePrivateKey failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Error("parsed key does not match original")
	}
}

func TestParsePrivateKey_Base64DER(t *testing.T) {
	key := generateTestKey(t)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal PKCS8: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(der)

	parsed, err := ParsePrivateKey([]byte(encoded), "")
	if err != nil {
		t.Fatalf("ParsePrivateKey failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Error("parsed key does not match original")
	}
}

func TestParsePrivateKey_SurroundingWhitespace(t *testing.T) {
	key := generateTestKey(t)

	der := x509.MarshalPKCS1PrivateKey(key)
	padded := "\n  " + base64.StdEncoding.EncodeToString(der) + "\n"

	if _, err := ParsePrivateKey([]byte(padded), ""); err != nil {
		t.Fatalf("ParsePrivateKey with whitespace failed: %v", err)
	}
}

func TestParsePrivateKey_Garbage(t *testing.T) {
	_, err := ParsePrivateKey([]byte("not a key at all"), "")
	if err == nil {
		t.Fatal("expected error for garbage input")
	}
	// Error should name every attempted format.
	msg := err.Error()
	for _, format := range []string{"PEM", "OpenSSH", "base64 DER"} {
		if !strings.Contains(msg, format) {
			t.Errorf("error %q does not mention %s", msg, format)
		}
	}
}

func TestLoadCredentials(t *testing.T) {
	key := generateTestKey(t)
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	t.Run("valid", func(t *testing.T) {
		creds, err := LoadCredentials("key-id", pemBytes, "")
		if err != nil {
			t.Fatalf("LoadCredentials failed: %v", err)
		}
		if creds.KeyID != "key-id" {
			t.Errorf("KeyID = %q, want %q", creds.KeyID, "key-id")
		}
	})

	t.Run("missing key ID", func(t *testing.T) {
		if _, err := LoadCredentials("", pemBytes, ""); err == nil {
			t.Error("expected error for empty key ID")
		}
	})

	t.Run("missing key material", func(t *testing.T) {
		if _, err := LoadCredentials("key-id", nil, ""); err == nil {
			t.Error("expected error for empty key")
		}
	})
}

func TestLoadCredentialsFromFile(t *testing.T) {
	key := generateTestKey(t)
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	path := filepath.Join(t.TempDir(), "key.pem")
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	creds, err := LoadCredentialsFromFile("file-key", path, "")
	if err != nil {
		t.Fatalf("LoadCredentialsFromFile failed: %v", err)
	}
	if creds.PrivateKey.N.Cmp(key.N) != 0 {
		t.Error("loaded key does not match original")
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadCredentialsFromFile("file-key", filepath.Join(t.TempDir(), "nope.pem"), ""); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestCredentials_SignRequest(t *testing.T) {
	key := generateTestKey(t)
	creds := &Credentials{KeyID: "test-key-id", PrivateKey: key}

	headers, err := creds.SignRequest("GET", "/markets/trades")
	if err != nil {
		t.Fatalf("SignRequest failed: %v", err)
	}

	if headers["KALSHI-ACCESS-KEY"] != "test-key-id" {
		t.Errorf("KALSHI-ACCESS-KEY = %q, want %q", headers["KALSHI-ACCESS-KEY"], "test-key-id")
	}
	if headers["KALSHI-ACCESS-TIMESTAMP"] == "" {
		t.Error("KALSHI-ACCESS-TIMESTAMP is empty")
	}
	if headers["KALSHI-ACCESS-SIGNATURE"] == "" {
		t.Error("KALSHI-ACCESS-SIGNATURE is empty")
	}

	// The signature must verify against the public key over
	// timestamp + method + path.
	tsMs, err := strconv.ParseInt(headers["KALSHI-ACCESS-TIMESTAMP"], 10, 64)
	if err != nil {
		t.Fatalf("timestamp is not numeric: %v", err)
	}

	sig, err := base64.StdEncoding.DecodeString(headers["KALSHI-ACCESS-SIGNATURE"])
	if err != nil {
		t.Fatalf("signature is not valid base64: %v", err)
	}

	message := fmt.Sprintf("%d%s%s", tsMs, "GET", "/markets/trades")
	hashed := sha256.Sum256([]byte(message))

	err = rsa.VerifyPSS(&key.PublicKey, crypto.SHA256, hashed[:], sig,
		&rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto})
	if err != nil {
		t.Errorf("signature verification failed: %v", err)
	}
}
