// Package auth provides Kalshi API authentication using RSA-PSS signatures.
package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
)

// Credentials holds the API key and private key for signing requests.
type Credentials struct {
	KeyID      string          // API key ID from Kalshi dashboard
	PrivateKey *rsa.PrivateKey // RSA private key for signing
}

// LoadCredentials builds credentials from a key ID and raw private key bytes.
// The key may be PEM (PKCS#8 or PKCS#1), OpenSSH, or base64-wrapped DER;
// passphrase is used when the key material is encrypted.
func LoadCredentials(keyID string, keyData []byte, passphrase string) (*Credentials, error) {
	if keyID == "" {
		return nil, errors.New("API key ID is required")
	}
	if len(keyData) == 0 {
		return nil, errors.New("private key is required")
	}

	privateKey, err := ParsePrivateKey(keyData, passphrase)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}

	return &Credentials{
		KeyID:      keyID,
		PrivateKey: privateKey,
	}, nil
}

// LoadCredentialsFromFile reads the private key from a file on disk.
func LoadCredentialsFromFile(keyID, path, passphrase string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return LoadCredentials(keyID, data, passphrase)
}

// keyParser is one attempt at decoding private key material.
type keyParser struct {
	name  string
	parse func(raw []byte, passphrase string) (*rsa.PrivateKey, error)
}

var keyParsers = []keyParser{
	{"pem", parsePEMKey},
	{"openssh", parseOpenSSHKey},
	{"base64-der", parseBase64DERKey},
}

// ParsePrivateKey decodes an RSA private key, trying PEM, OpenSSH, and
// base64-wrapped DER encodings in that order. The first parser to succeed
// wins; if all fail the error covers every attempt.
func ParsePrivateKey(raw []byte, passphrase string) (*rsa.PrivateKey, error) {
	trimmed := trimSpace(raw)

	var errs []error
	for _, p := range keyParsers {
		key, err := p.parse(trimmed, passphrase)
		if err == nil {
			return key, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.name, err))
	}

	return nil, fmt.Errorf("key is not valid PEM, OpenSSH, or base64 DER: %w", errors.Join(errs...))
}

func parsePEMKey(raw []byte, passphrase string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	der := block.Bytes
	if x509.IsEncryptedPEMBlock(block) {
		if passphrase == "" {
			return nil, errors.New("key is encrypted but no passphrase given")
		}
		decrypted, err := x509.DecryptPEMBlock(block, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("decrypt PEM block: %w", err)
		}
		der = decrypted
	}

	return parseDER(der)
}

func parseOpenSSHKey(raw []byte, passphrase string) (*rsa.PrivateKey, error) {
	var key any
	var err error
	if passphrase != "" {
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(raw, []byte(passphrase))
	} else {
		key, err = ssh.ParseRawPrivateKey(raw)
	}
	if err != nil {
		return nil, err
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is %T, not an RSA private key", key)
	}
	return rsaKey, nil
}

func parseBase64DERKey(raw []byte, _ string) (*rsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return parseDER(der)
}

// parseDER tries PKCS#8 first (newer format), then PKCS#1.
func parseDER(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("key is not an RSA private key")
		}
		return rsaKey, nil
	}

	rsaKey, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse DER key: %w", err)
	}
	return rsaKey, nil
}

func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// SignRequest generates authentication headers for a Kalshi API request.
// The path must not include query parameters.
func (c *Credentials) SignRequest(method, path string) (headers map[string]string, err error) {
	timestampMs := time.Now().UnixMilli()

	signature, err := c.generateSignature(timestampMs, method, path)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"KALSHI-ACCESS-KEY":       c.KeyID,
		"KALSHI-ACCESS-TIMESTAMP": fmt.Sprintf("%d", timestampMs),
		"KALSHI-ACCESS-SIGNATURE": signature,
	}, nil
}

// generateSignature creates an RSA-PSS signature for the given request.
// Message format: timestamp_ms + method + path
func (c *Credentials) generateSignature(timestampMs int64, method, path string) (string, error) {
	message := fmt.Sprintf("%d%s%s", timestampMs, method, path)

	hashed := sha256.Sum256([]byte(message))

	// Salt length must be the maximum the key allows, matching the
	// exchange's verification.
	signature, err := rsa.SignPSS(
		rand.Reader,
		c.PrivateKey,
		crypto.SHA256,
		hashed[:],
		&rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto},
	)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}
