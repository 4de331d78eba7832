package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyIterations = 100_000
	keyLength     = 32
	nonceLength   = 12
)

// keySalt is fixed so that a backup taken on one device can be restored
// on another with only the passphrase.
var keySalt = []byte("taxmate-salt")

// Codec encrypts backup payloads with AES-256-GCM. The key is derived
// from a passphrase with PBKDF2-SHA256; the nonce is prepended to the
// ciphertext and the whole blob is base64 encoded.
type Codec struct {
	key []byte
}

// NewCodec derives the encryption key from the given passphrase.
func NewCodec(passphrase string) *Codec {
	return &Codec{
		key: pbkdf2.Key([]byte(passphrase), keySalt, keyIterations, keyLength, sha256.New),
	}
}

// Encrypt seals the plaintext into a portable base64 blob.
func (c *Codec) Encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt. It fails when the blob was
// tampered with or when the passphrase does not match.
func (c *Codec) Decrypt(blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("backup is not valid base64: %w", err)
	}
	if len(raw) <= nonceLength {
		return nil, fmt.Errorf("backup is too short to contain a nonce")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, raw[:nonceLength], raw[nonceLength:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt backup: %w", err)
	}
	return plaintext, nil
}
