package vault

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/kaytu-io/kaytu-pms/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/chacha20poly1305"
)

const separator = ":"

// developmentKey is only ever used when environment is development and no
// usable key was configured. Anything sealed with it is effectively public.
const developmentKey = "kaytu-pms-development-only-key!!"

// LocalCipher seals secrets with XChaCha20-Poly1305. The stored form is
// hex(nonce) + ":" + hex(ciphertext).
type LocalCipher struct {
	aead cipher.AEAD
}

func NewLocalCipher(key string, environment string, logger *zap.Logger) (*LocalCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		if environment != config.EnvironmentDevelopment {
			return nil, ErrInvalidKey
		}
		if logger != nil {
			logger.Warn("vault key is missing or not 32 bytes, using the development fallback key; never run like this in production",
				zap.Int("key_length", len(key)),
			)
		}
		key = developmentKey
	}

	aead, err := chacha20poly1305.NewX([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("init xchacha20poly1305: %w", err)
	}

	return &LocalCipher{aead: aead}, nil
}

func (c *LocalCipher) Encrypt(_ context.Context, plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + separator + hex.EncodeToString(sealed), nil
}

func (c *LocalCipher) Decrypt(_ context.Context, ciphertext string) (string, error) {
	parts := strings.Split(ciphertext, separator)
	if len(parts) != 2 {
		return "", &DecodeError{Reason: "expected nonce:ciphertext"}
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", &DecodeError{Reason: "nonce is not hex", Err: err}
	}
	if len(nonce) != c.aead.NonceSize() {
		return "", &DecodeError{Reason: fmt.Sprintf("nonce must be %d bytes, got %d", c.aead.NonceSize(), len(nonce))}
	}

	sealed, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", &DecodeError{Reason: "ciphertext is not hex", Err: err}
	}

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &DecodeError{Reason: "authentication failed", Err: err}
	}

	return string(plaintext), nil
}
