package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaytu-io/kaytu-pms/pkg/config"
	"go.uber.org/zap"
)

const (
	ProviderLocal  = "local"
	ProviderAwsKMS = "aws-kms"
)

var ErrInvalidKey = errors.New("vault key must be exactly 32 bytes")

type Cipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

// DecodeError is returned when a stored ciphertext cannot be turned back into
// plaintext.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode ciphertext: %s: %v", e.Reason, e.Err)
	}
	return "decode ciphertext: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// New builds the cipher selected by cfg.Provider.
func New(ctx context.Context, cfg config.Vault, environment string, logger *zap.Logger) (Cipher, error) {
	switch cfg.Provider {
	case "", ProviderLocal:
		return NewLocalCipher(cfg.Key, environment, logger)
	case ProviderAwsKMS:
		return NewKMSCipher(ctx, cfg.KMS.KeyARN, cfg.KMS.Region)
	default:
		return nil, fmt.Errorf("unsupported vault provider: %s", cfg.Provider)
	}
}
