package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
)

const kmsPrefix = "kms:"

type kmsAPI interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// KMSCipher delegates sealing to an AWS KMS symmetric key. The stored form is
// "kms:" + base64(ciphertext blob).
type KMSCipher struct {
	kmsClient kmsAPI
	keyARN    string
}

func NewKMSCipher(ctx context.Context, keyARN, region string) (*KMSCipher, error) {
	if keyARN == "" {
		return nil, errors.New("kms key arn is empty")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load SDK configuration: %v", err)
	}
	if region != "" {
		cfg.Region = region
	}

	return &KMSCipher{
		kmsClient: kms.NewFromConfig(cfg),
		keyARN:    keyARN,
	}, nil
}

func (v *KMSCipher) Encrypt(ctx context.Context, plaintext string) (string, error) {
	result, err := v.kmsClient.Encrypt(ctx, &kms.EncryptInput{
		KeyId:               aws.String(v.keyARN),
		Plaintext:           []byte(plaintext),
		EncryptionAlgorithm: types.EncryptionAlgorithmSpecSymmetricDefault,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encrypt plaintext: %w", err)
	}

	return kmsPrefix + base64.StdEncoding.EncodeToString(result.CiphertextBlob), nil
}

func (v *KMSCipher) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, kmsPrefix) {
		return "", &DecodeError{Reason: "missing kms prefix"}
	}

	blob, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, kmsPrefix))
	if err != nil {
		return "", &DecodeError{Reason: "ciphertext is not base64", Err: err}
	}

	result, err := v.kmsClient.Decrypt(ctx, &kms.DecryptInput{
		CiphertextBlob:      blob,
		EncryptionAlgorithm: types.EncryptionAlgorithmSpecSymmetricDefault,
		KeyId:               aws.String(v.keyARN),
	})
	if err != nil {
		var (
			invalid  *types.InvalidCiphertextException
			wrongKey *types.IncorrectKeyException
		)
		if errors.As(err, &invalid) || errors.As(err, &wrongKey) {
			return "", &DecodeError{Reason: "kms refused the ciphertext", Err: err}
		}
		return "", fmt.Errorf("failed to decrypt ciphertext: %w", err)
	}

	return string(result.Plaintext), nil
}
