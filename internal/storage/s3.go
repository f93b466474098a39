package storage

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/pbkdf2"
)

const gcmMagic = "GCM3NCR0"

// S3Client exports finished translated documents to an S3 bucket,
// optionally encrypted at rest with a shared password.
type S3Client struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Client(ctx context.Context, bucket, prefix string) (*S3Client, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Client{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

// UploadDocument stores a translated PDF under <prefix>/<jobID>.pdf.
// A non-empty password enables AES-256-GCM encryption.
func (s *S3Client) UploadDocument(ctx context.Context, jobID, filename string, data []byte, password string) error {
	key := path.Join(s.prefix, jobID+".pdf")

	body := data
	encrypted := "false"
	if password != "" {
		var err error
		body, err = encryptGCM(data, password)
		if err != nil {
			return fmt.Errorf("failed to encrypt document: %w", err)
		}
		encrypted = "true"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
		Metadata: map[string]string{
			"name":         filename,
			"content-type": "application/pdf",
			"encrypted":    encrypted,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Info().Str("key", key).Str("job_id", jobID).Int("size", len(data)).Msg("uploaded translated document to S3")
	return nil
}

// Client returns the underlying S3 client for health checks.
func (s *S3Client) Client() *s3.Client { return s.client }

// encryptGCM produces magic(8) + salt(16) + nonce(12) + ciphertext.
func encryptGCM(data []byte, password string) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, 100000, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(gcmMagic)+len(salt)+len(nonce)+len(data)+gcm.Overhead())
	out = append(out, gcmMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, data, nil)
	return out, nil
}
