package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	s3c "sindesk_negotiation/internal/config/connections/s3"

	"github.com/minio/minio-go/v7"
)

// S3Archiver writes the committed-negotiation snapshot as a JSON object to
// negotiations/<org>/<code>.json in the configured bucket.
type S3Archiver struct {
	s3 *s3c.S3
}

func NewS3Archiver(s *s3c.S3) *S3Archiver {
	return &S3Archiver{s3: s}
}

func (a *S3Archiver) Archive(ctx context.Context, organizationID, code string, payload any) error {
	if a.s3 == nil || a.s3.Client == nil {
		return fmt.Errorf("s3 not initialized")
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	objKey := fmt.Sprintf("negotiations/%s/%s.json", organizationID, code)

	_, err = a.s3.Client.PutObject(ctx, a.s3.Bucket, objKey,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", objKey, err)
	}
	return nil
}
