package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/storage"

	"github.com/dvloznov/revelation/internal/insights"
)

// Uploader writes complete-revelation bundles to GCS as JSON so a user's
// history of daily revelations survives beyond the per-request lifetime
// of the computed values. It assumes Application Default Credentials.
type Uploader struct {
	bucket string
}

// NewUploader creates an Uploader targeting the given bucket.
func NewUploader(bucket string) *Uploader {
	return &Uploader{bucket: bucket}
}

// ObjectName is the canonical object path for a user's snapshot on a
// given day: revelations/<user>/<YYYY-MM-DD>.json.
func ObjectName(userID string, ts time.Time) string {
	return fmt.Sprintf("revelations/%s/%s.json", userID, ts.UTC().Format("2006-01-02"))
}

// Upload marshals the revelation and writes it to the bucket, returning
// the gs:// URI of the stored object.
func (u *Uploader) Upload(ctx context.Context, userID string, rev insights.CompleteRevelation) (string, error) {
	if u.bucket == "" {
		return "", fmt.Errorf("Upload: no bucket configured")
	}

	data, err := json.MarshalIndent(rev, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Upload: marshaling revelation: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("Upload: create storage client: %w", err)
	}
	defer client.Close()

	objectName := ObjectName(userID, rev.Timestamp)
	gcsURI := fmt.Sprintf("gs://%s/%s", u.bucket, objectName)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("Upload: writing snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Upload: finalize upload: %w", err)
	}

	return gcsURI, nil
}
