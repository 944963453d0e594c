package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store holds call recordings in a MinIO bucket. The pipeline downloads
// objects to temp files for transcription; the dashboard gets presigned
// GET links for playback.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// FetchToTemp downloads the recording to a temp file and returns its path.
// The caller removes the file.
func (s *Store) FetchToTemp(ctx context.Context, recordingURL string) (string, error) {
	key := s.objectKey(recordingURL)
	if key == "" {
		return "", fmt.Errorf("empty recording reference")
	}

	f, err := os.CreateTemp("", "recording-*"+path.Ext(key))
	if err != nil {
		return "", err
	}
	local := f.Name()
	f.Close()

	if err := s.client.FGetObject(ctx, s.bucketName, key, local, minio.GetObjectOptions{}); err != nil {
		os.Remove(local)
		return "", fmt.Errorf("fetch recording %s: %w", key, err)
	}
	return local, nil
}

// PresignedURL returns a time-limited GET link for audio playback.
func (s *Store) PresignedURL(ctx context.Context, recordingURL string, expiry time.Duration) (string, error) {
	key := s.objectKey(recordingURL)
	if key == "" {
		return "", fmt.Errorf("empty recording reference")
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// objectKey accepts either a bare object key or a full URL pointing into
// the bucket and normalizes it to the key.
func (s *Store) objectKey(raw string) string {
	if !strings.Contains(raw, "://") {
		return strings.TrimPrefix(raw, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	key := strings.TrimPrefix(u.Path, "/")
	return strings.TrimPrefix(key, s.bucketName+"/")
}
