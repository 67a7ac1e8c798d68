package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore uploads to a Supabase Storage bucket.
type SupabaseStore struct {
	storageURL string
	serviceKey string
	bucket     string
}

func NewSupabaseStore(baseURL, serviceKey, bucket string) *SupabaseStore {
	return &SupabaseStore{
		storageURL: strings.TrimRight(baseURL, "/") + "/storage/v1",
		serviceKey: serviceKey,
		bucket:     bucket,
	}
}

// client is built per upload: FileOptions are applied to the client's shared
// headers, so one client must not serve concurrent uploads.
func (s *SupabaseStore) client() *storage_go.Client {
	return storage_go.NewClient(s.storageURL, s.serviceKey, map[string]string{"apikey": s.serviceKey})
}

func (s *SupabaseStore) Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upsert := false
	c := s.client()
	if _, err := c.UploadFile(s.bucket, key, io.LimitReader(body, size), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}); err != nil {
		return "", fmt.Errorf("supabase upload: %w", err)
	}
	return c.GetPublicUrl(s.bucket, key).SignedURL, nil
}
