package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUpload(t *testing.T) {
	assert.NoError(t, CheckUpload("application/pdf", 1024))
	assert.NoError(t, CheckUpload("image/PNG", MaxUploadSize))
	assert.NoError(t, CheckUpload("image/jpeg; charset=binary", 10))

	assert.ErrorIs(t, CheckUpload("application/pdf", MaxUploadSize+1), ErrFileTooLarge)
	assert.ErrorIs(t, CheckUpload("application/zip", 10), ErrFileType)
	assert.ErrorIs(t, CheckUpload("", 10), ErrFileType)
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	assert.Equal(t, "orders/o1/1700000000000-My_Thesis_v2.pdf", ObjectKey("o1", "My Thesis v2.pdf", now))
	assert.Equal(t, "orders/o1/1700000000000-passwd", ObjectKey("o1", "../../etc/passwd", now))
	assert.Equal(t, "orders/o1/1700000000000-scan.png", ObjectKey("o1", `C:\Users\me\scan.png`, now))
	assert.Equal(t, "orders/o1/1700000000000-file", ObjectKey("o1", "..", now))
}

func TestSupabaseStore_Put(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotKey, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"order-files/orders/o1/1-a.pdf"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStore(srv.URL+"/", "service-key", "order-files")
	u, err := s.Put(context.Background(), "orders/o1/1-a.pdf", "application/pdf", strings.NewReader("%PDF"), 4)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/storage/v1/object/order-files/orders/o1/1-a.pdf", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "service-key", gotKey)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "%PDF", gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/order-files/orders/o1/1-a.pdf", u)
}

func TestSupabaseStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewSupabaseStore(addr, "k", "b").Put(context.Background(), "k.png", "image/png", strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supabase upload")
}

func TestSupabaseStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSupabaseStore("http://127.0.0.1:1", "k", "b").Put(ctx, "k.png", "image/png", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir)

	u, err := s.Put(context.Background(), "orders/o1/1-a.pdf", "application/pdf", strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/orders/o1/1-a.pdf", u)

	b, err := os.ReadFile(filepath.Join(dir, "orders", "o1", "1-a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	_, err = s.Put(context.Background(), "orders/o1/1-a.pdf", "application/pdf", strings.NewReader("again"), 5)
	assert.Error(t, err)

	_, err = s.Put(context.Background(), "../escape.pdf", "application/pdf", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

func TestLocalStore_ShortBodyRemovesFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewLocalStore(dir).Put(context.Background(), "k.pdf", "application/pdf", strings.NewReader("abc"), 10)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "k.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}
