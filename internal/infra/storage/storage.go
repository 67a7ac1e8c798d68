package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
)

const MaxUploadSize = 50 << 20

var (
	ErrFileTooLarge = errors.New("file exceeds 50MB")
	ErrFileType     = errors.New("only PDF, JPEG and PNG files are allowed")
)

var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
}

// FileStore persists uploaded order files and returns a URL for them.
type FileStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error)
}

// CheckUpload validates declared size and content type.
func CheckUpload(contentType string, size int64) error {
	if size > MaxUploadSize {
		return ErrFileTooLarge
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if _, ok := allowedTypes[ct]; !ok {
		return fmt.Errorf("%w: %s", ErrFileType, contentType)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds "orders/<orderID>/<unix-ms>-<name>" with a sanitised name.
func ObjectKey(orderID, fileName string, now time.Time) string {
	base := unsafeChars.ReplaceAllString(path.Base(strings.ReplaceAll(fileName, `\`, "/")), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("orders/%s/%d-%s", orderID, now.UnixMilli(), base)
}
