// internal/adapters/out/gcs/image_uploader_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	usecase "fisha/internal/application/usecase"
)

const defaultPrefix = "products"

// ImageUploaderGCS stores product images as public objects in a bucket.
type ImageUploaderGCS struct {
	Client *storage.Client
	Bucket string
	Prefix string
	now    func() time.Time
}

func NewImageUploaderGCS(client *storage.Client, bucket string) *ImageUploaderGCS {
	return &ImageUploaderGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
		Prefix: defaultPrefix,
		now:    time.Now,
	}
}

func (u *ImageUploaderGCS) Upload(ctx context.Context, file usecase.ImageFile) (string, error) {
	if u == nil || u.Client == nil {
		return "", errors.New("image_uploader_gcs: client is nil")
	}
	if u.Bucket == "" {
		return "", errors.New("image_uploader_gcs: bucket is empty")
	}
	if file.Body == nil {
		return "", errors.New("image_uploader_gcs: empty file")
	}

	obj := ObjectPath(u.Prefix, file.Name, u.now())
	w := u.Client.Bucket(u.Bucket).Object(obj).NewWriter(ctx)
	w.ContentType = contentTypeOrDefault(file.ContentType)
	w.CacheControl = "public, max-age=31536000"

	if _, err := io.Copy(w, file.Body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("image_uploader_gcs: write %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("image_uploader_gcs: close %s: %w", obj, err)
	}
	return PublicURL(u.Bucket, obj), nil
}

// ObjectPath builds "<prefix>/<yyyy>/<mm>/<uuid><ext>".
func ObjectPath(prefix, name string, now time.Time) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(name)))
	if len(ext) > 6 {
		ext = ""
	}
	p := strings.Trim(strings.TrimSpace(prefix), "/")
	if p == "" {
		p = defaultPrefix
	}
	return fmt.Sprintf("%s/%04d/%02d/%s%s", p, now.Year(), int(now.Month()), uuid.NewString(), ext)
}

func PublicURL(bucket, obj string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + obj}
	return u.String()
}

func contentTypeOrDefault(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
