package gcs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	usecase "fisha/internal/application/usecase"
)

func TestObjectPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	p := ObjectPath("/products/", "Shirt.JPG", now)
	assert.True(t, strings.HasPrefix(p, "products/2024/03/"), p)
	assert.True(t, strings.HasSuffix(p, ".jpg"), p)

	p = ObjectPath("", "noext", now)
	assert.True(t, strings.HasPrefix(p, "products/2024/03/"), p)
	assert.NotContains(t, p[len("products/2024/03/"):], ".")
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/kenzo-images/products/2024/03/a.jpg",
		PublicURL("kenzo-images", "products/2024/03/a.jpg"))
}

func TestUpload_Guards(t *testing.T) {
	var u *ImageUploaderGCS
	_, err := u.Upload(context.Background(), usecase.ImageFile{Body: strings.NewReader("x")})
	assert.Error(t, err)

	u = NewImageUploaderGCS(nil, "b")
	_, err = u.Upload(context.Background(), usecase.ImageFile{Body: strings.NewReader("x")})
	assert.Error(t, err)
}
