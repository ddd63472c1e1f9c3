package cloudinary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "fisha/internal/application/usecase"
)

func TestNewImageUploader(t *testing.T) {
	_, err := NewImageUploader("", "k", "s", "")
	assert.Error(t, err)

	u, err := NewImageUploader("demo", "key", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, defaultFolder, u.folder)
}

func TestUpload_EmptyBody(t *testing.T) {
	u, err := NewImageUploader("demo", "key", "secret", "shop")
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), usecase.ImageFile{Name: "a.jpg"})
	assert.Error(t, err)
}
