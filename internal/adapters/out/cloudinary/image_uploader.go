// internal/adapters/out/cloudinary/image_uploader.go
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	usecase "fisha/internal/application/usecase"
)

const defaultFolder = "products"

// ImageUploader hosts product images on Cloudinary.
type ImageUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewImageUploader(cloudName, apiKey, apiSecret, folder string) (*ImageUploader, error) {
	if strings.TrimSpace(cloudName) == "" {
		return nil, errors.New("cloudinary: cloud name is empty")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	if strings.TrimSpace(folder) == "" {
		folder = defaultFolder
	}
	return &ImageUploader{cld: cld, folder: folder}, nil
}

// Upload sends one file and returns its secure URL.
func (u *ImageUploader) Upload(ctx context.Context, file usecase.ImageFile) (string, error) {
	if u == nil || u.cld == nil {
		return "", errors.New("cloudinary: uploader is not initialized")
	}
	if file.Body == nil {
		return "", errors.New("cloudinary: empty file")
	}

	res, err := u.cld.Upload.Upload(ctx, file.Body, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary: upload returned no url")
	}
	return res.SecureURL, nil
}
