// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	productdom "fisha/internal/domain/product"
)

var (
	ErrProductInvalidArgument = errors.New("product_usecase: invalid argument")
	ErrImageUploaderMissing   = errors.New("product_usecase: image uploader is not configured")
)

// ImageUploader hosts one image and returns its public https URL.
type ImageUploader interface {
	Upload(ctx context.Context, file ImageFile) (string, error)
}

// ImageFile is one uploaded file handed to the ImageUploader.
type ImageFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// ProductInput is the admin create form.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Images      []string `json:"images" validate:"dive,url"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Category    string   `json:"category" validate:"required"`
	Subcategory string   `json:"menSubcategory"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Status      string   `json:"status"`
}

// ProductUsecase serves the catalog and admin product management.
type ProductUsecase struct {
	repo     productdom.Repository
	uploader ImageUploader
	validate *validator.Validate
	group    singleflight.Group
	now      func() time.Time
}

func NewProductUsecase(repo productdom.Repository, uploader ImageUploader) *ProductUsecase {
	return &ProductUsecase{
		repo:     repo,
		uploader: uploader,
		validate: validator.New(),
		now:      time.Now,
	}
}

// List returns every product matching f.
// Concurrent identical loads share one store read.
func (uc *ProductUsecase) List(ctx context.Context, f productdom.Filter) ([]productdom.Product, error) {
	key := "all"
	if len(f.Categories) > 0 {
		key = "cat:" + strings.Join(f.Categories, ",")
	}

	v, err, _ := uc.group.Do(key, func() (any, error) {
		if len(f.Categories) > 0 {
			return uc.repo.ListByCategories(ctx, f.Categories)
		}
		return uc.repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return f.Apply(v.([]productdom.Product)), nil
}

// Browse lists the products of a storefront category page.
func (uc *ProductUsecase) Browse(ctx context.Context, category string, f productdom.Filter) ([]productdom.Product, error) {
	c, err := productdom.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	f.Categories = productdom.BrowseCategories(c)
	return uc.List(ctx, f)
}

func (uc *ProductUsecase) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, ErrProductInvalidArgument
	}
	return uc.repo.GetByID(ctx, id)
}

func (uc *ProductUsecase) Create(ctx context.Context, in ProductInput) (productdom.Product, error) {
	if err := uc.validate.Struct(in); err != nil {
		return productdom.Product{}, fmt.Errorf("%w: %v", ErrProductInvalidArgument, err)
	}
	cat, err := productdom.ParseCategory(in.Category)
	if err != nil {
		return productdom.Product{}, err
	}

	p, err := productdom.New(productdom.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Images:      in.Images,
		Sizes:       in.Sizes,
		Colors:      in.Colors,
		Category:    cat,
		Subcategory: in.Subcategory,
		Stock:       in.Stock,
		Status:      in.Status,
	}, uc.now())
	if err != nil {
		return productdom.Product{}, err
	}

	created, err := uc.repo.Create(ctx, p)
	if err != nil {
		return productdom.Product{}, err
	}
	uc.group.Forget("all")
	log.Printf("[product_uc] created id=%s category=%s", created.ID, created.Category)
	return created, nil
}

func (uc *ProductUsecase) Update(ctx context.Context, id string, patch productdom.Patch) (productdom.Product, error) {
	cur, err := uc.GetByID(ctx, id)
	if err != nil {
		return productdom.Product{}, err
	}
	next, err := cur.Apply(patch, uc.now())
	if err != nil {
		return productdom.Product{}, err
	}
	return uc.repo.Save(ctx, next)
}

func (uc *ProductUsecase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrProductInvalidArgument
	}
	return uc.repo.Delete(ctx, id)
}

// UploadImages uploads each file in order and returns the hosted URLs.
// The first failure aborts the batch and is returned.
func (uc *ProductUsecase) UploadImages(ctx context.Context, files []ImageFile) ([]string, error) {
	if uc.uploader == nil {
		return nil, ErrImageUploaderMissing
	}
	if len(files) == 0 {
		return nil, ErrProductInvalidArgument
	}

	urls := make([]string, 0, len(files))
	for i, f := range files {
		u, err := uc.uploader.Upload(ctx, f)
		if err != nil {
			log.Printf("[product_uc] upload failed index=%d name=%q err=%v", i, f.Name, err)
			return nil, fmt.Errorf("upload %q: %w", f.Name, err)
		}
		urls = append(urls, u)
	}
	return urls, nil
}
