package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdom "fisha/internal/domain/product"
)

type fakeUploader struct {
	calls  []string
	failOn string
}

func (f *fakeUploader) Upload(_ context.Context, file ImageFile) (string, error) {
	f.calls = append(f.calls, file.Name)
	if file.Name == f.failOn {
		return "", errBoom
	}
	return "https://res.example/" + file.Name, nil
}

func TestProductUsecase_BrowseUsesCategoryAliases(t *testing.T) {
	repo := newFakeProducts(
		productdom.Product{ID: "1", Name: "Runner", Category: "men", Colors: []string{"black"}},
		productdom.Product{ID: "2", Name: "Boots", Category: "others", Colors: []string{"brown"}},
		productdom.Product{ID: "3", Name: "Tee", Category: "tshirts", Colors: []string{"black"}},
		productdom.Product{ID: "4", Name: "Dress", Category: "women", Colors: []string{"red"}},
	)
	uc := NewProductUsecase(repo, nil)

	men, err := uc.Browse(context.Background(), "men", productdom.Filter{})
	require.NoError(t, err)
	require.Len(t, men, 2)
	assert.Equal(t, "1", men[0].ID)
	assert.Equal(t, "2", men[1].ID)

	women, err := uc.Browse(context.Background(), "women", productdom.Filter{Color: "black"})
	require.NoError(t, err)
	require.Len(t, women, 1)
	assert.Equal(t, "3", women[0].ID)

	_, err = uc.Browse(context.Background(), "shoes", productdom.Filter{})
	assert.ErrorIs(t, err, productdom.ErrInvalidCategory)
}

func TestProductUsecase_ListAppliesFacets(t *testing.T) {
	repo := newFakeProducts(
		productdom.Product{ID: "1", Name: "Air Max", Category: "men", Subcategory: "nike", Price: 100},
		productdom.Product{ID: "2", Name: "Superstar", Category: "men", Subcategory: "adidas", Price: 120},
	)
	uc := NewProductUsecase(repo, nil)

	got, err := uc.List(context.Background(), productdom.Filter{Search: "air"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestProductUsecase_CreateValidatesVariant(t *testing.T) {
	repo := newFakeProducts()
	uc := NewProductUsecase(repo, nil)

	p, err := uc.Create(context.Background(), ProductInput{
		Name: "Runner", Price: 1500, Category: "men", Subcategory: "nike",
		Sizes: []string{"42"}, Colors: []string{"black"}, Stock: 4,
		Images: []string{"https://res.example/a.jpg"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 4, p.Available)

	_, err = uc.Create(context.Background(), ProductInput{Name: "Tee", Category: "t-shirts", Sizes: []string{"42"}})
	assert.ErrorIs(t, err, productdom.ErrInvalidSize)

	_, err = uc.Create(context.Background(), ProductInput{Name: "Tee", Category: "t-shirts", Stock: -1})
	assert.ErrorIs(t, err, ErrProductInvalidArgument)

	_, err = uc.Create(context.Background(), ProductInput{Name: "Tee", Category: "t-shirts", Images: []string{"not a url"}})
	assert.ErrorIs(t, err, ErrProductInvalidArgument)
}

func TestProductUsecase_UpdateAndDelete(t *testing.T) {
	repo := newFakeProducts(productdom.Product{ID: "1", Name: "Cap", Category: "others", Price: 50})
	uc := NewProductUsecase(repo, nil)

	price := 65.0
	p, err := uc.Update(context.Background(), "1", productdom.Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 65.0, p.Price)

	bad := []string{"purple"}
	_, err = uc.Update(context.Background(), "1", productdom.Patch{Colors: &bad})
	assert.ErrorIs(t, err, productdom.ErrInvalidColor)

	require.NoError(t, uc.Delete(context.Background(), "1"))
	_, err = uc.GetByID(context.Background(), "1")
	assert.ErrorIs(t, err, productdom.ErrNotFound)
}

func TestProductUsecase_UploadImages(t *testing.T) {
	up := &fakeUploader{}
	uc := NewProductUsecase(newFakeProducts(), up)

	urls, err := uc.UploadImages(context.Background(), []ImageFile{
		{Name: "a.jpg", Body: strings.NewReader("a")},
		{Name: "b.jpg", Body: strings.NewReader("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://res.example/a.jpg", "https://res.example/b.jpg"}, urls)
}

func TestProductUsecase_UploadImagesStopsAtFirstFailure(t *testing.T) {
	up := &fakeUploader{failOn: "b.jpg"}
	uc := NewProductUsecase(newFakeProducts(), up)

	_, err := uc.UploadImages(context.Background(), []ImageFile{
		{Name: "a.jpg"}, {Name: "b.jpg"}, {Name: "c.jpg"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, up.calls)

	_, err = NewProductUsecase(newFakeProducts(), nil).UploadImages(context.Background(), []ImageFile{{Name: "a"}})
	assert.ErrorIs(t, err, ErrImageUploaderMissing)
}
