package mallHandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mallhttp "fisha/internal/adapters/in/http/mall"
	"fisha/internal/adapters/out/kv"
	"fisha/internal/adapters/out/memory"
	usecase "fisha/internal/application/usecase"
	cartdom "fisha/internal/domain/cart"
	orderdom "fisha/internal/domain/order"
	productdom "fisha/internal/domain/product"
)

type testEnv struct {
	mux   *http.ServeMux
	store *memory.Store
	kv    *kv.MemoryKV
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	carts := kv.NewMemoryKV()

	ctx := context.Background()
	seed := []productdom.Product{
		{ID: "loafer", Name: "Loafer", Price: 450, Category: productdom.CategoryMen, Subcategory: "Gucci",
			Sizes: []string{"41", "42"}, Colors: []string{"black"}, Images: []string{"https://img/loafer.jpg"}, Stock: 5, Available: 5},
		{ID: "belt", Name: "Belt", Price: 150, Category: productdom.CategoryOthers, Colors: []string{"brown"}, Stock: 9, Available: 9},
		{ID: "dress", Name: "Dress", Price: 900, Category: productdom.CategoryWomen, Sizes: []string{"38"}, Colors: []string{"red"}, Stock: 1, Available: 1},
	}
	for _, p := range seed {
		_, err := store.Products().Create(ctx, p)
		require.NoError(t, err)
	}

	productUC := usecase.NewProductUsecase(store.Products(), nil)
	cartUC := usecase.NewCartUsecase(carts, store.Products())
	checkoutUC := usecase.NewCheckoutUsecaseWithClock(cartUC, store.Orders(), nil, func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	})

	mux := http.NewServeMux()
	mallhttp.Register(mux, mallhttp.Deps{
		Product:  NewProductHandler(productUC),
		Cart:     NewCartHandler(cartUC),
		Checkout: NewCheckoutHandler(checkoutUC),
	})
	return &testEnv{mux: mux, store: store, kv: carts}
}

func (e *testEnv) do(t *testing.T, method, target, sid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if sid != "" {
		req.Header.Set(SessionHeader, sid)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) cartdom.Snapshot {
	t.Helper()
	var snap cartdom.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func TestCart_IssuesSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/mall/cart", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.Equal(t, cookies[0].Value, rec.Header().Get(SessionHeader))
	assert.Empty(t, decodeSnapshot(t, rec).Lines)
}

func TestCart_AddMergeUpdateRemove(t *testing.T) {
	env := newTestEnv(t)
	add := map[string]string{"productId": "loafer", "size": "42", "color": "black"}

	env.do(t, http.MethodPost, "/mall/cart/items", "s1", add)
	rec := env.do(t, http.MethodPost, "/mall/cart/items", "s1", add)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 900.0, snap.Total)
	assert.Equal(t, "https://img/loafer.jpg", snap.Lines[0].ImageRef)

	// sizeless product goes in as one-size
	rec = env.do(t, http.MethodPost, "/mall/cart/items", "s1", map[string]string{"productId": "belt", "size": productdom.OneSize, "color": "brown"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeSnapshot(t, rec).Lines, 2)

	rec = env.do(t, http.MethodPut, "/mall/cart/items", "s1", map[string]any{"productId": "loafer", "size": "42", "color": "black", "quantity": 5})
	assert.Equal(t, 5, decodeSnapshot(t, rec).Lines[0].Quantity)

	rec = env.do(t, http.MethodPut, "/mall/cart/items", "s1", map[string]any{"productId": "loafer", "size": "42", "color": "black", "quantity": 11})
	assert.Equal(t, 5, decodeSnapshot(t, rec).Lines[0].Quantity, "out of range quantity is ignored")

	rec = env.do(t, http.MethodDelete, "/mall/cart/items?productId=loafer&size=42&color=black", "s1", nil)
	snap = decodeSnapshot(t, rec)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "belt", snap.Lines[0].ProductID)

	rec = env.do(t, http.MethodDelete, "/mall/cart/products/belt", "s1", nil)
	assert.Empty(t, decodeSnapshot(t, rec).Lines)

	// the durable record follows the cart
	raw, ok, _ := env.kv.Get(context.Background(), cartdom.SessionKey("s1"))
	require.True(t, ok)
	assert.JSONEq(t, `[]`, raw)
}

func TestCart_Rejects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/mall/cart/items", "s1", map[string]string{"productId": "loafer", "size": "47", "color": "black"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/mall/cart/items", "s1", map[string]string{"productId": "nope", "size": "42", "color": "black"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/mall/cart/items", strings.NewReader(`{"productId":"loafer","bogus":1}`))
	req.Header.Set(SessionHeader, "s1")
	rr := httptest.NewRecorder()
	env.mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rec = env.do(t, http.MethodPatch, "/mall/cart", "s1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/mall/cart/items", "a", map[string]string{"productId": "loafer", "size": "42", "color": "black"})

	rec := env.do(t, http.MethodGet, "/mall/cart", "b", nil)
	assert.Empty(t, decodeSnapshot(t, rec).Lines)

	rec = env.do(t, http.MethodGet, "/mall/cart", "a", nil)
	assert.Len(t, decodeSnapshot(t, rec).Lines, 1)
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)
	form := map[string]string{"name": "Mona Adel", "address": "12 Nile St, Cairo", "phone": "01000000000"}

	rec := env.do(t, http.MethodPost, "/mall/checkout", "s1", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty cart")

	env.do(t, http.MethodPost, "/mall/cart/items", "s1", map[string]string{"productId": "loafer", "size": "42", "color": "black"})
	env.do(t, http.MethodPost, "/mall/cart/items", "s1", map[string]string{"productId": "loafer", "size": "42", "color": "black"})

	rec = env.do(t, http.MethodPost, "/mall/checkout", "s1", map[string]string{"name": "M", "address": "x", "phone": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "invalid form")

	rec = env.do(t, http.MethodPost, "/mall/checkout", "s1", form)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o orderdom.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, orderdom.StatusPending, o.Status)
	assert.Equal(t, 900.0, o.Subtotal)
	assert.Equal(t, 1020.0, o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)

	stored, err := env.store.Orders().GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Total, stored.Total)

	rec = env.do(t, http.MethodGet, "/mall/cart", "s1", nil)
	assert.Empty(t, decodeSnapshot(t, rec).Lines, "cart cleared after checkout")

	rec = env.do(t, http.MethodGet, "/mall/checkout", "s1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestProducts(t *testing.T) {
	env := newTestEnv(t)

	decode := func(rec *httptest.ResponseRecorder) []productdom.Product {
		var out []productdom.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	rec := env.do(t, http.MethodGet, "/mall/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(rec), 3)

	rec = env.do(t, http.MethodGet, "/mall/products?maxPrice=500&color=BLACK", "", nil)
	got := decode(rec)
	require.Len(t, got, 1)
	assert.Equal(t, "loafer", got[0].ID)

	rec = env.do(t, http.MethodGet, "/mall/products?minPrice=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/mall/categories/men", "", nil)
	assert.Len(t, decode(rec), 2, "men page also shows others")

	rec = env.do(t, http.MethodGet, "/mall/categories/men?brand=gucci", "", nil)
	assert.Len(t, decode(rec), 1)

	rec = env.do(t, http.MethodGet, "/mall/categories/shoes", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/mall/products/dress", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/mall/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
