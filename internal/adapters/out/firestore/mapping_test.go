package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdom "fisha/internal/domain/order"
	productdom "fisha/internal/domain/product"
)

func TestProductFromData_Lenient(t *testing.T) {
	p := productFromData("p1", map[string]any{
		"name":           "  Linen Shirt ",
		"price":          "450.5",
		"images":         []any{"https://img/1.jpg", "", 7},
		"sizes":          []any{"S", "M"},
		"category":       "t-shirts",
		"menSubcategory": nil,
		"stock":          int64(4),
		"createdAt":      "2024-03-01T10:00:00Z",
	})

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Linen Shirt", p.Name)
	assert.Equal(t, 450.5, p.Price)
	assert.Equal(t, []string{"https://img/1.jpg", "7"}, p.Images)
	assert.Equal(t, productdom.Category("t-shirts"), p.Category)
	assert.Empty(t, p.Subcategory)
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 4, p.Available, "available falls back to stock")
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), p.CreatedAt)
	assert.Equal(t, []string{}, p.Colors)
}

func TestProductFromData_AvailableWins(t *testing.T) {
	p := productFromData("p1", map[string]any{"stock": int64(9), "available": int64(0)})
	assert.Equal(t, 0, p.Available)
}

func TestProductToData_WritesEmptyFields(t *testing.T) {
	m := productToData(productdom.Product{Name: "Cap", Category: productdom.CategoryOthers})
	assert.Equal(t, "", m["menSubcategory"])
	assert.Equal(t, []string{}, m["images"])
	assert.Contains(t, m, "status")

	back := productFromData("x", map[string]any{
		"name":     m["name"],
		"category": m["category"],
		"stock":    m["stock"],
	})
	assert.Equal(t, productdom.CategoryOthers, back.Category)
}

func TestOrderFromData(t *testing.T) {
	date := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	o := orderFromData("o1", map[string]any{
		"name":        "Mona",
		"address":     "12 Nile St",
		"phone":       "0100000000",
		"subtotal":    float64(900),
		"deliveryFee": int64(120),
		"total":       float64(1020),
		"status":      "Processing",
		"date":        date,
		"items": []any{
			map[string]any{"id": " p1 ", "name": "Loafer", "price": 450.0, "quantity": int64(2), "size": "42", "color": "black"},
			"garbage",
		},
	})

	require.Len(t, o.Items, 1)
	assert.Equal(t, "p1", o.Items[0].ID)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, orderdom.StatusProcessing, o.Status)
	assert.Equal(t, 120.0, o.DeliveryFee)
	assert.Equal(t, date, o.Date)
}

func TestOrderFromData_LegacyTotals(t *testing.T) {
	o := orderFromData("o2", map[string]any{
		"total":  float64(620),
		"status": "bogus",
		"date":   "2023-12-31T23:59:59Z",
	})
	assert.Equal(t, orderdom.StatusPending, o.Status)
	assert.Equal(t, 500.0, o.Subtotal)
	assert.Equal(t, float64(orderdom.DeliveryFee), o.DeliveryFee)
	assert.Equal(t, 2023, o.Date.Year())
	assert.NotNil(t, o.Items)
}

func TestOrderToData_RoundTrip(t *testing.T) {
	o := orderdom.Order{
		ID: "o3", Name: "Ali", Address: "1 Road", Phone: "0111",
		Items:    []orderdom.Item{{ID: "p1", Name: "Tee", Price: 200, Quantity: 3, Size: "M", Color: "white"}},
		Subtotal: 600, DeliveryFee: 120, Total: 720,
		Status: orderdom.StatusCompleted,
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	m := orderToData(o)

	// Firestore hands nested arrays back as []any of map[string]any
	raw := m["items"].([]map[string]any)
	items := make([]any, 0, len(raw))
	for _, it := range raw {
		items = append(items, it)
	}
	m["items"] = items

	assert.Equal(t, o, orderFromData("o3", m))
}

func TestOrderToData_DateIsSortableISOString(t *testing.T) {
	older := orderToData(orderdom.Order{Date: time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)})
	newer := orderToData(orderdom.Order{Date: time.Date(2024, 1, 1, 2, 0, 0, 123456789, time.FixedZone("EET", 2*3600))})

	assert.Equal(t, "2023-12-31T23:59:59.000Z", older["date"])
	assert.Equal(t, "2024-01-01T00:00:00.123Z", newer["date"])
	assert.Less(t, older["date"].(string), newer["date"].(string))

	back := orderFromData("o", map[string]any{"date": newer["date"]})
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 123000000, time.UTC), back.Date)
}
