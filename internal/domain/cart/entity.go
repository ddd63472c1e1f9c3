// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLine = errors.New("cart: invalid line")
	ErrInvalidKey  = errors.New("cart: invalid line key")
)

const (
	// MaxQuantity is the upper bound of a single line's quantity.
	MaxQuantity = 10

	// StorageKey is the fixed key a cart record is persisted under.
	// Session scoped stores append ":<sessionId>".
	StorageKey = "kenzo_cart"

	// DefaultCartTTL is the inactivity window after which a persisted cart may expire.
	DefaultCartTTL = 7 * 24 * time.Hour
)

// Line is one distinct purchasable selection in the cart.
// JSON names follow the persisted storefront record.
type Line struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"image"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

// LineKey is the merge key of a line.
type LineKey struct {
	ProductID string `json:"id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func NewLineKey(productID, size, color string) LineKey {
	return LineKey{
		ProductID: strings.TrimSpace(productID),
		Size:      strings.TrimSpace(size),
		Color:     strings.TrimSpace(color),
	}
}

func (k LineKey) Valid() bool {
	return k.ProductID != "" && k.Size != "" && k.Color != ""
}

func (l Line) Key() LineKey {
	return NewLineKey(l.ProductID, l.Size, l.Color)
}

// Valid reports whether l satisfies every line invariant, including the quantity bound.
func (l Line) Valid() bool {
	return l.validCandidate() && l.Quantity >= 1 && l.Quantity <= MaxQuantity
}

// validCandidate checks everything except quantity (AddLine ignores the candidate's quantity).
func (l Line) validCandidate() bool {
	if !l.Key().Valid() {
		return false
	}
	if strings.TrimSpace(l.Name) == "" {
		return false
	}
	if math.IsNaN(l.UnitPrice) || math.IsInf(l.UnitPrice, 0) || l.UnitPrice < 0 {
		return false
	}
	return true
}

func normalizeLine(l Line) Line {
	l.ProductID = strings.TrimSpace(l.ProductID)
	l.Name = strings.TrimSpace(l.Name)
	l.ImageRef = strings.TrimSpace(l.ImageRef)
	l.Size = strings.TrimSpace(l.Size)
	l.Color = strings.TrimSpace(l.Color)
	return l
}

// Snapshot is the ordered line collection plus its derived aggregates.
// Total and ItemCount are always recomputed from Lines.
type Snapshot struct {
	Lines     []Line  `json:"items"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// Summarize folds lines into a Snapshot.
// Money is summed in decimal so the total matches the lines exactly.
func Summarize(lines []Line) Snapshot {
	out := Snapshot{Lines: cloneLines(lines)}

	total := decimal.Zero
	for _, l := range out.Lines {
		total = total.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
		out.ItemCount += l.Quantity
	}
	out.Total = total.InexactFloat64()
	return out
}

// Cart is the in-memory line collection. It is not safe for concurrent use;
// the owning store serializes access.
//
// Every mutator returns whether the collection changed. A rejected
// mutation leaves the cart unchanged.
type Cart struct {
	lines []Line
}

// FromLines builds a cart from already persisted lines.
// Invalid lines are dropped and duplicate keys are merged (clamped to MaxQuantity).
func FromLines(lines []Line) *Cart {
	return &Cart{lines: mergeLines(lines)}
}

func (c *Cart) Lines() []Line {
	if c == nil {
		return []Line{}
	}
	return cloneLines(c.lines)
}

func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.lines)
}

func (c *Cart) Snapshot() Snapshot {
	if c == nil {
		return Summarize(nil)
	}
	return Summarize(c.lines)
}

// Add merges candidate into the cart.
//   - existing key: quantity becomes min(q+1, MaxQuantity)
//   - new key: inserted with quantity 1, whatever the candidate carried
func (c *Cart) Add(candidate Line) (bool, error) {
	if c == nil {
		return false, ErrInvalidLine
	}
	cand := normalizeLine(candidate)
	if !cand.validCandidate() {
		return false, ErrInvalidLine
	}

	idx := c.indexOf(cand.Key())
	if idx >= 0 {
		if c.lines[idx].Quantity >= MaxQuantity {
			return false, nil
		}
		c.lines[idx].Quantity++
		return true, nil
	}

	cand.Quantity = 1
	c.lines = append(c.lines, cand)
	return true, nil
}

// Remove deletes the line with key k. Missing key is a no-op.
func (c *Cart) Remove(k LineKey) bool {
	if c == nil {
		return false
	}
	idx := c.indexOf(NewLineKey(k.ProductID, k.Size, k.Color))
	if idx < 0 {
		return false
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return true
}

// RemoveProduct deletes every variant of productID.
func (c *Cart) RemoveProduct(productID string) bool {
	if c == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return false
	}

	kept := c.lines[:0]
	removed := false
	for _, l := range c.lines {
		if l.ProductID == pid {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	c.lines = kept
	return removed
}

// SetQuantity sets the quantity of line k.
// q outside [1, MaxQuantity] is rejected without clamping or deleting.
func (c *Cart) SetQuantity(k LineKey, q int) (bool, error) {
	if c == nil {
		return false, ErrInvalidKey
	}
	if q < 1 || q > MaxQuantity {
		return false, ErrInvalidLine
	}
	idx := c.indexOf(NewLineKey(k.ProductID, k.Size, k.Color))
	if idx < 0 {
		return false, nil
	}
	if c.lines[idx].Quantity == q {
		return false, nil
	}
	c.lines[idx].Quantity = q
	return true, nil
}

func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.lines = []Line{}
}

// Contains reports whether any variant of productID is in the cart.
func (c *Cart) Contains(productID string) bool {
	if c == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	for _, l := range c.lines {
		if l.ProductID == pid {
			return true
		}
	}
	return false
}

func (c *Cart) ContainsLine(k LineKey) bool {
	if c == nil {
		return false
	}
	return c.indexOf(NewLineKey(k.ProductID, k.Size, k.Color)) >= 0
}

// ----------------------------
// Helpers
// ----------------------------

func (c *Cart) indexOf(k LineKey) int {
	for i := range c.lines {
		if c.lines[i].Key() == k {
			return i
		}
	}
	return -1
}

// mergeLines keeps first-seen order and folds duplicate keys.
func mergeLines(src []Line) []Line {
	out := make([]Line, 0, len(src))
	pos := make(map[LineKey]int, len(src))

	for _, raw := range src {
		l := normalizeLine(raw)
		if !l.Valid() {
			continue
		}
		k := l.Key()
		if i, ok := pos[k]; ok {
			q := out[i].Quantity + l.Quantity
			if q > MaxQuantity {
				q = MaxQuantity
			}
			out[i].Quantity = q
			continue
		}
		pos[k] = len(out)
		out = append(out, l)
	}
	return out
}

func cloneLines(src []Line) []Line {
	if len(src) == 0 {
		return []Line{}
	}
	cp := make([]Line, len(src))
	copy(cp, src)
	return cp
}
