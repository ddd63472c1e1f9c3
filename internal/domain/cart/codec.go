// internal/domain/cart/codec.go
package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
)

var ErrMalformedRecord = errors.New("cart: malformed persisted record")

// Encode serializes lines (never the derived totals) as a JSON array.
func Encode(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a persisted record.
//
// A value that is not JSON or not an array returns ErrMalformedRecord.
// Entries that break a line invariant are dropped without error, and
// duplicate keys are merged.
func Decode(raw string) ([]Line, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var entries []json.RawMessage
	if err := dec.Decode(&entries); err != nil {
		return nil, errors.Join(ErrMalformedRecord, err)
	}
	if entries == nil {
		// literal null
		return nil, ErrMalformedRecord
	}
	// anything after the array makes the whole record unparseable
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrMalformedRecord
	}

	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		if l, ok := decodeEntry(e); ok {
			lines = append(lines, l)
		}
	}
	return mergeLines(lines), nil
}

func decodeEntry(raw json.RawMessage) (Line, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return Line{}, false
	}

	id, ok1 := nonEmptyString(m["id"])
	name, ok2 := nonEmptyString(m["name"])
	size, ok3 := nonEmptyString(m["size"])
	color, ok4 := nonEmptyString(m["color"])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Line{}, false
	}

	price, ok := asNumber(m["price"])
	if !ok || price < 0 {
		return Line{}, false
	}

	qty, ok := asInteger(m["quantity"])
	if !ok || qty < 1 || qty > MaxQuantity {
		return Line{}, false
	}

	img, _ := m["image"].(string)

	return Line{
		ProductID: id,
		Name:      name,
		UnitPrice: price,
		Quantity:  qty,
		ImageRef:  strings.TrimSpace(img),
		Size:      size,
		Color:     color,
	}, true
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func asNumber(v any) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asInteger(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	// 3.0 is an integer; 2.5 is not
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
