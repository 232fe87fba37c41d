package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Variation is a color or size option on a product. Catalog records store
// either a bare name (always in stock) or a {name, inStock} pair.
type Variation interface {
	Name() string
	InStock() bool
}

// NamedVariation is a bare variant name; it is implicitly in stock.
type NamedVariation string

func (v NamedVariation) Name() string { return string(v) }
func (v NamedVariation) InStock() bool { return true }

// StockedVariation carries an explicit stock flag.
type StockedVariation struct {
	VariantName string `json:"name"`
	Stocked     bool   `json:"inStock"`
}

func (v StockedVariation) Name() string  { return v.VariantName }
func (v StockedVariation) InStock() bool { return v.Stocked }

// Variations is the JSON-backed list stored in product records.
type Variations []Variation

// Find returns the variation with the given name.
func (vs Variations) Find(name string) (Variation, bool) {
	for _, v := range vs {
		if v != nil && v.Name() == name {
			return v, true
		}
	}
	return nil, false
}

// FirstInStock returns the name of the first in-stock variation, or "".
func (vs Variations) FirstInStock() string {
	for _, v := range vs {
		if v != nil && v.InStock() {
			return v.Name()
		}
	}
	return ""
}

// Names lists the variation names in order.
func (vs Variations) Names() []string {
	names := make([]string, 0, len(vs))
	for _, v := range vs {
		if v != nil {
			names = append(names, v.Name())
		}
	}
	return names
}

func (vs Variations) MarshalJSON() ([]byte, error) {
	if vs == nil {
		return []byte("[]"), nil
	}
	items := make([]any, 0, len(vs))
	for _, v := range vs {
		switch typed := v.(type) {
		case NamedVariation:
			items = append(items, string(typed))
		case StockedVariation:
			items = append(items, typed)
		case nil:
			continue
		default:
			items = append(items, StockedVariation{VariantName: typed.Name(), Stocked: typed.InStock()})
		}
	}
	return json.Marshal(items)
}

func (vs *Variations) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*vs = Variations{}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("variations: %w", err)
	}
	out := make(Variations, 0, len(raw))
	for i, item := range raw {
		v, err := decodeVariation(item)
		if err != nil {
			return fmt.Errorf("variations[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	*vs = out
	return nil
}

func decodeVariation(item json.RawMessage) (Variation, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 {
		return nil, errors.New("empty value")
	}
	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return nil, err
		}
		return NamedVariation(name), nil
	case '{':
		var stocked StockedVariation
		if err := json.Unmarshal(trimmed, &stocked); err != nil {
			return nil, err
		}
		if strings.TrimSpace(stocked.VariantName) == "" {
			return nil, errors.New("name is required")
		}
		return stocked, nil
	}
	return nil, fmt.Errorf("unsupported variation %s", string(trimmed))
}

// Scan implements sql.Scanner for JSON columns.
func (vs *Variations) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*vs = Variations{}
		return nil
	case string:
		return vs.UnmarshalJSON([]byte(v))
	case []byte:
		return vs.UnmarshalJSON(v)
	default:
		return fmt.Errorf("Variations: unsupported Scan type %T", src)
	}
}

// Value implements driver.Valuer.
func (vs Variations) Value() (driver.Value, error) {
	data, err := vs.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
