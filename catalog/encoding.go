package catalog

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Representation kinds used by the encoded form.
const (
	kindDictionary      = "dictionary"
	kindConstant        = "constant"
	kindRegularConstant = "regular-constant"
	kindRegular         = "regular"
	kindLinearRegular   = "linear-regular"
	kindRowMajor        = "row-major"
	kindGridDictionary  = "grid-dictionary"
)

// encoded is the wire form of a catalog: a plain value object carrying the
// fields of whichever representation produced it.
type encoded struct {
	Kind string `json:"kind"`

	Keys     []int64   `json:"keys,omitempty"`
	GridKeys []GridKey `json:"grid_keys,omitempty"`
	Values   []int64   `json:"values,omitempty"`

	KeyMin    int64 `json:"key_min,omitempty"`
	KeyMax    int64 `json:"key_max,omitempty"`
	KeyStride int64 `json:"key_stride,omitempty"`

	Value       int64 `json:"value,omitempty"`
	ValueMin    int64 `json:"value_min,omitempty"`
	ValueMax    int64 `json:"value_max,omitempty"`
	ValueStride int64 `json:"value_stride,omitempty"`

	InlineMin    int64 `json:"inline_min,omitempty"`
	InlineMax    int64 `json:"inline_max,omitempty"`
	CrosslineMin int64 `json:"crossline_min,omitempty"`
	CrosslineMax int64 `json:"crossline_max,omitempty"`
	Shift        int64 `json:"shift,omitempty"`
}

// Encode serializes a scalar-key catalog. The representation set is closed,
// so any other Catalog implementation is rejected.
func Encode(c Catalog[int64]) ([]byte, error) {
	var e encoded
	switch v := c.(type) {
	case *dictionary:
		e.Kind = kindDictionary
		for k := range v.Keys() {
			val, err := v.Get(k)
			if err != nil {
				return nil, err
			}
			e.Keys = append(e.Keys, k)
			e.Values = append(e.Values, val)
		}
	case *constant:
		e.Kind = kindConstant
		e.Keys = v.keys
		e.Value = v.value
	case *regularConstant:
		e.Kind = kindRegularConstant
		e.KeyMin = v.keyMin
		e.KeyMax = v.keyMax
		e.KeyStride = v.stride
		e.Value = v.value
	case *regular:
		e.Kind = kindRegular
		e.KeyMin = v.keyMin
		e.KeyMax = v.keyMax
		e.KeyStride = v.stride
		e.Values = v.values
	case *linearRegular:
		e.Kind = kindLinearRegular
		e.KeyMin = v.keyMin
		e.KeyMax = v.keyMax
		e.KeyStride = v.stride
		e.ValueMin = v.valueMin
		e.ValueMax = v.valueMax
		e.ValueStride = v.valueStride
	default:
		return nil, fmt.Errorf("catalog: cannot encode representation %T", c)
	}
	return json.Marshal(e)
}

// Decode reconstructs a scalar-key catalog produced by Encode. Each
// representation is rebuilt through its own constructor, so an encoded form
// with inconsistent fields fails here rather than at first use.
func Decode(data []byte) (Catalog[int64], error) {
	var e encoded
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	switch e.Kind {
	case kindDictionary:
		if len(e.Keys) != len(e.Values) {
			return nil, fmt.Errorf("catalog: decode: %d keys but %d values", len(e.Keys), len(e.Values))
		}
		entries := make([]entry, len(e.Keys))
		for i := range e.Keys {
			entries[i] = entry{key: e.Keys[i], value: e.Values[i]}
		}
		return newDictionary(entries), nil
	case kindConstant:
		return NewConstant(e.Keys, e.Value)
	case kindRegularConstant:
		return NewRegularConstant(e.KeyMin, e.KeyMax, e.KeyStride, e.Value)
	case kindRegular:
		return NewRegular(e.KeyMin, e.KeyMax, e.KeyStride, e.Values)
	case kindLinearRegular:
		return NewLinearRegular(e.KeyMin, e.KeyMax, e.KeyStride, e.ValueMin, e.ValueMax, e.ValueStride)
	default:
		return nil, fmt.Errorf("catalog: decode: unknown kind %q", e.Kind)
	}
}

// EncodeGrid serializes a grid-key catalog.
func EncodeGrid(c Catalog[GridKey]) ([]byte, error) {
	var e encoded
	switch v := c.(type) {
	case *gridDictionary:
		e.Kind = kindGridDictionary
		for k := range v.Keys() {
			val, err := v.Get(k)
			if err != nil {
				return nil, err
			}
			e.GridKeys = append(e.GridKeys, k)
			e.Values = append(e.Values, val)
		}
	case *rowMajor:
		e.Kind = kindRowMajor
		e.InlineMin = v.inlineMin
		e.InlineMax = v.inlineMax
		e.CrosslineMin = v.crosslineMin
		e.CrosslineMax = v.crosslineMax
		e.Shift = v.shift
	default:
		return nil, fmt.Errorf("catalog: cannot encode representation %T", c)
	}
	return json.Marshal(e)
}

// DecodeGrid reconstructs a grid-key catalog produced by EncodeGrid.
func DecodeGrid(data []byte) (Catalog[GridKey], error) {
	var e encoded
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	switch e.Kind {
	case kindGridDictionary:
		if len(e.GridKeys) != len(e.Values) {
			return nil, fmt.Errorf("catalog: decode: %d keys but %d values", len(e.GridKeys), len(e.Values))
		}
		entries := make([]gridEntry, len(e.GridKeys))
		for i := range e.GridKeys {
			entries[i] = gridEntry{key: e.GridKeys[i], value: e.Values[i]}
		}
		return newGridDictionary(entries), nil
	case kindRowMajor:
		return NewRowMajor(e.InlineMin, e.InlineMax, e.CrosslineMin, e.CrosslineMax, e.Shift)
	default:
		return nil, fmt.Errorf("catalog: decode: unknown kind %q", e.Kind)
	}
}
