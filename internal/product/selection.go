package product

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// VariantSelection maps a variant axis name to the chosen option,
// e.g. {"Cor": "Preto", "Tamanho": "M"}.
type VariantSelection map[string]string

// Signature returns a canonical identity string for the selection.
// Two selections with the same key/value pairs always produce the same
// signature regardless of insertion order: keys are sorted before
// serializing. A direct map serialization must never be used as an
// identity here, it is order-dependent and silently splits what should
// be one cart line into duplicates.
//
// The empty selection has the well-defined signature "" ("no variants");
// no non-empty selection can collide with it because every pair emits
// at least the "=" separator.
func (s VariantSelection) Signature() string {
	if len(s) == 0 {
		return ""
	}

	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(s[k]))
	}
	return b.String()
}

// Equal reports whether two selections contain the same pairs.
func (s VariantSelection) Equal(other VariantSelection) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Value stores the selection as JSONB.
func (s VariantSelection) Value() (driver.Value, error) {
	if s == nil {
		s = VariantSelection{}
	}
	return json.Marshal(s)
}

// Scan loads the selection from a JSONB column.
func (s *VariantSelection) Scan(src any) error {
	if src == nil {
		*s = VariantSelection{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported variant selection source: %T", src)
	}

	return json.Unmarshal(data, s)
}
