package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantSelection_Signature_OrderIndependent(t *testing.T) {
	// Same pairs, built in different insertion orders.
	s1 := VariantSelection{}
	s1["Cor"] = "Preto"
	s1["Tamanho"] = "M"
	s1["Material"] = "Algodão"

	s2 := VariantSelection{}
	s2["Material"] = "Algodão"
	s2["Tamanho"] = "M"
	s2["Cor"] = "Preto"

	assert.Equal(t, s1.Signature(), s2.Signature())
}

func TestVariantSelection_Signature_DistinguishesContent(t *testing.T) {
	base := VariantSelection{"Cor": "Preto", "Tamanho": "M"}

	tests := []struct {
		name  string
		other VariantSelection
	}{
		{"different value", VariantSelection{"Cor": "Branco", "Tamanho": "M"}},
		{"different key", VariantSelection{"Cor": "Preto", "Modelo": "M"}},
		{"missing pair", VariantSelection{"Cor": "Preto"}},
		{"extra pair", VariantSelection{"Cor": "Preto", "Tamanho": "M", "Material": "Lã"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base.Signature(), tt.other.Signature())
		})
	}
}

func TestVariantSelection_Signature_Empty(t *testing.T) {
	assert.Equal(t, "", VariantSelection{}.Signature())
	assert.Equal(t, "", VariantSelection(nil).Signature())

	// A selection with empty key and value still cannot collide with
	// the no-variants signature.
	assert.NotEqual(t, "", VariantSelection{"": ""}.Signature())
}

func TestVariantSelection_Signature_EscapesSeparators(t *testing.T) {
	// Values containing the separator characters must not produce
	// ambiguous signatures.
	s1 := VariantSelection{"a": "b&c=d"}
	s2 := VariantSelection{"a": "b", "c": "d"}

	assert.NotEqual(t, s1.Signature(), s2.Signature())
}

func TestVariantSelection_Equal(t *testing.T) {
	a := VariantSelection{"Cor": "Preto"}
	b := VariantSelection{"Cor": "Preto"}
	c := VariantSelection{"Cor": "Branco"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(VariantSelection{}))
	assert.True(t, VariantSelection{}.Equal(VariantSelection(nil)))
}

func TestVariantSelection_ScanValue(t *testing.T) {
	s := VariantSelection{"Cor": "Preto", "Tamanho": "M"}

	v, err := s.Value()
	assert.NoError(t, err)

	var out VariantSelection
	assert.NoError(t, out.Scan(v))
	assert.True(t, s.Equal(out))

	var fromNil VariantSelection
	assert.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)
}
