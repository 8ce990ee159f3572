package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allVectors() []AttributeVector {
	// Muestreo de todo el dominio con paso 2 en cada dimension (3^5 vectores).
	steps := []int{1, 3, 5}
	var out []AttributeVector
	for _, c := range steps {
		for _, n := range steps {
			for _, v := range steps {
				for _, s := range steps {
					for _, p := range steps {
						out = append(out, AttributeVector{c, n, v, s, p})
					}
				}
			}
		}
	}
	return out
}

func TestCompatibility_ConcreteVectors(t *testing.T) {
	cases := []struct {
		name      string
		reference AttributeVector
		candidate AttributeVector
		want      int
	}{
		{"half deviation", AttributeVector{3, 3, 3, 3, 3}, AttributeVector{5, 1, 5, 1, 5}, 50},
		{"identical", AttributeVector{2, 2, 2, 2, 2}, AttributeVector{2, 2, 2, 2, 2}, 100},
		{"opposite", AttributeVector{1, 1, 1, 1, 1}, AttributeVector{5, 5, 5, 5, 5}, 0},
		{"one step", AttributeVector{4, 2, 5, 2, 1}, AttributeVector{4, 2, 5, 2, 2}, 95},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compatibility(tc.reference, tc.candidate))
		})
	}
}

func TestCompatibility_Properties(t *testing.T) {
	vectors := allVectors()
	for _, a := range vectors {
		require.Equal(t, 100, Compatibility(a, a), "self similarity for %+v", a)
		for _, b := range vectors {
			ab := Compatibility(a, b)
			require.Equal(t, ab, Compatibility(b, a), "symmetry for %+v %+v", a, b)
			require.GreaterOrEqual(t, ab, 0)
			require.LessOrEqual(t, ab, 100)
		}
	}
}

func TestCompatibility_ClampsOutOfRange(t *testing.T) {
	ref := AttributeVector{0, 9, 3, 3, 3}
	clamped := AttributeVector{1, 5, 3, 3, 3}
	assert.Equal(t, Compatibility(clamped, clamped), Compatibility(ref, clamped))
	assert.Equal(t, 100, Compatibility(ref, clamped))
}

func TestAttributeVectorValidate(t *testing.T) {
	assert.NoError(t, DefaultAttributeVector().Validate())

	err := AttributeVector{3, 3, 6, 3, 3}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLifestyleOutOfRange))
	assert.Contains(t, err.Error(), "visitors=6")
}

func TestAttributeVectorFloat32RoundTrip(t *testing.T) {
	v := AttributeVector{4, 2, 5, 2, 1}
	assert.Equal(t, v, AttributeVectorFromFloat32s(v.Float32s()))

	partial := AttributeVectorFromFloat32s([]float32{5, 1})
	assert.Equal(t, AttributeVector{5, 1, 3, 3, 3}, partial)
}
