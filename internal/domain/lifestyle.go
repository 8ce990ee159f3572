package domain

import (
	"errors"
	"fmt"
	"math"
)

const (
	LifestyleMin     = 1
	LifestyleMax     = 5
	LifestyleDefault = 3

	lifestyleDimensions = 5
	// maxDeviation es la suma de diferencias máximas (4) en las cinco dimensiones.
	maxDeviation = (LifestyleMax - LifestyleMin) * lifestyleDimensions
)

var ErrLifestyleOutOfRange = errors.New("lifestyle attribute out of range")

// AttributeVector describe el perfil de convivencia de una persona en escala 1-5.
type AttributeVector struct {
	Cleanliness    int `json:"cleanliness" yaml:"cleanliness"`
	Noise          int `json:"noise" yaml:"noise"`
	Visitors       int `json:"visitors" yaml:"visitors"`
	StudyIntensity int `json:"study_intensity" yaml:"study_intensity"`
	Partying       int `json:"partying" yaml:"partying"`
}

// DefaultAttributeVector devuelve el vector neutro usado al crear perfiles nuevos.
func DefaultAttributeVector() AttributeVector {
	return AttributeVector{
		Cleanliness:    LifestyleDefault,
		Noise:          LifestyleDefault,
		Visitors:       LifestyleDefault,
		StudyIntensity: LifestyleDefault,
		Partying:       LifestyleDefault,
	}
}

// Values devuelve las dimensiones en orden fijo.
func (v AttributeVector) Values() [lifestyleDimensions]int {
	return [lifestyleDimensions]int{v.Cleanliness, v.Noise, v.Visitors, v.StudyIntensity, v.Partying}
}

// Float32s convierte el vector al formato de la columna vector(5).
func (v AttributeVector) Float32s() []float32 {
	vals := v.Values()
	out := make([]float32, len(vals))
	for i, val := range vals {
		out[i] = float32(val)
	}
	return out
}

// AttributeVectorFromFloat32s reconstruye un vector leido de la base de datos.
// Si faltan dimensiones se completan con el valor por defecto.
func AttributeVectorFromFloat32s(vals []float32) AttributeVector {
	dims := DefaultAttributeVector().Values()
	for i := 0; i < len(vals) && i < lifestyleDimensions; i++ {
		dims[i] = int(math.Round(float64(vals[i])))
	}
	return AttributeVector{
		Cleanliness:    dims[0],
		Noise:          dims[1],
		Visitors:       dims[2],
		StudyIntensity: dims[3],
		Partying:       dims[4],
	}
}

// Validate rechaza vectores con alguna dimension fuera de [1,5].
func (v AttributeVector) Validate() error {
	names := [lifestyleDimensions]string{"cleanliness", "noise", "visitors", "study_intensity", "partying"}
	for i, val := range v.Values() {
		if val < LifestyleMin || val > LifestyleMax {
			return fmt.Errorf("%w: %s=%d", ErrLifestyleOutOfRange, names[i], val)
		}
	}
	return nil
}

// Clamp lleva cada dimension al rango [1,5].
func (v AttributeVector) Clamp() AttributeVector {
	return AttributeVector{
		Cleanliness:    clampLifestyle(v.Cleanliness),
		Noise:          clampLifestyle(v.Noise),
		Visitors:       clampLifestyle(v.Visitors),
		StudyIntensity: clampLifestyle(v.StudyIntensity),
		Partying:       clampLifestyle(v.Partying),
	}
}

// Deviation suma las diferencias absolutas por dimension (0-20).
func (v AttributeVector) Deviation(other AttributeVector) int {
	a, b := v.Clamp().Values(), other.Clamp().Values()
	total := 0
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total
}

// Compatibility calcula la similitud 0-100 entre dos perfiles.
// Todas las dimensiones pesan igual; valores fuera de rango se recortan antes de comparar.
func Compatibility(reference, candidate AttributeVector) int {
	deviation := float64(reference.Deviation(candidate))
	return int(math.Round(100 - deviation/maxDeviation*100))
}

func clampLifestyle(val int) int {
	if val < LifestyleMin {
		return LifestyleMin
	}
	if val > LifestyleMax {
		return LifestyleMax
	}
	return val
}
