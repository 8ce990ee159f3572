package domain

// LatLng es un punto geografico.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Polygon es una zona dibujada por el usuario sobre el mapa.
type Polygon []LatLng

// Valid indica si el poligono tiene al menos tres vertices.
func (p Polygon) Valid() bool {
	return len(p) >= 3
}

// Contains aplica ray casting (regla par-impar) sobre (lng, lat).
// Los puntos exactamente sobre un borde o vertice pueden quedar dentro o fuera.
func (p Polygon) Contains(point LatLng) bool {
	if !p.Valid() {
		return false
	}
	x, y := point.Lng, point.Lat
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		xi, yi := p[i].Lng, p[i].Lat
		xj, yj := p[j].Lng, p[j].Lat
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
