package domain

// Immutable geographic coordinates.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lat, lng] for map polylines.
func (c Coordinates) LatLng() [2]float64 { return [2]float64{c.Lat, c.Lng} }
