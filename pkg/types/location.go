package types

import "github.com/paulmach/orb"

// Location is a WGS84 coordinate pair stored alongside a store record.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts the location into an orb point (lng, lat order).
func (l Location) Point() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// IsZero reports whether the location was never set.
func (l Location) IsZero() bool {
	return l.Lat == 0 && l.Lng == 0
}
