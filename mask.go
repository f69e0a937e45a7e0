package geodesic

// Mask selects the quantities computed by Inverse, Direct and Line
// positions. Values are or'ed together. The bit values match
// GeographicLib's, so masks may be persisted or exchanged with other
// implementations.
type Mask uint32

// Internal capability bits. Each output bit carries the series it needs.
const (
	capNone Mask = 0
	capC1   Mask = 1 << 0
	capC1p  Mask = 1 << 1
	capC2   Mask = 1 << 2
	capC3   Mask = 1 << 3
	capC4   Mask = 1 << 4
	capAll  Mask = 0x1F
	outAll  Mask = 0x7F80
	outMask Mask = 0xFF80 // outAll plus LongUnroll
)

const (
	// Empty requests nothing beyond the arc length.
	Empty Mask = 0
	// Latitude of point 2.
	Latitude = 1<<7 | capNone
	// Longitude of point 2.
	Longitude = 1<<8 | capC3
	// Azimuth at both points.
	Azimuth = 1<<9 | capNone
	// Distance between the points.
	Distance = 1<<10 | capC1
	// Standard is the default set of outputs.
	Standard = Latitude | Longitude | Azimuth | Distance
	// DistanceIn allows a Line to be positioned by distance rather than
	// by arc length.
	DistanceIn = 1<<11 | capC1 | capC1p
	// ReducedLength m12.
	ReducedLength = 1<<12 | capC1 | capC2
	// GeodesicScale M12 and M21.
	GeodesicScale = 1<<13 | capC1 | capC2
	// Area S12 between the geodesic and the equator.
	Area = 1<<14 | capC4
	// LongUnroll keeps longitudes unreduced so that lon2 - lon1 tells
	// how often and in what sense the geodesic circles the ellipsoid.
	LongUnroll Mask = 1 << 15
	// All outputs except LongUnroll.
	All = outAll | capAll
)

// Has reports whether every output bit of o is set in m.
func (m Mask) Has(o Mask) bool {
	o &= outMask
	return m&o == o
}
