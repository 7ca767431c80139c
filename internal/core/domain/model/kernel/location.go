package kernel

import (
	"errors"
	"fmt"
	"math"

	"shopdispatch/internal/pkg/errs"
	"shopdispatch/internal/pkg/guard"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is a WGS84 point: the admin's shop, a customer's doorstep or a rider's
// last reported position.
//
// Example:
//
//	loc, err := kernel.NewLocation(12.9716, 77.5946)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(loc) // Location(12.971600,77.594600)
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewLocation validates both axes and returns every violation joined together.
func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate rejects a zero-value Location.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude in degrees.
func (l Location) Lng() float64 {
	return l.lng
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.lat, l.lng)
}

// IsEqual compares two constructed locations.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

// DistanceKm returns the great-circle distance between two locations.
func (l Location) DistanceKm(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(other.lat - l.lat)
	dLng := toRad(other.lng - l.lng)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(l.lat))*math.Cos(toRad(other.lat))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a)), nil
}

func (l *Location) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, MinLongitude, MaxLongitude)
	}

	l.lng = lng
	return nil
}
