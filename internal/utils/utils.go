package utils

import (
	"errors"
	"math"
	"strings"

	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrPointsOutOfRange is returned when a weight converts to more points than a balance can hold
var ErrPointsOutOfRange = errors.New("points out of range")

// CalculatePoints converts a verified weight into points, rounded to the nearest integer.
// Results above math.MaxInt32 are refused.
func CalculatePoints(weightKg, perKg float64) (int, error) {
	if weightKg <= 0 || perKg <= 0 {
		return 0, nil
	}
	points := math.Round(weightKg * perKg)
	if math.IsNaN(points) || points > math.MaxInt32 {
		return 0, ErrPointsOutOfRange
	}
	return int(points), nil
}

// ValidCoordinate reports whether lat/lng lie on the WGS84 globe
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ParseObjectID parses a hex id taken from a request, naming the resource on failure
func ParseObjectID(hex, resource string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("invalid " + resource + " id")
	}
	return id, nil
}

// NormalizeEmail lowercases and trims an email address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
