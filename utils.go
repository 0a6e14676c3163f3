package tetracull

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ToRadians is a helper function to easily convert degrees to radians.
func ToRadians(degrees float64) float64 {
	return math.Pi * degrees / 180
}

// ToDegrees is a helper function to easily convert radians to degrees for human readability.
func ToDegrees(radians float64) float64 {
	return radians / math.Pi * 180
}

func clamp[V float64 | float32 | int](value, min, max V) V {
	if value < min {
		return min
	} else if value > max {
		return max
	}
	return value
}

// nonNegative maps negative values and NaN to 0.
func nonNegative(value float64) float64 {
	if !(value >= 0) {
		return 0
	}
	return value
}

func finiteVec(vec mgl64.Vec3) bool {
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// sign returns 1 for non-negative values and -1 otherwise; a zero normal component still picks a box corner.
func sign(value float64) float64 {
	if value < 0 {
		return -1
	}
	return 1
}
