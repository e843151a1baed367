package utils

import "math"

// DegToRad переводит градусы в радианы.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg переводит радианы в градусы.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDeg приводит угол к диапазону [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
