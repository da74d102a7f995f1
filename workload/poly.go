package workload

import "math"

// Taylor coefficients of sin up to x^9. Truncation error on [-π/2, π/2] is
// below 4e-6.
const (
	polyC3 = -1.0 / 6
	polyC5 = 1.0 / 120
	polyC7 = -1.0 / 5040
	polyC9 = 1.0 / 362880
)

// sinfPoly approximates sin(x) in float32 arithmetic.
func sinfPoly(x float32) float32 {
	const (
		pi     = float32(math.Pi)
		halfPi = float32(math.Pi / 2)
		twoPi  = float32(2 * math.Pi)
	)

	// reduce to [-π, π]
	x -= twoPi * float32(math.Round(float64(x/twoPi)))

	// fold into [-π/2, π/2]
	switch {
	case x > halfPi:
		x = pi - x
	case x < -halfPi:
		x = -pi - x
	}

	x2 := x * x

	return x * (1 + x2*(polyC3+x2*(polyC5+x2*(polyC7+x2*polyC9))))
}
