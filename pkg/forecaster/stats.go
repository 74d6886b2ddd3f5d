package forecaster

import "math"

// linearRegression fits y = slope*x + intercept over x = 0..n-1.
// R² is clamped to [0, 1]; a zero-variance series is a perfect trivial
// fit, so it reports R² = 1 instead of dividing by zero.
func linearRegression(y []float64) (slope, intercept, r2 float64) {
	n := float64(len(y))
	if n == 0 {
		return 0, 0, 0
	}

	meanX := (n - 1) / 2
	meanY := mean(y)

	numerator := 0.0
	denominator := 0.0
	for i, v := range y {
		dx := float64(i) - meanX
		numerator += dx * (v - meanY)
		denominator += dx * dx
	}

	if denominator == 0 {
		return 0, meanY, 1
	}

	slope = numerator / denominator
	intercept = meanY - slope*meanX

	ssTotal := 0.0
	ssRes := 0.0
	for i, v := range y {
		predicted := slope*float64(i) + intercept
		ssRes += (v - predicted) * (v - predicted)
		ssTotal += (v - meanY) * (v - meanY)
	}

	if ssTotal == 0 {
		return slope, intercept, 1
	}

	r2 = 1.0 - (ssRes / ssTotal)
	if r2 < 0 {
		r2 = 0
	} else if r2 > 1 {
		r2 = 1
	}

	return slope, intercept, r2
}

// movingAverage returns the trailing mean over the last `window` values,
// or over the whole series when it is shorter than the window.
func movingAverage(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) > window {
		values = values[len(values)-window:]
	}
	return mean(values)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - m
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

// coefficientOfVariation is stddev/mean clamped to [0, 1]. Series too
// short or centered on zero get the neutral default of 0.5.
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0.5
	}
	m := mean(values)
	if m == 0 {
		return 0.5
	}
	return clamp(stdDev(values)/m, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
