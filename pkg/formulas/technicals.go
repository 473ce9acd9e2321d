package formulas

// Momentum calculates the percentage price change over the trailing N days.
// Returns nil when the series is too short or the reference price is zero.
func Momentum(closes []float64, days int) *float64 {
	if len(closes) < days+1 {
		return nil
	}

	current := closes[len(closes)-1]
	past := closes[len(closes)-1-days]
	if past <= 0 {
		return nil
	}

	m := (current - past) / past * 100
	return &m
}

// RollingLow returns the minimum of the last window values. Used as a crude
// support level. Returns nil with insufficient history.
func RollingLow(values []float64, window int) *float64 {
	if len(values) < window {
		return nil
	}

	low := values[len(values)-window]
	for _, v := range values[len(values)-window:] {
		if v < low {
			low = v
		}
	}
	return &low
}

// RollingHigh returns the maximum of the last window values. Used as a crude
// resistance level. Returns nil with insufficient history.
func RollingHigh(values []float64, window int) *float64 {
	if len(values) < window {
		return nil
	}

	high := values[len(values)-window]
	for _, v := range values[len(values)-window:] {
		if v > high {
			high = v
		}
	}
	return &high
}

// VolumeRatio compares the latest volume against the trailing window average.
// Returns nil when there is no usable history.
func VolumeRatio(volumes []float64, window int) *float64 {
	if len(volumes) < window+1 {
		return nil
	}

	avg := Mean(volumes[len(volumes)-window-1 : len(volumes)-1])
	if avg <= 0 {
		return nil
	}

	ratio := volumes[len(volumes)-1] / avg
	return &ratio
}
