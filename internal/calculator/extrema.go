package calculator

// DetectPeaks returns the ascending indices of local maxima whose topographic
// prominence is at least minProminence.
//
// A candidate is a point, or the leftmost point of a flat plateau, that is
// strictly higher than the value before it and than the first differing value
// after it. The first and last points are never candidates.
func DetectPeaks(values []float64, minProminence float64) []int {
	n := len(values)
	if n < 3 {
		return nil
	}

	var peaks []int
	i := 1
	for i < n-1 {
		if values[i-1] < values[i] {
			ahead := i + 1
			for ahead < n-1 && values[ahead] == values[i] {
				ahead++
			}
			if values[ahead] < values[i] {
				if prominence(values, i) >= minProminence {
					peaks = append(peaks, i)
				}
				i = ahead
				continue
			}
		}
		i++
	}
	return peaks
}

// DetectTroughs returns the ascending indices of local minima whose
// prominence is at least minProminence, found as peaks of the negated values.
func DetectTroughs(values []float64, minProminence float64) []int {
	negated := make([]float64, len(values))
	for i, v := range values {
		negated[i] = -v
	}
	return DetectPeaks(negated, minProminence)
}

// prominence is the height of values[peak] above the higher of the two lowest
// points reached before the series climbs above the peak on either side.
func prominence(values []float64, peak int) float64 {
	height := values[peak]

	leftMin := height
	for i := peak; i >= 0 && values[i] <= height; i-- {
		if values[i] < leftMin {
			leftMin = values[i]
		}
	}

	rightMin := height
	for i := peak; i < len(values) && values[i] <= height; i++ {
		if values[i] < rightMin {
			rightMin = values[i]
		}
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return height - base
}

func pick(values []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}
