package hypotest

import (
	"sort"
)

// rankAverage assigns 1-based ranks; tied values share the mean of their positions
func rankAverage(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// tieSizes returns the size of every group of equal values larger than one
func tieSizes(values []float64) []int {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sizes []int
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[i] {
			j++
		}
		if j > i {
			sizes = append(sizes, j-i+1)
		}
		i = j + 1
	}
	return sizes
}

// tieCorrection is 1 - sum(t^3 - t) / (n^3 - n) over tie groups
func tieCorrection(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 1.0
	}
	var sum float64
	for _, t := range tieSizes(values) {
		ft := float64(t)
		sum += ft*ft*ft - ft
	}
	return 1.0 - sum/(n*n*n-n)
}

// allEqual reports whether every value across the samples is identical
func allEqual(samples ...[]float64) bool {
	first, seen := 0.0, false
	for _, s := range samples {
		for _, v := range s {
			if !seen {
				first, seen = v, true
				continue
			}
			if v != first {
				return false
			}
		}
	}
	return true
}
