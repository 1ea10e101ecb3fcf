package samples

import "math"

// Welford keeps a running mean and variance in O(1) per observation.
//
// The zero value is ready to use.
type Welford struct {
	n    int
	mean float64
	m2   float64
}

// Add folds x into the running statistics.
func (w *Welford) Add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// Count returns the number of observations.
func (w *Welford) Count() int {
	return w.n
}

// Mean returns the running mean, 0 with no observations.
func (w *Welford) Mean() float64 {
	return w.mean
}

// Variance returns the sample variance (n-1 denominator).
// Returns 0 with fewer than two observations.
func (w *Welford) Variance() float64 {
	if w.n < 2 {
		return 0
	}
	return w.m2 / float64(w.n-1)
}

// StdDev returns the sample standard deviation.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.Variance())
}

// RSD returns the relative standard deviation, StdDev / |Mean|.
// Returns +Inf when the mean is zero and the spread is not.
func (w *Welford) RSD() float64 {
	sd := w.StdDev()
	if sd == 0 {
		return 0
	}
	if w.mean == 0 {
		return math.Inf(1)
	}
	return sd / math.Abs(w.mean)
}

// Reset clears all observations.
func (w *Welford) Reset() {
	*w = Welford{}
}
