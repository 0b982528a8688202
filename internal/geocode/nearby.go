package geocode

import "iter"

// nearbyOffsets is the probe order used when the exact number has no precise
// match.
var nearbyOffsets = []int{1, -1, 2, -2, 3, -3, 5, -5, 10, -10}

// NearbyNumbers yields house numbers close to n, nearest first, skipping
// values below 1. The sequence is finite and can be ranged over repeatedly.
func NearbyNumbers(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, off := range nearbyOffsets {
			candidate := n + off
			if candidate <= 0 {
				continue
			}
			if !yield(candidate) {
				return
			}
		}
	}
}

// probeNumbers yields n itself followed by NearbyNumbers(n).
func probeNumbers(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if !yield(n) {
			return
		}
		for candidate := range NearbyNumbers(n) {
			if !yield(candidate) {
				return
			}
		}
	}
}
