package geocode

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearbyNumbers(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int
	}{
		{name: "middle of street", n: 575, want: []int{576, 574, 577, 573, 578, 572, 580, 570, 585, 565}},
		{name: "low number drops non-positive", n: 3, want: []int{4, 2, 5, 1, 6, 8, 13}},
		{name: "one", n: 1, want: []int{2, 3, 4, 6, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slices.Collect(NearbyNumbers(tt.n)))
		})
	}
}

func TestNearbyNumbersIsRestartable(t *testing.T) {
	seq := NearbyNumbers(10)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 9)
}

func TestNearbyNumbersStopsEarly(t *testing.T) {
	var got []int
	for n := range NearbyNumbers(100) {
		got = append(got, n)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []int{101, 99, 102}, got)
}

func TestProbeNumbersStartsWithRequested(t *testing.T) {
	got := slices.Collect(probeNumbers(2))
	assert.Equal(t, []int{2, 3, 1, 4, 5, 7, 12}, got)
}
