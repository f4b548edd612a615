package obsort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_sweeps(t *testing.T) {
	type args struct {
		n      int
		wanted []MergePair
	}
	tests := []args{
		{
			n:      1,
			wanted: nil,
		},
		{
			n: 2,
			wanted: []MergePair{
				{0, 1},
			},
		},
		{
			n: 4,
			//sweep 0 settles buffer 0, then sweep 1, then sweep 2
			wanted: []MergePair{
				{0, 1}, {0, 2}, {0, 3},
				{1, 2}, {1, 3},
				{2, 3},
			},
		},
		{
			n: 5,
			wanted: []MergePair{
				{0, 1}, {0, 2}, {0, 3}, {0, 4},
				{1, 2}, {1, 3}, {1, 4},
				{2, 3}, {2, 4},
				{3, 4},
			},
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wanted, MergeSchedule(tt.n), "n=%d", tt.n)
	}
}

// Every sweep visits each later buffer exactly once, and an anchor is
// never touched again once its sweep has run.
func Test_sweeps_coverage(t *testing.T) {
	for n := 1; n <= 64; n++ {
		seen := make(map[MergePair]int)
		doneBelow := 0
		for _, sw := range Sweeps(n) {
			require.Equal(t, doneBelow, sw.Anchor, "n=%d", n)
			for _, pr := range sw.Pairs {
				require.Equal(t, sw.Anchor, pr.A, "n=%d", n)
				require.Less(t, pr.A, pr.B, "n=%d", n)
				require.Less(t, pr.B, n, "n=%d", n)
				seen[pr]++
			}
			doneBelow++
		}
		require.Len(t, seen, n*(n-1)/2, "n=%d", n)
		for pr, cnt := range seen {
			require.Equal(t, 1, cnt, "n=%d pair=%v", n, pr)
		}
	}
}

func Test_sweeps_deterministic(t *testing.T) {
	for n := 1; n <= 32; n++ {
		first := MergeSchedule(n)
		for i := 0; i < 3; i++ {
			require.Equal(t, first, MergeSchedule(n))
		}
	}
}

func Test_arenaCapacity(t *testing.T) {
	type args struct {
		counts []int
		wanted int
	}
	tests := []args{
		{
			counts: []int{7},
			wanted: 7,
		},
		{
			counts: []int{2, 2, 2, 2},
			wanted: 4,
		},
		{
			counts: []int{2, 2, 1},
			wanted: 4,
		},
		{
			counts: []int{1, 10, 1},
			wanted: 11,
		},
		{
			counts: []int{1, 6, 3, 0, 4},
			wanted: 10,
		},
		{
			counts: []int{0, 0, 0},
			wanted: 0,
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wanted, arenaCapacity(tt.counts), "counts=%v", tt.counts)
	}
}
