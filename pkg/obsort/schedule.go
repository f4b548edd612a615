// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package obsort

import (
	"github.com/daviszhen/osort/pkg/util"
)

// MergePair names the two buffers one merge-split touches. A is the
// lower index and keeps the smaller rows of the pair.
type MergePair struct {
	A int
	B int
}

// Sweep groups the merges anchored on one buffer.
type Sweep struct {
	Anchor int
	Pairs  []MergePair
}

// Sweeps returns the fixed merge schedule for n buffers: sweep k
// merges buffer k with each of buffers k+1..n-1 in index order. A
// merge-split leaves the anchor with the smaller rows of the pair, so
// after every merge of sweep k the anchor holds the smallest rows of
// the buffers visited so far; once its sweep ends it holds its full
// share of the smallest rows still in play and is never touched again.
// Buffers settle left to right, for any row counts including zero.
// The pair sequence depends on n alone, never on row contents or the
// selector.
func Sweeps(n int) []Sweep {
	util.AssertFunc(n >= 1)
	var ret []Sweep
	for a := 0; a < n-1; a++ {
		sw := Sweep{Anchor: a}
		for b := a + 1; b < n; b++ {
			sw.Pairs = append(sw.Pairs, MergePair{A: a, B: b})
		}
		ret = append(ret, sw)
	}
	return ret
}

// MergeSchedule flattens Sweeps into the ordered pair sequence the
// orchestrator executes. Two runs with the same n produce the same
// sequence regardless of row contents or selector.
func MergeSchedule(n int) []MergePair {
	var ret []MergePair
	for _, sw := range Sweeps(n) {
		ret = append(ret, sw.Pairs...)
	}
	return ret
}

// arenaCapacity sizes the working arena: the largest combined row
// count of any pair the schedule will merge, or the sole buffer's row
// count when there is nothing to merge. A size-only dry run of the
// schedule, so the allocation stays independent of row contents.
func arenaCapacity(counts []int) int {
	util.AssertFunc(len(counts) >= 1)
	ret := counts[0]
	for _, pr := range MergeSchedule(len(counts)) {
		ret = max(ret, counts[pr.A]+counts[pr.B])
	}
	return ret
}
