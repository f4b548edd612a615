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
	"fmt"

	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/util"
)

const (
	faultMergeStarveOutput = "mergeStarveOutput"
	faultMergePhantomRow   = "mergePhantomRow"
)

// mergeBuffers merges two internally sorted buffers into one ordered
// run of m+n arena slots, then splits the run back: the first buffer
// takes the smaller m rows, the second the larger n. Each input keeps
// one lazily refilled current row; a buffer's next row is decoded only
// once its current slot has been consumed. Running out of input while
// output slots remain, or finishing with an unconsumed current row,
// means the row-count bookkeeping is corrupt — both abort, they are
// not data conditions.
func (srt *ExternalSorter[R]) mergeBuffers(
	pr MergePair,
	bufA *buffer.Buffer, m int,
	bufB *buffer.Buffer, n int,
	ar *Arena[R],
) {
	util.AssertFunc(m+n <= ar.Capacity())
	if srt._tracer != nil {
		srt._tracer.recordMerge(pr.A, pr.B)
	}

	rdA := srt._codec.NewReader(bufA)
	rdB := srt._codec.NewReader(bufB)
	curA := ar.MergePointer(0)
	curB := ar.MergePointer(1)
	leftA, leftB := m, n
	filledA, filledB := false, false

	for out := 0; out < m+n; out++ {
		if !filledA && leftA > 0 {
			rdA.Next(ar.Record(curA.Slot()))
			srt._codec.EncodeKey(curA.Key(), srt._layout, ar.Record(curA.Slot()))
			filledA = true
			leftA--
		}
		if !filledB && leftB > 0 {
			rdB.Next(ar.Record(curB.Slot()))
			srt._codec.EncodeKey(curB.Key(), srt._layout, ar.Record(curB.Slot()))
			filledB = true
			leftB--
		}
		if util.Check(util.FAULTS_SCOPE_MERGE, faultMergeStarveOutput) != nil {
			filledA, filledB = false, false
			leftA, leftB = 0, 0
		}

		outPtr := ar.Bind(out)
		switch {
		case filledA && filledB:
			if curA.LessThan(curB) {
				ar.Set(outPtr, curA)
				filledA = false
			} else {
				ar.Set(outPtr, curB)
				filledB = false
			}
		case filledA:
			ar.Set(outPtr, curA)
			filledA = false
		case filledB:
			ar.Set(outPtr, curB)
			filledB = false
		default:
			panic(fmt.Sprintf(
				"merge of buffers (%d, %d) starved: %d output slots left with no input rows",
				pr.A, pr.B, m+n-out))
		}
	}

	if util.Check(util.FAULTS_SCOPE_MERGE, faultMergePhantomRow) != nil {
		filledA = true
	}
	if filledA || filledB {
		panic(fmt.Sprintf(
			"merge of buffers (%d, %d) finished with unconsumed input rows",
			pr.A, pr.B))
	}
	rdA.Close()
	rdB.Close()

	wrA := srt._codec.NewWriter(bufA)
	for i := 0; i < m; i++ {
		wrA.Append(ar.Record(ar.Bind(i).Slot()))
	}
	wrA.Close()
	wrB := srt._codec.NewWriter(bufB)
	for i := m; i < m+n; i++ {
		wrB.Append(ar.Record(ar.Bind(i).Slot()))
	}
	wrB.Close()
}
