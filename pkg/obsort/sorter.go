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
	"sort"

	"go.uber.org/zap"

	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/sortkey"
	"github.com/daviszhen/osort/pkg/util"
)

// ExternalSorter sorts rows spread over fixed-count buffers so that
// concatenating the buffers in index order yields one ordered
// sequence. Which buffer is touched, in what order and how often, is a
// function of the buffer count and row counts only — never of row
// values and never of the selector. Row counts per buffer never
// change; rows are permuted across buffers, not created or dropped.
type ExternalSorter[R any] struct {
	_codec  RowCodec[R]
	_layout *sortkey.Layout
	_tracer *Tracer
}

func NewExternalSorter[R any](codec RowCodec[R], layout *sortkey.Layout) *ExternalSorter[R] {
	util.AssertFunc(codec != nil && layout != nil)
	return &ExternalSorter[R]{
		_codec:  codec,
		_layout: layout,
	}
}

// SetTracer attaches an access-trace recorder. Tracing only sees
// buffer indices, which are public.
func (srt *ExternalSorter[R]) SetTracer(tr *Tracer) {
	srt._tracer = tr
}

// Sort runs the whole operation: every buffer sorted individually,
// then the fixed merge network over buffer pairs. Contract violations
// abort; there is no recoverable error path out of a sort call.
func (srt *ExternalSorter[R]) Sort(bufs []*buffer.Buffer, counts []int) {
	util.AssertFunc(len(bufs) >= 1)
	util.AssertFunc(len(bufs) == len(counts))
	n := len(bufs)

	ar := NewArena[R](arenaCapacity(counts), srt._layout.KeyWidth())
	defer ar.Release()

	for i := 0; i < n; i++ {
		srt.sortBuffer(i, bufs[i], counts[i], ar)
	}
	if n < 2 {
		return
	}
	for _, pr := range MergeSchedule(n) {
		srt.mergeBuffers(pr, bufs[pr.A], counts[pr.A], bufs[pr.B], counts[pr.B], ar)
	}
	util.Debug("external sort done",
		zap.Int("buffers", n),
		zap.Int("arenaCap", ar.Capacity()))
}

// sortBuffer decodes one buffer into arena slots [0,n), sorts the
// pointers in place and re-encodes the buffer in the new order. The
// sort is unstable. Decode/compare order inside this step is
// data-dependent, which stays within the buffer's own bytes; the
// external access-pattern guarantee concerns buffer granularity only.
func (srt *ExternalSorter[R]) sortBuffer(idx int, buf *buffer.Buffer, n int, ar *Arena[R]) {
	util.AssertFunc(n <= ar.Capacity())
	if srt._tracer != nil {
		srt._tracer.recordSort(idx)
	}

	rd := srt._codec.NewReader(buf)
	for i := 0; i < n; i++ {
		ptr := ar.Bind(i)
		rd.Next(ar.Record(i))
		srt._codec.EncodeKey(ptr.Key(), srt._layout, ar.Record(i))
	}
	rd.Close()

	ptrs := ar.Ptrs(n)
	sort.Slice(ptrs, func(i, j int) bool {
		return ptrs[i].LessThan(&ptrs[j])
	})

	wr := srt._codec.NewWriter(buf)
	for i := 0; i < n; i++ {
		wr.Append(ar.Record(ptrs[i].Slot()))
	}
	wr.Close()
}
