package obsort

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/common"
	"github.com/daviszhen/osort/pkg/sortkey"
	"github.com/daviszhen/osort/pkg/util"
)

type intRow struct {
	V int64
}

type intReader struct {
	_rd *buffer.RowReader
}

func (rd *intReader) Next(row *intRow) {
	err := util.Read[int64](&row.V, rd._rd)
	util.AssertFunc(err == nil)
}

func (rd *intReader) Close() {
	err := rd._rd.Close()
	util.AssertFunc(err == nil)
}

type intWriter struct {
	_wr *buffer.RowWriter
}

func (wr *intWriter) Append(row *intRow) {
	err := util.Write[int64](row.V, wr._wr)
	util.AssertFunc(err == nil)
}

func (wr *intWriter) Close() {
	err := wr._wr.Close()
	util.AssertFunc(err == nil)
}

type intCodec struct{}

func (intCodec) NewReader(buf *buffer.Buffer) RowReader[intRow] {
	return &intReader{_rd: buffer.NewRowReader(buf)}
}

func (intCodec) NewWriter(buf *buffer.Buffer) RowWriter[intRow] {
	return &intWriter{_wr: buffer.NewRowWriter(buf)}
}

func (intCodec) EncodeKey(key []byte, lay *sortkey.Layout, row *intRow) {
	kw := sortkey.NewKeyWriter(key)
	kw.Int64(lay.Column(0), row.V)
	kw.Finish(lay)
}

func intLayout(order sortkey.OrderType) *sortkey.Layout {
	return sortkey.NewLayout([]sortkey.Column{
		{
			ColId: 0,
			Typ:   sortkey.KT_INT64,
			Order: order,
			Null:  sortkey.OBNT_NULLS_LAST,
		},
	})
}

func fillIntBuf(vals []int64) *buffer.Buffer {
	buf := buffer.NewBuffer(0, common.Int64Size, len(vals))
	wr := intCodec{}.NewWriter(buf)
	var row intRow
	for _, v := range vals {
		row.V = v
		wr.Append(&row)
	}
	wr.Close()
	return buf
}

func readIntBuf(buf *buffer.Buffer, n int) []int64 {
	rd := intCodec{}.NewReader(buf)
	ret := make([]int64, 0, n)
	var row intRow
	for i := 0; i < n; i++ {
		rd.Next(&row)
		ret = append(ret, row.V)
	}
	rd.Close()
	return ret
}

func fillIntBufs(data [][]int64) ([]*buffer.Buffer, []int) {
	bufs := make([]*buffer.Buffer, 0, len(data))
	counts := make([]int, 0, len(data))
	for _, vals := range data {
		bufs = append(bufs, fillIntBuf(vals))
		counts = append(counts, len(vals))
	}
	return bufs, counts
}

func concatIntBufs(bufs []*buffer.Buffer, counts []int) []int64 {
	var ret []int64
	for i, buf := range bufs {
		ret = append(ret, readIntBuf(buf, counts[i])...)
	}
	return ret
}

func releaseAll(bufs []*buffer.Buffer) {
	for _, buf := range bufs {
		buf.Release()
	}
}

func Test_sort_concat(t *testing.T) {
	bufs, counts := fillIntBufs([][]int64{
		{5, 1},
		{8, 2},
		{4, 7},
		{3, 6},
	})
	defer releaseAll(bufs)

	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_ASC))
	srt.Sort(bufs, counts)

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, concatIntBufs(bufs, counts))
	for i, buf := range bufs {
		assert.Equal(t, counts[i], buf.RowCount())
	}
}

func Test_sort_unevenCounts(t *testing.T) {
	bufs, counts := fillIntBufs([][]int64{
		{9, 3},
		{7, 1},
		{5},
	})
	defer releaseAll(bufs)

	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_ASC))
	srt.Sort(bufs, counts)

	assert.Equal(t, []int64{1, 3, 5, 7, 9}, concatIntBufs(bufs, counts))
	//row counts per buffer never move
	assert.Equal(t, []int{2, 2, 1}, counts)
	assert.Equal(t, 2, bufs[0].RowCount())
	assert.Equal(t, 1, bufs[2].RowCount())
}

func Test_sort_singleBuffer(t *testing.T) {
	bufs, counts := fillIntBufs([][]int64{
		{4, -2, 9, 0, -2},
	})
	defer releaseAll(bufs)

	tr := NewTracer()
	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_ASC))
	srt.SetTracer(tr)
	srt.Sort(bufs, counts)

	assert.Equal(t, []int64{-2, -2, 0, 4, 9}, concatIntBufs(bufs, counts))
	assert.Empty(t, tr.MergePairs())
}

func Test_sort_desc(t *testing.T) {
	bufs, counts := fillIntBufs([][]int64{
		{5, 1},
		{8, 2},
	})
	defer releaseAll(bufs)

	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_DESC))
	srt.Sort(bufs, counts)

	assert.Equal(t, []int64{8, 5, 2, 1}, concatIntBufs(bufs, counts))
}

// The recorded access sequence may depend on the buffer count and row
// counts only. Two runs with different data and opposite directions
// must produce identical traces.
func Test_sort_traceOblivious(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 1; n <= 9; n++ {
		counts := make([]int, n)
		for i := range counts {
			counts[i] = rng.Intn(8)
		}
		var traces [][]TraceEvent
		for run := 0; run < 2; run++ {
			data := make([][]int64, n)
			for i := range data {
				for j := 0; j < counts[i]; j++ {
					data[i] = append(data[i], rng.Int63n(1000)-500)
				}
			}
			bufs, cnts := fillIntBufs(data)
			order := sortkey.OT_ASC
			if run == 1 {
				order = sortkey.OT_DESC
			}
			tr := NewTracer()
			srt := NewExternalSorter[intRow](intCodec{}, intLayout(order))
			srt.SetTracer(tr)
			srt.Sort(bufs, cnts)
			traces = append(traces, tr.Events())
			releaseAll(bufs)
		}
		require.Equal(t, traces[0], traces[1], "n=%d counts=%v", n, counts)
	}
}

func Test_sort_random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	lay := intLayout(sortkey.OT_ASC)
	for round := 0; round < 150; round++ {
		n := 1 + rng.Intn(12)
		data := make([][]int64, n)
		var all []int64
		for i := range data {
			var rows int
			switch round % 3 {
			case 0:
				rows = rng.Intn(10)
			case 1:
				//one oversized buffer among tiny ones
				rows = rng.Intn(3)
				if i == round%n {
					rows = 30 + rng.Intn(30)
				}
			case 2:
				//mostly empty buffers
				if rng.Intn(2) == 0 {
					rows = rng.Intn(8)
				}
			}
			for j := 0; j < rows; j++ {
				v := rng.Int63n(100) - 50
				data[i] = append(data[i], v)
				all = append(all, v)
			}
		}
		bufs, counts := fillIntBufs(data)

		before := KeyMultiset[intRow](intCodec{}, lay, bufs, counts)
		srt := NewExternalSorter[intRow](intCodec{}, lay)
		srt.Sort(bufs, counts)

		sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
		require.Equal(t, all, concatIntBufs(bufs, counts), "round=%d", round)
		require.True(t, VerifySorted[intRow](intCodec{}, lay, bufs, counts))
		after := KeyMultiset[intRow](intCodec{}, lay, bufs, counts)
		require.True(t, MultisetEqual(before, after))
		releaseAll(bufs)
	}
}

// Heavily skewed row counts, including an empty buffer in the middle.
// Every buffer must end up holding exactly its slice of the global
// order.
func Test_sort_skewedCounts(t *testing.T) {
	bufs, counts := fillIntBufs([][]int64{
		{1},
		{10, 20, 30, 40, 50, 60},
		{2, 3, 4},
		{},
		{5, 6, 7, 8},
	})
	defer releaseAll(bufs)

	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_ASC))
	srt.Sort(bufs, counts)

	assert.Equal(t,
		[]int64{1, 2, 3, 4, 5, 6, 7, 8, 10, 20, 30, 40, 50, 60},
		concatIntBufs(bufs, counts))
	assert.Equal(t, []int{1, 6, 3, 0, 4}, counts)
	assert.Equal(t, []int64{1}, readIntBuf(bufs[0], 1))
	assert.Equal(t, []int64{2, 3, 4, 5, 6, 7}, readIntBuf(bufs[1], 6))
	assert.Equal(t, []int64{8, 10, 20}, readIntBuf(bufs[2], 3))
	assert.Equal(t, []int64{}, readIntBuf(bufs[3], 0))
	assert.Equal(t, []int64{30, 40, 50, 60}, readIntBuf(bufs[4], 4))
}

// Scratch capacity below a step's requirement is a contract violation,
// not a recoverable condition.
func Test_sort_undersizedScratch(t *testing.T) {
	bufs, counts := fillIntBufs([][]int64{{3, 1, 2}, {6, 5, 4}})
	defer releaseAll(bufs)
	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_ASC))

	small := NewArena[intRow](counts[0]-1, srt._layout.KeyWidth())
	defer small.Release()
	require.Panics(t, func() {
		srt.sortBuffer(0, bufs[0], counts[0], small)
	})

	//fits either buffer alone but not the pair
	mid := NewArena[intRow](counts[0]+counts[1]-1, srt._layout.KeyWidth())
	defer mid.Release()
	srt.sortBuffer(0, bufs[0], counts[0], mid)
	srt.sortBuffer(1, bufs[1], counts[1], mid)
	require.Panics(t, func() {
		srt.mergeBuffers(MergePair{A: 0, B: 1},
			bufs[0], counts[0], bufs[1], counts[1], mid)
	})
}

func Test_sort_badArgs(t *testing.T) {
	bufs, counts := fillIntBufs([][]int64{{1}, {2}})
	defer releaseAll(bufs)
	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_ASC))

	require.Panics(t, func() {
		srt.Sort(nil, nil)
	})
	require.Panics(t, func() {
		srt.Sort(bufs, counts[:1])
	})
}

func Test_merge_starveFault(t *testing.T) {
	util.Open(util.FAULTS_SCOPE_MERGE)
	defer util.Close(util.FAULTS_SCOPE_MERGE)
	util.Register(util.FAULTS_SCOPE_MERGE, faultMergeStarveOutput, nil, nil)

	bufs, counts := fillIntBufs([][]int64{{2, 1}, {4, 3}})
	defer releaseAll(bufs)
	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_ASC))
	require.PanicsWithValue(t,
		"merge of buffers (0, 1) starved: 4 output slots left with no input rows",
		func() {
			srt.Sort(bufs, counts)
		})
}

func Test_merge_phantomRowFault(t *testing.T) {
	util.Open(util.FAULTS_SCOPE_MERGE)
	defer util.Close(util.FAULTS_SCOPE_MERGE)
	util.Register(util.FAULTS_SCOPE_MERGE, faultMergePhantomRow, nil, nil)

	bufs, counts := fillIntBufs([][]int64{{2, 1}, {4, 3}})
	defer releaseAll(bufs)
	srt := NewExternalSorter[intRow](intCodec{}, intLayout(sortkey.OT_ASC))
	require.PanicsWithValue(t,
		"merge of buffers (0, 1) finished with unconsumed input rows",
		func() {
			srt.Sort(bufs, counts)
		})
}

func Test_explainSchedule(t *testing.T) {
	out := ExplainSchedule(3)
	assert.Contains(t, out, "merge network on 3 buffers")
	assert.Contains(t, out, "sweep 0")
	assert.Contains(t, out, "merge (0, 2)")
	assert.Contains(t, out, "merge (1, 2)")
}
