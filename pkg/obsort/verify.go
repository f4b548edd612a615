package obsort

import (
	"bytes"
	"strings"

	treemap "github.com/liyue201/gostl/ds/map"

	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/sortkey"
)

// VerifySorted decodes every buffer in index order and checks the
// encoded keys never decrease across the concatenation. Post-call
// check for tests and the demo tooling; it reads rows, so it is not
// part of the oblivious schedule.
func VerifySorted[R any](
	codec RowCodec[R],
	lay *sortkey.Layout,
	bufs []*buffer.Buffer,
	counts []int,
) bool {
	kw := lay.KeyWidth()
	prev := make([]byte, kw)
	cur := make([]byte, kw)
	first := true
	var row R
	for i := range bufs {
		rd := codec.NewReader(bufs[i])
		for j := 0; j < counts[i]; j++ {
			rd.Next(&row)
			codec.EncodeKey(cur, lay, &row)
			if !first && bytes.Compare(prev, cur) > 0 {
				return false
			}
			first = false
			prev, cur = cur, prev
		}
		rd.Close()
	}
	return true
}

// KeyMultiset counts the encoded keys across all buffers. Snapshots
// taken before and after a sort call must be equal: the call permutes
// rows, it never creates, drops or duplicates them.
func KeyMultiset[R any](
	codec RowCodec[R],
	lay *sortkey.Layout,
	bufs []*buffer.Buffer,
	counts []int,
) *treemap.Map[string, int] {
	cmp := func(a, b string) int {
		return strings.Compare(a, b)
	}
	ret := treemap.New[string, int](cmp)
	key := make([]byte, lay.KeyWidth())
	var row R
	for i := range bufs {
		rd := codec.NewReader(bufs[i])
		for j := 0; j < counts[i]; j++ {
			rd.Next(&row)
			codec.EncodeKey(key, lay, &row)
			k := string(key)
			if cnt, err := ret.Get(k); err == nil {
				ret.Insert(k, cnt+1)
			} else {
				ret.Insert(k, 1)
			}
		}
		rd.Close()
	}
	return ret
}

func MultisetEqual(a, b *treemap.Map[string, int]) bool {
	if a.Size() != b.Size() {
		return false
	}
	equal := true
	a.Traversal(func(k string, v int) bool {
		ov, err := b.Get(k)
		if err != nil || ov != v {
			equal = false
			return false
		}
		return true
	})
	return equal
}
