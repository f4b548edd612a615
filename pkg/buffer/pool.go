package buffer

import (
	"github.com/tidwall/btree"

	"github.com/daviszhen/osort/pkg/util"
)

func bufferLess(a, b *Buffer) bool {
	return a._id < b._id
}

// Pool hands out buffers to the surrounding pipeline and keeps them
// addressable by id. Unlike a sort call, the pool is shared, so it is
// locked.
type Pool struct {
	_lock   *util.ReentryLock
	_nextId ID
	_bufs   *btree.BTreeG[*Buffer]
}

func NewPool() *Pool {
	return &Pool{
		_lock: util.NewReentryLock(),
		_bufs: btree.NewBTreeG[*Buffer](bufferLess),
	}
}

func (pool *Pool) Allocate(rowWidth, rowCount int) *Buffer {
	pool._lock.Lock()
	defer pool._lock.Unlock()
	buf := NewBuffer(pool._nextId, rowWidth, rowCount)
	pool._nextId++
	pool._bufs.Set(buf)
	return buf
}

func (pool *Pool) Get(id ID) *Buffer {
	pool._lock.Lock()
	defer pool._lock.Unlock()
	buf, has := pool._bufs.Get(&Buffer{_id: id})
	if !has {
		return nil
	}
	return buf
}

func (pool *Pool) Release(id ID) {
	pool._lock.Lock()
	defer pool._lock.Unlock()
	buf, has := pool._bufs.Get(&Buffer{_id: id})
	if !has {
		return
	}
	pool._bufs.Delete(buf)
	buf.Release()
}

func (pool *Pool) Len() int {
	pool._lock.Lock()
	defer pool._lock.Unlock()
	return pool._bufs.Len()
}

// Buffers returns the pooled buffers in ascending id order.
func (pool *Pool) Buffers() []*Buffer {
	pool._lock.Lock()
	defer pool._lock.Unlock()
	ret := make([]*Buffer, 0, pool._bufs.Len())
	pool._bufs.Scan(func(buf *Buffer) bool {
		ret = append(ret, buf)
		return true
	})
	return ret
}
