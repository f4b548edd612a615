package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buffer_roundTrip(t *testing.T) {
	buf := NewBuffer(0, 4, 3)
	defer buf.Release()
	assert.Equal(t, 12, buf.FrameSize())
	assert.False(t, buf.Sealed())

	wr := NewRowWriter(buf)
	for i := byte(0); i < 3; i++ {
		err := wr.WriteData([]byte{i, i, i, i}, 4)
		require.NoError(t, err)
	}
	require.NoError(t, wr.Close())
	assert.True(t, buf.Sealed())

	rd := NewRowReader(buf)
	row := make([]byte, 4)
	for i := byte(0); i < 3; i++ {
		err := rd.ReadData(row, 4)
		require.NoError(t, err)
		assert.Equal(t, []byte{i, i, i, i}, row)
	}
	require.NoError(t, rd.Close())
}

func Test_buffer_sealing(t *testing.T) {
	buf := NewBuffer(0, 4, 2)
	defer buf.Release()

	//reading an unsealed buffer
	require.Panics(t, func() {
		NewRowReader(buf)
	})

	wr := NewRowWriter(buf)
	require.NoError(t, wr.WriteData([]byte{1, 2, 3, 4}, 4))
	//closing with a partly filled frame
	require.Panics(t, func() {
		wr.Close()
	})
	require.NoError(t, wr.WriteData([]byte{5, 6, 7, 8}, 4))
	require.NoError(t, wr.Close())

	//overrunning the frame
	rd := NewRowReader(buf)
	row := make([]byte, 8)
	require.NoError(t, rd.ReadData(row, 8))
	require.Panics(t, func() {
		rd.ReadData(row, 1)
	})
}

func Test_buffer_rewrite(t *testing.T) {
	buf := NewBuffer(0, 2, 2)
	defer buf.Release()

	wr := NewRowWriter(buf)
	require.NoError(t, wr.WriteData([]byte{1, 2, 3, 4}, 4))
	require.NoError(t, wr.Close())

	//rewriting unseals, closing seals again with the same frame
	wr = NewRowWriter(buf)
	assert.False(t, buf.Sealed())
	require.NoError(t, wr.WriteData([]byte{4, 3, 2, 1}, 4))
	require.NoError(t, wr.Close())
	assert.True(t, buf.Sealed())
	assert.Equal(t, 2, buf.RowCount())

	rd := NewRowReader(buf)
	row := make([]byte, 4)
	require.NoError(t, rd.ReadData(row, 4))
	assert.Equal(t, []byte{4, 3, 2, 1}, row)
	require.NoError(t, rd.Close())
}

func Test_pool(t *testing.T) {
	pool := NewPool()
	b0 := pool.Allocate(8, 4)
	b1 := pool.Allocate(8, 2)
	b2 := pool.Allocate(16, 0)
	assert.Equal(t, 3, pool.Len())

	//ids are dense and ascending
	assert.Equal(t, ID(0), b0.Id())
	assert.Equal(t, ID(1), b1.Id())
	assert.Equal(t, ID(2), b2.Id())

	assert.Same(t, b1, pool.Get(ID(1)))
	assert.Nil(t, pool.Get(ID(99)))

	bufs := pool.Buffers()
	require.Len(t, bufs, 3)
	assert.Same(t, b0, bufs[0])
	assert.Same(t, b2, bufs[2])

	pool.Release(ID(1))
	assert.Equal(t, 2, pool.Len())
	assert.Nil(t, pool.Get(ID(1)))
	//releasing twice is a no-op
	pool.Release(ID(1))
	assert.Equal(t, 2, pool.Len())
}
