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

package buffer

import (
	"github.com/daviszhen/osort/pkg/util"
)

type ID uint64

// Buffer is a fixed-frame region of encoded rows. The frame size
// (rowWidth * rowCount) never changes after allocation. Rewriting the
// buffer goes through a RowWriter, which seals the frame on Close.
type Buffer struct {
	_id       ID
	_data     []byte
	_rowWidth int
	_rowCount int
	_sealed   bool
}

func NewBuffer(id ID, rowWidth, rowCount int) *Buffer {
	util.AssertFunc(rowWidth > 0 && rowCount >= 0)
	return &Buffer{
		_id:       id,
		_data:     util.GAlloc.Alloc(rowWidth * rowCount),
		_rowWidth: rowWidth,
		_rowCount: rowCount,
	}
}

func (buf *Buffer) Id() ID {
	return buf._id
}

func (buf *Buffer) RowWidth() int {
	return buf._rowWidth
}

func (buf *Buffer) RowCount() int {
	return buf._rowCount
}

func (buf *Buffer) FrameSize() int {
	return len(buf._data)
}

func (buf *Buffer) Sealed() bool {
	return buf._sealed
}

func (buf *Buffer) Release() {
	util.GAlloc.Free(buf._data)
	buf._data = nil
	buf._sealed = false
}

// RowReader is a forward-only cursor over a sealed buffer. It
// implements util.Deserialize so typed row codecs can decode through
// it. Overrunning the frame is a codec bug, not a data condition.
type RowReader struct {
	_buf    *Buffer
	_offset int
}

func NewRowReader(buf *Buffer) *RowReader {
	util.AssertFunc(buf._data != nil)
	util.AssertFunc(buf._sealed)
	return &RowReader{_buf: buf}
}

func (rd *RowReader) ReadData(buffer []byte, l int) error {
	util.AssertFunc(rd._offset+l <= len(rd._buf._data))
	copy(buffer[:l], rd._buf._data[rd._offset:rd._offset+l])
	rd._offset += l
	return nil
}

func (rd *RowReader) Close() error {
	util.AssertFunc(rd._offset == len(rd._buf._data))
	return nil
}

// RowWriter rewrites a buffer front to back and seals it on Close.
// Close asserts the frame was filled exactly, which keeps the encoded
// size and the row count invariant across rewrites.
type RowWriter struct {
	_buf    *Buffer
	_offset int
}

func NewRowWriter(buf *Buffer) *RowWriter {
	util.AssertFunc(buf._data != nil)
	buf._sealed = false
	return &RowWriter{_buf: buf}
}

func (wr *RowWriter) WriteData(buffer []byte, l int) error {
	util.AssertFunc(wr._offset+l <= len(wr._buf._data))
	copy(wr._buf._data[wr._offset:wr._offset+l], buffer[:l])
	wr._offset += l
	return nil
}

func (wr *RowWriter) Close() error {
	util.AssertFunc(wr._offset == len(wr._buf._data))
	wr._buf._sealed = true
	return nil
}
