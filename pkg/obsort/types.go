package obsort

import (
	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/sortkey"
)

// RowReader decodes one buffer's rows in storage order, one row per
// Next call. The implementation must decode exactly the buffer's
// declared row count before Close; it never needs random access.
type RowReader[R any] interface {
	Next(row *R)
	Close()
}

// RowWriter re-encodes rows in the order submitted and seals the
// buffer on Close. The sealed frame keeps the original size and row
// count.
type RowWriter[R any] interface {
	Append(row *R)
	Close()
}

// RowCodec is the collaborator that owns the row layout: how rows
// cross the buffer boundary and how an operation selector maps a row
// to its comparison key. The record type must have value semantics —
// assigning one record slot to another relocates the whole row.
type RowCodec[R any] interface {
	NewReader(buf *buffer.Buffer) RowReader[R]
	NewWriter(buf *buffer.Buffer) RowWriter[R]
	EncodeKey(key []byte, lay *sortkey.Layout, row *R)
}
