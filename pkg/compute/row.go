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

package compute

import (
	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/common"
	"github.com/daviszhen/osort/pkg/obsort"
	"github.com/daviszhen/osort/pkg/sortkey"
	"github.com/daviszhen/osort/pkg/util"
)

const (
	COL_ID = iota
	COL_QTY
	COL_PRICE
	COL_SHIP
	COL_NAME
)

// NameWidth is the fixed on-row width of the name column. Longer
// values truncate, shorter values zero-pad.
const NameWidth = 16

// Record is the demo row shape: a numeric id, a quantity, a
// fixed-scale price, a nullable ship date and a fixed-width name.
type Record struct {
	ID       int64
	Qty      int32
	Price    common.Decimal
	Ship     common.Date
	ShipNull bool
	Name     [NameWidth]byte
}

func (row *Record) SetName(s string) {
	n := copy(row.Name[:], s)
	util.Fill[byte](row.Name[n:], NameWidth-n, 0)
}

// RecordWidth is the encoded row size:
// id(8) + qty(4) + price whole/frac(16) + ship flag(1) + ship(12) + name(16).
var RecordWidth int

func init() {
	RecordWidth = common.Int64Size + common.Int32Size +
		2*common.Int64Size + 1 + common.DateSize + NameWidth
}

func encodeRecord(serial util.Serialize, row *Record) {
	err := util.Write[int64](row.ID, serial)
	util.AssertFunc(err == nil)
	err = util.Write[int32](row.Qty, serial)
	util.AssertFunc(err == nil)

	whole, frac, ok := row.Price.WholeFrac()
	util.AssertFunc(ok)
	err = util.Write[int64](whole, serial)
	util.AssertFunc(err == nil)
	err = util.Write[int64](frac, serial)
	util.AssertFunc(err == nil)

	flag := uint8(0)
	if row.ShipNull {
		flag = 1
	}
	err = util.Write[uint8](flag, serial)
	util.AssertFunc(err == nil)
	err = util.Write[int32](row.Ship.Year, serial)
	util.AssertFunc(err == nil)
	err = util.Write[int32](row.Ship.Month, serial)
	util.AssertFunc(err == nil)
	err = util.Write[int32](row.Ship.Day, serial)
	util.AssertFunc(err == nil)

	err = util.WriteBytes(row.Name[:], serial)
	util.AssertFunc(err == nil)
}

func decodeRecord(deserial util.Deserialize, row *Record) {
	err := util.Read[int64](&row.ID, deserial)
	util.AssertFunc(err == nil)
	err = util.Read[int32](&row.Qty, deserial)
	util.AssertFunc(err == nil)

	var whole, frac int64
	err = util.Read[int64](&whole, deserial)
	util.AssertFunc(err == nil)
	err = util.Read[int64](&frac, deserial)
	util.AssertFunc(err == nil)
	row.Price, err = common.DecimalFromWholeFrac(whole, frac)
	util.AssertFunc(err == nil)

	var flag uint8
	err = util.Read[uint8](&flag, deserial)
	util.AssertFunc(err == nil)
	row.ShipNull = flag != 0
	err = util.Read[int32](&row.Ship.Year, deserial)
	util.AssertFunc(err == nil)
	err = util.Read[int32](&row.Ship.Month, deserial)
	util.AssertFunc(err == nil)
	err = util.Read[int32](&row.Ship.Day, deserial)
	util.AssertFunc(err == nil)

	err = util.ReadBytes(row.Name[:], deserial)
	util.AssertFunc(err == nil)
}

type recordReader struct {
	_rd *buffer.RowReader
}

func (rd *recordReader) Next(row *Record) {
	decodeRecord(rd._rd, row)
}

func (rd *recordReader) Close() {
	err := rd._rd.Close()
	util.AssertFunc(err == nil)
}

type recordWriter struct {
	_wr *buffer.RowWriter
}

func (wr *recordWriter) Append(row *Record) {
	encodeRecord(wr._wr, row)
}

func (wr *recordWriter) Close() {
	err := wr._wr.Close()
	util.AssertFunc(err == nil)
}

// RecordCodec moves Records through buffers and feeds their key
// columns into the radix encoder. Stateless; one value serves any
// number of concurrent sorts.
type RecordCodec struct{}

func (RecordCodec) NewReader(buf *buffer.Buffer) obsort.RowReader[Record] {
	return &recordReader{_rd: buffer.NewRowReader(buf)}
}

func (RecordCodec) NewWriter(buf *buffer.Buffer) obsort.RowWriter[Record] {
	return &recordWriter{_wr: buffer.NewRowWriter(buf)}
}

func (RecordCodec) EncodeKey(key []byte, lay *sortkey.Layout, row *Record) {
	kw := sortkey.NewKeyWriter(key)
	for i := 0; i < lay.ColumnCount(); i++ {
		col := lay.Column(i)
		switch col.ColId {
		case COL_ID:
			kw.Int64(col, row.ID)
		case COL_QTY:
			kw.Int32(col, row.Qty)
		case COL_PRICE:
			kw.Decimal(col, &row.Price)
		case COL_SHIP:
			if row.ShipNull {
				kw.Null(col)
			} else {
				kw.Date(col, &row.Ship)
			}
		case COL_NAME:
			kw.Bytes(col, row.Name[:])
		default:
			panic("usp key column")
		}
	}
	kw.Finish(lay)
}
