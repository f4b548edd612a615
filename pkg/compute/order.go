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
	"github.com/huandu/go-clone"

	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/obsort"
	"github.com/daviszhen/osort/pkg/sortkey"
	"github.com/daviszhen/osort/pkg/util"
)

// OrderColumn is one component of an ORDER BY over the demo record.
// Zero values for Order and Null mean ascending, nulls last.
type OrderColumn struct {
	ColId int
	Order sortkey.OrderType
	Null  sortkey.OrderByNullType
}

type OrderSpec struct {
	Columns []OrderColumn
}

func (spec *OrderSpec) copy() *OrderSpec {
	return clone.Clone(spec).(*OrderSpec)
}

// ColumnIdByName resolves the external column names used in config
// files.
func ColumnIdByName(name string) (int, bool) {
	switch name {
	case "id":
		return COL_ID, true
	case "qty":
		return COL_QTY, true
	case "price":
		return COL_PRICE, true
	case "ship":
		return COL_SHIP, true
	case "name":
		return COL_NAME, true
	default:
		return 0, false
	}
}

func keyColumn(oc OrderColumn) sortkey.Column {
	col := sortkey.Column{
		ColId: oc.ColId,
		Order: oc.Order,
		Null:  oc.Null,
	}
	if col.Order == sortkey.OT_INVALID || col.Order == sortkey.OT_DEFAULT {
		col.Order = sortkey.OT_ASC
	}
	if col.Null == sortkey.OBNT_INVALID || col.Null == sortkey.OBNT_DEFAULT {
		col.Null = sortkey.OBNT_NULLS_LAST
	}
	switch oc.ColId {
	case COL_ID:
		col.Typ = sortkey.KT_INT64
	case COL_QTY:
		col.Typ = sortkey.KT_INT32
	case COL_PRICE:
		col.Typ = sortkey.KT_DECIMAL
	case COL_SHIP:
		col.Typ = sortkey.KT_DATE
		col.HasNull = true
	case COL_NAME:
		col.Typ = sortkey.KT_VARCHAR
		col.Width = NameWidth
	default:
		panic("usp order column")
	}
	return col
}

// OrderOp resolves an order spec into a key layout once and then sorts
// any buffer set under it. The spec is cloned on construction, so
// callers mutating their copy afterwards cannot skew a running sort.
type OrderOp struct {
	_spec   *OrderSpec
	_layout *sortkey.Layout
	_sorter *obsort.ExternalSorter[Record]
}

func NewOrderOp(spec *OrderSpec) *OrderOp {
	util.AssertFunc(spec != nil && len(spec.Columns) > 0)
	spec = spec.copy()
	cols := make([]sortkey.Column, 0, len(spec.Columns))
	for _, oc := range spec.Columns {
		cols = append(cols, keyColumn(oc))
	}
	lay := sortkey.NewLayout(cols)
	return &OrderOp{
		_spec:   spec,
		_layout: lay,
		_sorter: obsort.NewExternalSorter[Record](RecordCodec{}, lay),
	}
}

func (op *OrderOp) Layout() *sortkey.Layout {
	return op._layout
}

func (op *OrderOp) SetTracer(tr *obsort.Tracer) {
	op._sorter.SetTracer(tr)
}

// Execute sorts the rows spread over bufs so the concatenation in
// index order follows the spec. counts[i] is the row count of bufs[i]
// and never changes.
func (op *OrderOp) Execute(bufs []*buffer.Buffer, counts []int) {
	op._sorter.Sort(bufs, counts)
}

// Verify re-reads the buffers and checks the order the spec demands.
func (op *OrderOp) Verify(bufs []*buffer.Buffer, counts []int) bool {
	return obsort.VerifySorted[Record](RecordCodec{}, op._layout, bufs, counts)
}
