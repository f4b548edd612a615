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

package sortkey

import (
	"github.com/daviszhen/osort/pkg/common"
	"github.com/daviszhen/osort/pkg/util"
)

type OrderType int

const (
	OT_INVALID OrderType = iota
	OT_DEFAULT
	OT_ASC
	OT_DESC
)

type OrderByNullType int

const (
	OBNT_INVALID OrderByNullType = iota
	OBNT_DEFAULT
	OBNT_NULLS_FIRST
	OBNT_NULLS_LAST
)

type KeyType int

const (
	KT_INVALID KeyType = iota
	KT_INT32
	KT_INT64
	KT_FLOAT64
	KT_DATE
	KT_DECIMAL
	KT_VARCHAR
)

// Column describes one component of an ordering key. ColId names the
// record column the codec feeds into the encoder; Width is the encoded
// prefix length for KT_VARCHAR and ignored otherwise.
type Column struct {
	ColId   int
	Typ     KeyType
	Order   OrderType
	Null    OrderByNullType
	HasNull bool
	Width   int
}

func (col *Column) payloadSize() int {
	switch col.Typ {
	case KT_INT32:
		return common.Int32Size
	case KT_INT64:
		return common.Int64Size
	case KT_FLOAT64:
		return common.Float64Size
	case KT_DATE:
		return common.DateSize
	case KT_DECIMAL:
		return common.DecimalSize
	case KT_VARCHAR:
		util.AssertFunc(col.Width > 0)
		return col.Width
	default:
		panic("usp key type")
	}
}

// Layout is a resolved operation selector: the ordered key columns and
// the fixed width of the encoded key. Keys encoded under one layout
// order with plain byte comparison for every direction/null variant,
// so one layout yields one strict weak ordering.
type Layout struct {
	_columns  []Column
	_keyWidth int
}

func NewLayout(cols []Column) *Layout {
	util.AssertFunc(len(cols) > 0)
	ret := &Layout{
		_columns: util.CopyTo(cols),
	}
	for i := range ret._columns {
		col := &ret._columns[i]
		if col.HasNull {
			ret._keyWidth++
		}
		ret._keyWidth += col.payloadSize()
	}
	return ret
}

func (lay *Layout) KeyWidth() int {
	return lay._keyWidth
}

func (lay *Layout) ColumnCount() int {
	return len(lay._columns)
}

func (lay *Layout) Column(i int) *Column {
	return &lay._columns[i]
}
