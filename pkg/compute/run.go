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
	"bytes"
	"fmt"
	"os"

	treemap "github.com/liyue201/gostl/ds/map"
	"go.uber.org/zap"

	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/obsort"
	"github.com/daviszhen/osort/pkg/sortkey"
	"github.com/daviszhen/osort/pkg/util"
)

// OrderSpecFromConfig maps the config's column list onto the record
// columns. Empty list sorts by id ascending.
func OrderSpecFromConfig(cols []util.OrderColumn) (*OrderSpec, error) {
	spec := &OrderSpec{}
	if len(cols) == 0 {
		spec.Columns = append(spec.Columns, OrderColumn{ColId: COL_ID})
		return spec, nil
	}
	for _, c := range cols {
		colId, ok := ColumnIdByName(c.Column)
		if !ok {
			return nil, fmt.Errorf("unknown order column %s", c.Column)
		}
		oc := OrderColumn{ColId: colId}
		if c.Desc {
			oc.Order = sortkey.OT_DESC
		}
		if c.NullsFirst {
			oc.Null = sortkey.OBNT_NULLS_FIRST
		}
		spec.Columns = append(spec.Columns, oc)
	}
	return spec, nil
}

// Run is the demo pipeline behind the cli: make or load buffers, sort
// them, then apply the debug options.
func Run(cfg *util.Config) error {
	spec, err := OrderSpecFromConfig(cfg.Order)
	if err != nil {
		return err
	}
	op := NewOrderOp(spec)

	pool := buffer.NewPool()
	var bufs []*buffer.Buffer
	var counts []int
	switch cfg.Input.Format {
	case "", "gen":
		bufs, counts, err = GenBuffers(pool, cfg.Gen.Buffers, cfg.Gen.Rows, cfg.Gen.Seed)
	case "parquet":
		bufs, counts, err = LoadParquet(pool, cfg.Input.Path, cfg.Gen.Rows)
	case "csv":
		bufs, counts, err = LoadCsv(pool, cfg.Input.Path, cfg.Gen.Rows)
	default:
		err = fmt.Errorf("unknown input format %s", cfg.Input.Format)
	}
	if err != nil {
		return err
	}
	defer func() {
		for _, buf := range bufs {
			pool.Release(buf.Id())
		}
	}()

	if cfg.Debug.PrintSchedule {
		fmt.Fprint(os.Stdout, obsort.ExplainSchedule(len(bufs)))
	}
	var tracer *obsort.Tracer
	if cfg.Debug.PrintTrace {
		tracer = obsort.NewTracer()
		op.SetTracer(tracer)
	}
	var before *treemap.Map[string, int]
	if cfg.Debug.Verify {
		before = obsort.KeyMultiset[Record](RecordCodec{}, op.Layout(), bufs, counts)
	}

	op.Execute(bufs, counts)

	if tracer != nil {
		printTrace(tracer)
	}
	if cfg.Debug.Verify {
		if err = verifyRun(op, bufs, counts, before); err != nil {
			return err
		}
		util.Info("verify passed",
			zap.Int("buffers", len(bufs)))
	}
	if cfg.Debug.PrintResult {
		printResult(bufs, counts)
	}
	return nil
}

func printTrace(tracer *obsort.Tracer) {
	for _, ev := range tracer.Events() {
		switch ev.Kind {
		case obsort.TE_SORT:
			fmt.Fprintf(os.Stdout, "sort %d\n", ev.A)
		case obsort.TE_MERGE:
			fmt.Fprintf(os.Stdout, "merge (%d, %d)\n", ev.A, ev.B)
		}
	}
}

func verifyRun(op *OrderOp, bufs []*buffer.Buffer, counts []int, before *treemap.Map[string, int]) error {
	if !op.Verify(bufs, counts) {
		return fmt.Errorf("buffers are not ordered")
	}
	after := obsort.KeyMultiset[Record](RecordCodec{}, op.Layout(), bufs, counts)
	if !obsort.MultisetEqual(before, after) {
		return fmt.Errorf("rows changed during sort")
	}
	return nil
}

func printResult(bufs []*buffer.Buffer, counts []int) {
	var row Record
	for i, buf := range bufs {
		rd := RecordCodec{}.NewReader(buf)
		for j := 0; j < counts[i]; j++ {
			rd.Next(&row)
			ship := "null"
			if !row.ShipNull {
				ship = row.Ship.String()
			}
			name := row.Name[:]
			if pos := bytes.IndexByte(name, 0); pos >= 0 {
				name = name[:pos]
			}
			fmt.Fprintf(os.Stdout, "%d,%d,%s,%s,%s\n",
				row.ID, row.Qty, row.Price.String(), ship, name)
		}
		rd.Close()
	}
}
