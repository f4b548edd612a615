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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	pqLocal "github.com/xitongsys/parquet-go-source/local"
	pqReader "github.com/xitongsys/parquet-go/reader"
	"golang.org/x/sync/errgroup"

	"github.com/daviszhen/osort/pkg/buffer"
	"github.com/daviszhen/osort/pkg/common"
	"github.com/daviszhen/osort/pkg/util"
)

// GenBuffers allocates cnt buffers of rows random records each and
// fills them in parallel. Deterministic under one seed: buffer i uses
// its own rng seeded with seed+i, so the fill order across goroutines
// does not matter.
func GenBuffers(pool *buffer.Pool, cnt, rows int, seed int64) ([]*buffer.Buffer, []int, error) {
	util.AssertFunc(cnt >= 1 && rows >= 0)
	bufs := make([]*buffer.Buffer, cnt)
	counts := make([]int, cnt)
	for i := 0; i < cnt; i++ {
		bufs[i] = pool.Allocate(RecordWidth, rows)
		counts[i] = rows
	}

	g := errgroup.Group{}
	for i := 0; i < cnt; i++ {
		i := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(i)))
			wr := RecordCodec{}.NewWriter(bufs[i])
			var row Record
			for j := 0; j < rows; j++ {
				genRecord(rng, &row)
				wr.Append(&row)
			}
			wr.Close()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return bufs, counts, nil
}

func genRecord(rng *rand.Rand, row *Record) {
	row.ID = rng.Int63n(1 << 40)
	row.Qty = int32(rng.Intn(10000)) - 5000
	price, err := common.DecimalFromFloat(float64(rng.Intn(1000000)) / 100)
	util.AssertFunc(err == nil)
	row.Price = price
	// one null ship date in ten
	row.ShipNull = rng.Intn(10) == 0
	row.Ship = common.DateFromEpochDays(int32(rng.Intn(20000)))
	row.SetName(fmt.Sprintf("item-%06d", rng.Intn(1000000)))
}

// packRows splits rows over buffers of at most rowsPerBuffer, the last
// buffer taking the remainder.
func packRows(pool *buffer.Pool, rows []Record, rowsPerBuffer int) ([]*buffer.Buffer, []int) {
	util.AssertFunc(rowsPerBuffer > 0)
	var bufs []*buffer.Buffer
	var counts []int
	for off := 0; off < len(rows); off += rowsPerBuffer {
		n := rowsPerBuffer
		if off+n > len(rows) {
			n = len(rows) - off
		}
		buf := pool.Allocate(RecordWidth, n)
		wr := RecordCodec{}.NewWriter(buf)
		for j := 0; j < n; j++ {
			wr.Append(&rows[off+j])
		}
		wr.Close()
		bufs = append(bufs, buf)
		counts = append(counts, n)
	}
	return bufs, counts
}

// LoadParquet reads the five record columns from a parquet file and
// packs them into buffers. Column order in the file: id, qty, price,
// ship (days since epoch, optional), name.
func LoadParquet(pool *buffer.Pool, path string, rowsPerBuffer int) ([]*buffer.Buffer, []int, error) {
	pqFile, err := pqLocal.NewLocalFileReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer pqFile.Close()
	rd, err := pqReader.NewParquetColumnReader(pqFile, 1)
	if err != nil {
		return nil, nil, err
	}
	defer rd.ReadStop()

	total := int(rd.GetNumRows())
	rows := make([]Record, total)
	for idx := 0; idx < 5; idx++ {
		values, _, _, err := rd.ReadColumnByIndex(int64(idx), int64(total))
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}
		if len(values) != total {
			return nil, nil, fmt.Errorf("column %d has %d values, want %d", idx, len(values), total)
		}
		for i := 0; i < total; i++ {
			if err = parquetColToRecord(values[i], idx, &rows[i]); err != nil {
				return nil, nil, err
			}
		}
	}

	bufs, counts := packRows(pool, rows, rowsPerBuffer)
	return bufs, counts, nil
}

func parquetColToRecord(field any, idx int, row *Record) error {
	switch idx {
	case COL_ID:
		switch fVal := field.(type) {
		case int32:
			row.ID = int64(fVal)
		case int64:
			row.ID = fVal
		default:
			return fmt.Errorf("bad id value %v", field)
		}
	case COL_QTY:
		fVal, ok := field.(int32)
		if !ok {
			return fmt.Errorf("bad qty value %v", field)
		}
		row.Qty = fVal
	case COL_PRICE:
		fVal, ok := field.(float64)
		if !ok {
			return fmt.Errorf("bad price value %v", field)
		}
		price, err := common.DecimalFromFloat(fVal)
		if err != nil {
			return err
		}
		row.Price = price
	case COL_SHIP:
		if field == nil {
			row.ShipNull = true
			row.Ship = common.Date{}
			return nil
		}
		fVal, ok := field.(int32)
		if !ok {
			return fmt.Errorf("bad ship value %v", field)
		}
		row.ShipNull = false
		row.Ship = common.DateFromEpochDays(fVal)
	case COL_NAME:
		fVal, ok := field.(string)
		if !ok {
			return fmt.Errorf("bad name value %v", field)
		}
		row.SetName(fVal)
	default:
		panic("usp column")
	}
	return nil
}

// LoadCsv reads rows from a csv file with columns
// id,qty,price,ship,name. An empty ship field is a null date.
func LoadCsv(pool *buffer.Pool, path string, rowsPerBuffer int) ([]*buffer.Buffer, []int, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer dataFile.Close()
	reader := csv.NewReader(dataFile)

	var rows []Record
	for {
		line, err := reader.Read()
		if err != nil {
			//EOF
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, err
		}
		if len(line) < 5 {
			return nil, nil, errors.New("no enough fields in the line")
		}
		var row Record
		if err = csvLineToRecord(line, &row); err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}

	bufs, counts := packRows(pool, rows, rowsPerBuffer)
	return bufs, counts, nil
}

func csvLineToRecord(line []string, row *Record) error {
	var err error
	row.ID, err = strconv.ParseInt(line[COL_ID], 10, 64)
	if err != nil {
		return err
	}
	qty, err := strconv.ParseInt(line[COL_QTY], 10, 32)
	if err != nil {
		return err
	}
	row.Qty = int32(qty)
	price, err := strconv.ParseFloat(line[COL_PRICE], 64)
	if err != nil {
		return err
	}
	row.Price, err = common.DecimalFromFloat(price)
	if err != nil {
		return err
	}
	if line[COL_SHIP] == "" {
		row.ShipNull = true
		row.Ship = common.Date{}
	} else {
		d, err := time.Parse(time.DateOnly, line[COL_SHIP])
		if err != nil {
			return err
		}
		row.ShipNull = false
		row.Ship = common.Date{
			Year:  int32(d.Year()),
			Month: int32(d.Month()),
			Day:   int32(d.Day()),
		}
	}
	row.SetName(line[COL_NAME])
	return nil
}
