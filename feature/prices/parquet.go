package prices

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
	"github.com/apache/arrow/go/v15/arrow/memory"
	"github.com/apache/arrow/go/v15/parquet"
	"github.com/apache/arrow/go/v15/parquet/pqarrow"
)

const parquetBatchSize = 4096

func (r *Reader) decodeParquet(src parquet.ReaderAtSeeker) ([]row, error) {
	mem := memory.DefaultAllocator
	tbl, err := pqarrow.ReadTable(context.Background(), src, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, &formatError{reason: ReasonUnreadableFile, err: fmt.Errorf("failed to read parquet: %w", err)}
	}
	defer tbl.Release()

	var idx [3]int
	for i, name := range r.columns {
		found := tbl.Schema().FieldIndices(name)
		if len(found) == 0 {
			return nil, &formatError{reason: ReasonMissingColumn, err: fmt.Errorf("column %q not found", name)}
		}
		idx[i] = found[0]
	}

	rows := make([]row, 0, tbl.NumRows())
	tr := array.NewTableReader(tbl, parquetBatchSize)
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		quote, price, ts := rec.Column(idx[0]), rec.Column(idx[1]), rec.Column(idx[2])
		for i := 0; i < int(rec.NumRows()); i++ {
			q, _ := cellValue(quote, i).(string)
			rows = append(rows, row{
				quoteID:   q,
				price:     cellValue(price, i),
				timestamp: cellValue(ts, i),
			})
		}
	}
	return rows, nil
}

// cellValue returns the Go value at i for the column types pandas and pyarrow
// write for price snapshots. Nulls and unsupported types return nil.
func cellValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return int(a.Value(i))
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	case *array.Date32:
		return a.Value(i).ToTime()
	default:
		return nil
	}
}
