package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// Column names of a subject file.
const (
	ColumnTimestamp      = "timestamp"
	ColumnStudiedSeconds = "studied_seconds"
)

var sampleSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColumnTimestamp, Type: arrow.PrimitiveTypes.Int64},
	{Name: ColumnStudiedSeconds, Type: arrow.PrimitiveTypes.Float64},
}, nil)

// ErrSchema is returned for subject files without the expected columns.
var ErrSchema = errors.New("unexpected parquet schema")

// readParquet decodes every row of a subject file. Timestamps are unix
// seconds and come back in loc.
func readParquet(ctx context.Context, path string, loc *time.Location) ([]model.Sample, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	rr, err := reader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create record reader: %w", err)
	}
	defer rr.Release()

	samples := make([]model.Sample, 0, pf.NumRows())
	for rr.Next() {
		rec := rr.RecordBatch()
		ts, secs, err := sampleColumns(rec)
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(rec.NumRows()); i++ {
			if ts.IsNull(i) || secs.IsNull(i) {
				continue
			}
			samples = append(samples, model.Sample{
				Timestamp:      time.Unix(ts.Value(i), 0).In(loc),
				StudiedSeconds: secs.Value(i),
			})
		}
	}
	if err := rr.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func sampleColumns(rec arrow.RecordBatch) (*array.Int64, *array.Float64, error) {
	tsIdx := rec.Schema().FieldIndices(ColumnTimestamp)
	secIdx := rec.Schema().FieldIndices(ColumnStudiedSeconds)
	if len(tsIdx) == 0 || len(secIdx) == 0 {
		return nil, nil, fmt.Errorf("%w: want columns %q and %q, have %s",
			ErrSchema, ColumnTimestamp, ColumnStudiedSeconds, rec.Schema())
	}
	ts, ok := rec.Column(tsIdx[0]).(*array.Int64)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrSchema, ColumnTimestamp, rec.Column(tsIdx[0]).DataType())
	}
	secs, ok := rec.Column(secIdx[0]).(*array.Float64)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrSchema, ColumnStudiedSeconds, rec.Column(secIdx[0]).DataType())
	}
	return ts, secs, nil
}

// writeParquet encodes samples into a new file at path.
func writeParquet(path string, samples []model.Sample) (err error) {
	alloc := memory.DefaultAllocator

	tsBuilder := array.NewInt64Builder(alloc)
	defer tsBuilder.Release()
	secBuilder := array.NewFloat64Builder(alloc)
	defer secBuilder.Release()

	for _, s := range samples {
		tsBuilder.Append(s.Timestamp.Unix())
		secBuilder.Append(s.StudiedSeconds)
	}

	tsArr := tsBuilder.NewArray()
	defer tsArr.Release()
	secArr := secBuilder.NewArray()
	defer secArr.Release()

	record := array.NewRecordBatch(sampleSchema, []arrow.Array{tsArr, secArr}, int64(len(samples)))
	defer record.Release()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		// The writer closes the sink on Close.
		if closeErr := out.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) && err == nil {
			err = closeErr
		}
	}()

	writer, err := pqarrow.NewFileWriter(
		sampleSchema,
		out,
		parquet.NewWriterProperties(),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if len(samples) > 0 {
		if err := writer.Write(record); err != nil {
			_ = writer.Close()
			return fmt.Errorf("failed to write records: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
