package batch

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
)

// RecordToJSON converts a record to a JSON array of row objects, one object
// per row keyed by field name. Binary values encode as base64, temporal
// values as RFC 3339.
func RecordToJSON(rec arrow.Record) ([]byte, error) {
	if rec == nil || rec.NumRows() == 0 {
		return []byte("[]"), nil
	}

	rows := make([]map[string]any, rec.NumRows())
	for i := range rows {
		row := make(map[string]any, rec.NumCols())
		for j := 0; j < int(rec.NumCols()); j++ {
			v, err := columnValue(rec.Column(j), i)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, rec.Schema().Field(j).Name, err)
			}
			row[rec.Schema().Field(j).Name] = v
		}
		rows[i] = row
	}

	return json.Marshal(rows)
}

// RecordFromJSON builds a record for schema from a JSON array of row
// objects. Missing or null fields append as nulls.
func RecordFromJSON(mem memory.Allocator, schema *arrow.Schema, data []byte) (arrow.Record, error) {
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, row := range rows {
		for j := 0; j < schema.NumFields(); j++ {
			field := schema.Field(j)
			if err := appendJSONValue(b.Field(j), row[field.Name]); err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, field.Name, err)
			}
		}
	}

	return b.NewRecord(), nil
}

// columnValue reads one element of a column as a JSON-friendly value.
func columnValue(col arrow.Array, i int) (any, error) {
	if col.IsNull(i) {
		return nil, nil
	}

	switch c := col.(type) {
	case *array.Boolean:
		return c.Value(i), nil
	case *array.Int8:
		return c.Value(i), nil
	case *array.Int16:
		return c.Value(i), nil
	case *array.Int32:
		return c.Value(i), nil
	case *array.Int64:
		return c.Value(i), nil
	case *array.Uint8:
		return c.Value(i), nil
	case *array.Uint16:
		return c.Value(i), nil
	case *array.Uint32:
		return c.Value(i), nil
	case *array.Uint64:
		return c.Value(i), nil
	case *array.Float32:
		return c.Value(i), nil
	case *array.Float64:
		return c.Value(i), nil
	case *array.String:
		return c.Value(i), nil
	case *array.LargeString:
		return c.Value(i), nil
	case *array.Binary:
		return c.Value(i), nil
	case *array.LargeBinary:
		return c.Value(i), nil
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(i).ToTime(unit).Format(time.RFC3339Nano), nil
	case *array.Date32:
		return c.Value(i).ToTime().Format(time.DateOnly), nil
	case *array.List:
		start, end := c.ValueOffsets(i)
		out := make([]any, 0, end-start)
		for j := start; j < end; j++ {
			v, err := columnValue(c.ListValues(), int(j))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *array.Struct:
		st := c.DataType().(*arrow.StructType)
		out := make(map[string]any, c.NumField())
		for k := 0; k < c.NumField(); k++ {
			v, err := columnValue(c.Field(k), i)
			if err != nil {
				return nil, err
			}
			out[st.Field(k).Name] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported column type %s", col.DataType())
	}
}

// appendJSONValue writes one decoded JSON value onto a builder. JSON numbers
// arrive as float64 and convert to the column's width.
func appendJSONValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch tb := b.(type) {
	case *array.BooleanBuilder:
		val, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		tb.Append(val)

	case *array.Int8Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(int8(n))
	case *array.Int16Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(int16(n))
	case *array.Int32Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(int32(n))
	case *array.Int64Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(int64(n))
	case *array.Uint8Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(uint8(n))
	case *array.Uint16Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(uint16(n))
	case *array.Uint32Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(uint32(n))
	case *array.Uint64Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(uint64(n))
	case *array.Float32Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(float32(n))
	case *array.Float64Builder:
		n, err := jsonNumber(v)
		if err != nil {
			return err
		}
		tb.Append(n)

	case *array.StringBuilder:
		val, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		tb.Append(val)

	case *array.LargeStringBuilder:
		val, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		tb.Append(val)

	case *array.BinaryBuilder:
		val, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected base64 string, got %T", v)
		}
		raw, err := base64.StdEncoding.DecodeString(val)
		if err != nil {
			return fmt.Errorf("decode base64: %w", err)
		}
		tb.Append(raw)

	case *array.TimestampBuilder:
		val, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected RFC 3339 string, got %T", v)
		}
		parsed, err := time.Parse(time.RFC3339Nano, val)
		if err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		unit := tb.Type().(*arrow.TimestampType).Unit
		ts, err := arrow.TimestampFromTime(parsed, unit)
		if err != nil {
			return err
		}
		tb.Append(ts)

	case *array.Date32Builder:
		val, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected date string, got %T", v)
		}
		parsed, err := time.Parse(time.DateOnly, val)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		tb.Append(arrow.Date32FromTime(parsed))

	case *array.ListBuilder:
		vals, ok := v.([]any)
		if !ok {
			return fmt.Errorf("expected array, got %T", v)
		}
		tb.Append(true)
		for _, e := range vals {
			if err := appendJSONValue(tb.ValueBuilder(), e); err != nil {
				return err
			}
		}

	case *array.StructBuilder:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("expected object, got %T", v)
		}
		st := tb.Type().(*arrow.StructType)
		tb.Append(true)
		for k := 0; k < st.NumFields(); k++ {
			if err := appendJSONValue(tb.FieldBuilder(k), obj[st.Field(k).Name]); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("unsupported builder type %T", b)
	}

	return nil
}

func jsonNumber(v any) (float64, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	return n, nil
}
