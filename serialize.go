package arrowmap

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/float16"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// BuildArray serializes values through m into a freshly allocated array. The
// mirror of DecodeArray.
func BuildArray[T any](m TypeMap[T], mem memory.Allocator, values []T) (arrow.Array, error) {
	b := array.NewBuilder(mem, m.DataType())
	defer b.Release()
	for _, v := range values {
		if err := m.Append(b, v); err != nil {
			return nil, err
		}
	}
	return b.NewArray(), nil
}

// valueBuilder is the shape shared by arrow builders with direct typed
// appends.
type valueBuilder[T any] interface {
	array.Builder
	Append(v T)
}

func appendValue[B valueBuilder[T], T any](m FieldMapping, b array.Builder, v T) error {
	tb, ok := b.(B)
	if !ok {
		return &TypeMismatchError{Expected: m.DataType(), Actual: b.Type()}
	}
	tb.Append(v)
	return nil
}

func (m Bool) Append(b array.Builder, v bool) error {
	return appendValue[*array.BooleanBuilder](m, b, v)
}

func (m Int8) Append(b array.Builder, v int8) error {
	return appendValue[*array.Int8Builder](m, b, v)
}

func (m Int16) Append(b array.Builder, v int16) error {
	return appendValue[*array.Int16Builder](m, b, v)
}

func (m Int32) Append(b array.Builder, v int32) error {
	return appendValue[*array.Int32Builder](m, b, v)
}

func (m Int64) Append(b array.Builder, v int64) error {
	return appendValue[*array.Int64Builder](m, b, v)
}

func (m Uint8) Append(b array.Builder, v uint8) error {
	return appendValue[*array.Uint8Builder](m, b, v)
}

func (m Uint16) Append(b array.Builder, v uint16) error {
	return appendValue[*array.Uint16Builder](m, b, v)
}

func (m Uint32) Append(b array.Builder, v uint32) error {
	return appendValue[*array.Uint32Builder](m, b, v)
}

func (m Uint64) Append(b array.Builder, v uint64) error {
	return appendValue[*array.Uint64Builder](m, b, v)
}

func (m Float16) Append(b array.Builder, v float16.Num) error {
	return appendValue[*array.Float16Builder](m, b, v)
}

func (m Float32) Append(b array.Builder, v float32) error {
	return appendValue[*array.Float32Builder](m, b, v)
}

func (m Float64) Append(b array.Builder, v float64) error {
	return appendValue[*array.Float64Builder](m, b, v)
}

func (m String) Append(b array.Builder, v string) error {
	return appendValue[*array.StringBuilder](m, b, v)
}

func (m LargeString) Append(b array.Builder, v string) error {
	return appendValue[*array.LargeStringBuilder](m, b, v)
}

func (m Binary) Append(b array.Builder, v []byte) error {
	return appendValue[*array.BinaryBuilder](m, b, v)
}

func (m LargeBinary) Append(b array.Builder, v []byte) error {
	return appendValue[*array.BinaryBuilder](m, b, v)
}

func (m FixedBinary[N]) Append(b array.Builder, v []byte) error {
	fb, ok := b.(*array.FixedSizeBinaryBuilder)
	if !ok || !arrow.TypeEqual(m.DataType(), fb.Type()) {
		return &TypeMismatchError{Expected: m.DataType(), Actual: b.Type()}
	}
	var n N
	if len(v) != n.Value() {
		return fmt.Errorf("arrowmap: fixed-size binary value has %d bytes, want %d", len(v), n.Value())
	}
	fb.Append(v)
	return nil
}

func (m Decimal[P, S]) Append(b array.Builder, v decimal128.Num) error {
	// Precision and scale change the meaning of the stored words, so the
	// full parameterized type must match, not just the builder kind.
	if !arrow.TypeEqual(m.DataType(), b.Type()) {
		return &TypeMismatchError{Expected: m.DataType(), Actual: b.Type()}
	}
	return appendValue[*array.Decimal128Builder](m, b, v)
}

func (m Timestamp) Append(b array.Builder, v time.Time) error {
	tb, ok := b.(*array.TimestampBuilder)
	if !ok || tb.Type().(*arrow.TimestampType).Unit != arrow.Nanosecond {
		return &TypeMismatchError{Expected: m.DataType(), Actual: b.Type()}
	}
	ts, err := arrow.TimestampFromTime(v, arrow.Nanosecond)
	if err != nil {
		return fmt.Errorf("arrowmap: timestamp conversion: %w", err)
	}
	tb.Append(ts)
	return nil
}

func (m Date) Append(b array.Builder, v time.Time) error {
	return appendValue[*array.Date32Builder](m, b, arrow.Date32FromTime(v))
}

func (Nullable[M, T]) Append(b array.Builder, v *T) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	var m M
	return m.Append(b, *v)
}

func (NullableElement[M, T]) Append(b array.Builder, v *T) error {
	return Nullable[M, T]{}.Append(b, v)
}

func (m List[M, E]) Append(b array.Builder, v []E) error {
	lb, ok := b.(*array.ListBuilder)
	if !ok {
		return &TypeMismatchError{Expected: m.DataType(), Actual: b.Type()}
	}
	return appendListValues[M](lb.ValueBuilder(), lb, v)
}

func (m LargeList[M, E]) Append(b array.Builder, v []E) error {
	lb, ok := b.(*array.LargeListBuilder)
	if !ok {
		return &TypeMismatchError{Expected: m.DataType(), Actual: b.Type()}
	}
	return appendListValues[M](lb.ValueBuilder(), lb, v)
}

func (m FixedList[M, N, E]) Append(b array.Builder, v []E) error {
	var n N
	lb, ok := b.(*array.FixedSizeListBuilder)
	if !ok || int(lb.Type().(*arrow.FixedSizeListType).Len()) != n.Value() {
		return &TypeMismatchError{Expected: m.DataType(), Actual: b.Type()}
	}
	if len(v) != n.Value() {
		return fmt.Errorf("arrowmap: fixed-size list value has %d elements, want %d", len(v), n.Value())
	}
	return appendListValues[M](lb.ValueBuilder(), lb, v)
}

// listAppender is the shape shared by the three list builders.
type listAppender interface {
	array.Builder
	Append(ok bool)
}

func appendListValues[M Element[E], E any](vb array.Builder, lb listAppender, v []E) error {
	var elem M
	lb.Append(true)
	for _, e := range v {
		if err := elem.Append(vb, e); err != nil {
			return err
		}
	}
	return nil
}
