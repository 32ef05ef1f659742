package arrowmap

import (
	"bytes"
	"iter"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/float16"
)

// Reader provides positional access to the decoded elements of one physical
// column. Traversal order is storage order, 0..Len()-1. A reader is not
// rewindable; recreate it from the same handle to traverse again.
type Reader[T any] interface {
	Len() int

	// Value decodes the element at i. The second result is false when the
	// element is null; the first is then the zero value.
	Value(i int) (T, bool)
}

// Item is one yielded element of a typed iterator: a decoded value plus the
// column's validity bit for it.
type Item[T any] struct {
	Val   T
	Valid bool
}

// Items returns a lazy, finite iterator over every element of r in storage
// order.
func Items[T any](r Reader[T]) iter.Seq[Item[T]] {
	return func(yield func(Item[T]) bool) {
		for i := 0; i < r.Len(); i++ {
			v, ok := r.Value(i)
			if !yield(Item[T]{Val: v, Valid: ok}) {
				return
			}
		}
	}
}

// Collect drains r into a slice, preserving order. Null elements collect as
// zero values; wrap the mapping in Nullable to observe them.
func Collect[T any](r Reader[T]) []T {
	out := make([]T, r.Len())
	for i := range out {
		out[i], _ = r.Value(i)
	}
	return out
}

// DecodeArray adapts arr for mapping m and decodes every element in storage
// order.
func DecodeArray[T any](m TypeMap[T], arr arrow.Array) ([]T, error) {
	r, err := m.NewReader(arr)
	if err != nil {
		return nil, err
	}
	return Collect(r), nil
}

// downcast asserts the concrete representation behind an opaque handle.
// A failed assertion is a schema error surfaced as *TypeMismatchError.
func downcast[A arrow.Array](m FieldMapping, arr arrow.Array) (A, error) {
	a, ok := arr.(A)
	if !ok {
		var zero A
		return zero, &TypeMismatchError{Expected: m.DataType(), Actual: arr.DataType()}
	}
	return a, nil
}

// valueArray is the shape shared by arrow arrays with direct per-index
// accessors.
type valueArray[T any] interface {
	arrow.Array
	Value(i int) T
}

type valueReader[A valueArray[T], T any] struct {
	a A
}

func (r valueReader[A, T]) Len() int { return r.a.Len() }

func (r valueReader[A, T]) Value(i int) (T, bool) {
	if r.a.IsNull(i) {
		var zero T
		return zero, false
	}
	return r.a.Value(i), true
}

func primitiveReader[A valueArray[T], T any](m FieldMapping, arr arrow.Array) (Reader[T], error) {
	a, err := downcast[A](m, arr)
	if err != nil {
		return nil, err
	}
	return valueReader[A, T]{a: a}, nil
}

// convReader decodes through a fixed value conversion, used for temporal
// encodings.
type convReader[A valueArray[V], V, T any] struct {
	a    A
	conv func(V) T
}

func (r convReader[A, V, T]) Len() int { return r.a.Len() }

func (r convReader[A, V, T]) Value(i int) (T, bool) {
	if r.a.IsNull(i) {
		var zero T
		return zero, false
	}
	return r.conv(r.a.Value(i)), true
}

// binaryReader copies each value out of the arrow buffer so decoded bytes
// outlive the borrowed handle.
type binaryReader[A valueArray[[]byte]] struct {
	a A
}

func (r binaryReader[A]) Len() int { return r.a.Len() }

func (r binaryReader[A]) Value(i int) ([]byte, bool) {
	if r.a.IsNull(i) {
		return nil, false
	}
	return bytes.Clone(r.a.Value(i)), true
}

func (m Bool) NewReader(arr arrow.Array) (Reader[bool], error) {
	return primitiveReader[*array.Boolean, bool](m, arr)
}

func (m Int8) NewReader(arr arrow.Array) (Reader[int8], error) {
	return primitiveReader[*array.Int8, int8](m, arr)
}

func (m Int16) NewReader(arr arrow.Array) (Reader[int16], error) {
	return primitiveReader[*array.Int16, int16](m, arr)
}

func (m Int32) NewReader(arr arrow.Array) (Reader[int32], error) {
	return primitiveReader[*array.Int32, int32](m, arr)
}

func (m Int64) NewReader(arr arrow.Array) (Reader[int64], error) {
	return primitiveReader[*array.Int64, int64](m, arr)
}

func (m Uint8) NewReader(arr arrow.Array) (Reader[uint8], error) {
	return primitiveReader[*array.Uint8, uint8](m, arr)
}

func (m Uint16) NewReader(arr arrow.Array) (Reader[uint16], error) {
	return primitiveReader[*array.Uint16, uint16](m, arr)
}

func (m Uint32) NewReader(arr arrow.Array) (Reader[uint32], error) {
	return primitiveReader[*array.Uint32, uint32](m, arr)
}

func (m Uint64) NewReader(arr arrow.Array) (Reader[uint64], error) {
	return primitiveReader[*array.Uint64, uint64](m, arr)
}

func (m Float16) NewReader(arr arrow.Array) (Reader[float16.Num], error) {
	return primitiveReader[*array.Float16, float16.Num](m, arr)
}

func (m Float32) NewReader(arr arrow.Array) (Reader[float32], error) {
	return primitiveReader[*array.Float32, float32](m, arr)
}

func (m Float64) NewReader(arr arrow.Array) (Reader[float64], error) {
	return primitiveReader[*array.Float64, float64](m, arr)
}

func (m String) NewReader(arr arrow.Array) (Reader[string], error) {
	return primitiveReader[*array.String, string](m, arr)
}

func (m LargeString) NewReader(arr arrow.Array) (Reader[string], error) {
	return primitiveReader[*array.LargeString, string](m, arr)
}

func (m Binary) NewReader(arr arrow.Array) (Reader[[]byte], error) {
	a, err := downcast[*array.Binary](m, arr)
	if err != nil {
		return nil, err
	}
	return binaryReader[*array.Binary]{a: a}, nil
}

func (m LargeBinary) NewReader(arr arrow.Array) (Reader[[]byte], error) {
	a, err := downcast[*array.LargeBinary](m, arr)
	if err != nil {
		return nil, err
	}
	return binaryReader[*array.LargeBinary]{a: a}, nil
}

func (m FixedBinary[N]) NewReader(arr arrow.Array) (Reader[[]byte], error) {
	a, err := downcast[*array.FixedSizeBinary](m, arr)
	if err != nil {
		return nil, err
	}
	var n N
	if a.DataType().(*arrow.FixedSizeBinaryType).ByteWidth != n.Value() {
		return nil, &TypeMismatchError{Expected: m.DataType(), Actual: arr.DataType()}
	}
	return binaryReader[*array.FixedSizeBinary]{a: a}, nil
}

func (m Decimal[P, S]) NewReader(arr arrow.Array) (Reader[decimal128.Num], error) {
	// Precision and scale change the meaning of the stored words, so the
	// full parameterized type must match, not just the array kind.
	if !arrow.TypeEqual(m.DataType(), arr.DataType()) {
		return nil, &TypeMismatchError{Expected: m.DataType(), Actual: arr.DataType()}
	}
	return primitiveReader[*array.Decimal128, decimal128.Num](m, arr)
}

func (m Timestamp) NewReader(arr arrow.Array) (Reader[time.Time], error) {
	a, err := downcast[*array.Timestamp](m, arr)
	if err != nil {
		return nil, err
	}
	if a.DataType().(*arrow.TimestampType).Unit != arrow.Nanosecond {
		return nil, &TypeMismatchError{Expected: m.DataType(), Actual: arr.DataType()}
	}
	return convReader[*array.Timestamp, arrow.Timestamp, time.Time]{
		a:    a,
		conv: func(ts arrow.Timestamp) time.Time { return ts.ToTime(arrow.Nanosecond) },
	}, nil
}

func (m Date) NewReader(arr arrow.Array) (Reader[time.Time], error) {
	a, err := downcast[*array.Date32](m, arr)
	if err != nil {
		return nil, err
	}
	return convReader[*array.Date32, arrow.Date32, time.Time]{
		a:    a,
		conv: arrow.Date32.ToTime,
	}, nil
}

// nullableReader lifts column validity into the value domain. The outer
// result is always valid: a null element surfaces as a nil pointer, never as
// an absent item. This is the flattening rule that keeps optional
// composition from double-wrapping.
type nullableReader[T any] struct {
	inner Reader[T]
}

func (r nullableReader[T]) Len() int { return r.inner.Len() }

func (r nullableReader[T]) Value(i int) (*T, bool) {
	v, ok := r.inner.Value(i)
	if !ok {
		return nil, true
	}
	return &v, true
}

func (Nullable[M, T]) NewReader(arr arrow.Array) (Reader[*T], error) {
	var m M
	inner, err := m.NewReader(arr)
	if err != nil {
		return nil, err
	}
	return nullableReader[T]{inner: inner}, nil
}

func (NullableElement[M, T]) NewReader(arr arrow.Array) (Reader[*T], error) {
	return Nullable[M, T]{}.NewReader(arr)
}

// offsetList is the shape shared by List and LargeList arrays.
type offsetList interface {
	arrow.Array
	ValueOffsets(i int) (start, end int64)
	ListValues() arrow.Array
}

// listReader decodes one list cell per element. The element reader spans the
// whole child column; offsets select the per-cell range.
type listReader[E any] struct {
	list  offsetList
	elems Reader[E]
}

func (r listReader[E]) Len() int { return r.list.Len() }

func (r listReader[E]) Value(i int) ([]E, bool) {
	if r.list.IsNull(i) {
		return nil, false
	}
	start, end := r.list.ValueOffsets(i)
	out := make([]E, 0, end-start)
	for j := start; j < end; j++ {
		v, _ := r.elems.Value(int(j))
		out = append(out, v)
	}
	return out, true
}

func newListReader[M Element[E], E any](a offsetList) (Reader[[]E], error) {
	var elem M
	elems, err := elem.NewReader(a.ListValues())
	if err != nil {
		return nil, err
	}
	return listReader[E]{list: a, elems: elems}, nil
}

func (m List[M, E]) NewReader(arr arrow.Array) (Reader[[]E], error) {
	a, err := downcast[*array.List](m, arr)
	if err != nil {
		return nil, err
	}
	return newListReader[M, E](a)
}

func (m LargeList[M, E]) NewReader(arr arrow.Array) (Reader[[]E], error) {
	a, err := downcast[*array.LargeList](m, arr)
	if err != nil {
		return nil, err
	}
	return newListReader[M, E](a)
}

type fixedListReader[E any] struct {
	list  *array.FixedSizeList
	elems Reader[E]
	n     int
}

func (r fixedListReader[E]) Len() int { return r.list.Len() }

func (r fixedListReader[E]) Value(i int) ([]E, bool) {
	if r.list.IsNull(i) {
		return nil, false
	}
	start := (r.list.Data().Offset() + i) * r.n
	out := make([]E, 0, r.n)
	for j := start; j < start+r.n; j++ {
		v, _ := r.elems.Value(j)
		out = append(out, v)
	}
	return out, true
}

func (m FixedList[M, N, E]) NewReader(arr arrow.Array) (Reader[[]E], error) {
	a, err := downcast[*array.FixedSizeList](m, arr)
	if err != nil {
		return nil, err
	}
	var n N
	if int(a.DataType().(*arrow.FixedSizeListType).Len()) != n.Value() {
		return nil, &TypeMismatchError{Expected: m.DataType(), Actual: arr.DataType()}
	}
	var elem M
	elems, err := elem.NewReader(a.ListValues())
	if err != nil {
		return nil, err
	}
	return fixedListReader[E]{list: a, elems: elems, n: n.Value()}, nil
}
