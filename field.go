package arrowmap

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// DefaultFieldName is the field name assigned to list children when no
// explicit name applies.
const DefaultFieldName = "item"

// FieldMapping is the schema-descriptor half of a mapping: it derives the
// Arrow logical type and the nullability of one native Go type. Every mapping
// tag in this package implements it; generated mappings for user-defined
// composite types implement it per field.
type FieldMapping interface {
	DataType() arrow.DataType
	Nullable() bool
}

// TypeMap binds one native Go type T to one Arrow logical type, one physical
// array representation, and the conversions between them. Mapping tags are
// zero-sized; all dispatch is resolved at compile time through the tag type.
type TypeMap[T any] interface {
	FieldMapping

	// NewReader checks that arr carries the physical representation for T
	// and returns positional access to its decoded elements. It fails with
	// *TypeMismatchError when the representation does not match.
	NewReader(arr arrow.Array) (Reader[T], error)

	// Append writes one value onto b, which must be the builder for T's
	// physical representation.
	Append(b array.Builder, v T) error
}

// Field derives the arrow.Field for mapping m under the given name.
func Field(m FieldMapping, name string) arrow.Field {
	return arrow.Field{Name: name, Type: m.DataType(), Nullable: m.Nullable()}
}

// Const is a compile-time integer parameter carried by a zero-sized tag
// type, the stand-in for a const generic. Fixed lengths and decimal
// precision/scale are expressed with it.
type Const interface {
	Value() int
}

// Mapping tags for the primitive table. Each tag binds exactly one native Go
// type to exactly one Arrow type; the table is closed and unambiguous.
type (
	Bool    struct{ ListElem }
	Int8    struct{ ListElem }
	Int16   struct{ ListElem }
	Int32   struct{ ListElem }
	Int64   struct{ ListElem }
	Uint16  struct{ ListElem }
	Uint32  struct{ ListElem }
	Uint64  struct{ ListElem }
	Float16 struct{ ListElem }
	Float32 struct{ ListElem }
	Float64 struct{ ListElem }
	String  struct{ ListElem }

	// Uint8 is not a registered list element: []byte maps to Binary.
	Uint8 struct{}

	// Binary maps []byte to the Arrow Binary type. This takes precedence
	// over any list interpretation of a byte sequence.
	Binary struct{ ListElem }

	// Timestamp maps time.Time to a nanosecond-resolution Arrow timestamp.
	Timestamp struct{ ListElem }

	// Date maps time.Time to Date32 (days since the Unix epoch).
	Date struct{ ListElem }
)

func (Bool) DataType() arrow.DataType    { return arrow.FixedWidthTypes.Boolean }
func (Int8) DataType() arrow.DataType    { return arrow.PrimitiveTypes.Int8 }
func (Int16) DataType() arrow.DataType   { return arrow.PrimitiveTypes.Int16 }
func (Int32) DataType() arrow.DataType   { return arrow.PrimitiveTypes.Int32 }
func (Int64) DataType() arrow.DataType   { return arrow.PrimitiveTypes.Int64 }
func (Uint8) DataType() arrow.DataType   { return arrow.PrimitiveTypes.Uint8 }
func (Uint16) DataType() arrow.DataType  { return arrow.PrimitiveTypes.Uint16 }
func (Uint32) DataType() arrow.DataType  { return arrow.PrimitiveTypes.Uint32 }
func (Uint64) DataType() arrow.DataType  { return arrow.PrimitiveTypes.Uint64 }
func (Float16) DataType() arrow.DataType { return arrow.FixedWidthTypes.Float16 }
func (Float32) DataType() arrow.DataType { return arrow.PrimitiveTypes.Float32 }
func (Float64) DataType() arrow.DataType { return arrow.PrimitiveTypes.Float64 }
func (String) DataType() arrow.DataType  { return arrow.BinaryTypes.String }
func (Binary) DataType() arrow.DataType  { return arrow.BinaryTypes.Binary }
func (Date) DataType() arrow.DataType    { return arrow.FixedWidthTypes.Date32 }

func (Timestamp) DataType() arrow.DataType {
	return &arrow.TimestampType{Unit: arrow.Nanosecond}
}

func (Bool) Nullable() bool      { return false }
func (Int8) Nullable() bool      { return false }
func (Int16) Nullable() bool     { return false }
func (Int32) Nullable() bool     { return false }
func (Int64) Nullable() bool     { return false }
func (Uint8) Nullable() bool     { return false }
func (Uint16) Nullable() bool    { return false }
func (Uint32) Nullable() bool    { return false }
func (Uint64) Nullable() bool    { return false }
func (Float16) Nullable() bool   { return false }
func (Float32) Nullable() bool   { return false }
func (Float64) Nullable() bool   { return false }
func (String) Nullable() bool    { return false }
func (Binary) Nullable() bool    { return false }
func (Timestamp) Nullable() bool { return false }
func (Date) Nullable() bool      { return false }

// LargeString is a placeholder tag for the LargeUtf8 Arrow type. Its native
// value type is plain string; the tag only selects the 64-bit-offset shape.
type LargeString struct{ ListElem }

func (LargeString) DataType() arrow.DataType { return arrow.BinaryTypes.LargeString }
func (LargeString) Nullable() bool           { return false }

// LargeBinary is a placeholder tag for the LargeBinary Arrow type; its
// native value type is []byte.
type LargeBinary struct{ ListElem }

func (LargeBinary) DataType() arrow.DataType { return arrow.BinaryTypes.LargeBinary }
func (LargeBinary) Nullable() bool           { return false }

// FixedBinary is a placeholder tag for FixedSizeBinary with compile-time
// width N; its native value type is []byte of exactly N bytes.
type FixedBinary[N Const] struct{ ListElem }

func (FixedBinary[N]) DataType() arrow.DataType {
	var n N
	return &arrow.FixedSizeBinaryType{ByteWidth: n.Value()}
}

func (FixedBinary[N]) Nullable() bool { return false }

// Decimal maps decimal128.Num to Decimal128 with compile-time precision P
// and scale S. Both parameters pass through to the logical type unchanged;
// range validation is the array layer's concern.
type Decimal[P, S Const] struct{ ListElem }

func (Decimal[P, S]) DataType() arrow.DataType {
	var p P
	var s S
	return &arrow.Decimal128Type{Precision: int32(p.Value()), Scale: int32(s.Value())}
}

func (Decimal[P, S]) Nullable() bool { return false }

// Nullable wraps mapping M to make its native type optional, represented as
// a pointer. The logical type delegates to M unchanged: nullability is a
// separate bit on the field, never folded into the type tag, and the wrapped
// type keeps M's physical representation.
type Nullable[M TypeMap[T], T any] struct{}

func (Nullable[M, T]) DataType() arrow.DataType {
	var m M
	return m.DataType()
}

func (Nullable[M, T]) Nullable() bool { return true }

// NullableElement is Nullable restricted to registered sequence elements, so
// that a list of optional values compiles exactly when a list of the inner
// values would. A nullable wrapper around an unregistered mapping stays
// unusable inside sequences. It delegates to Nullable explicitly: embedding
// the wrapper would introduce a field named Nullable that shadows the
// Nullable method.
type NullableElement[M Element[T], T any] struct{}

func (NullableElement[M, T]) DataType() arrow.DataType { return Nullable[M, T]{}.DataType() }

func (NullableElement[M, T]) Nullable() bool { return true }

func (NullableElement[M, T]) ListElement() {}

// List maps []E to the Arrow List type. The element mapping must be a
// registered Element; anything else fails to compile.
type List[M Element[E], E any] struct{}

func (List[M, E]) DataType() arrow.DataType {
	var m M
	return arrow.ListOfField(Field(m, DefaultFieldName))
}

func (List[M, E]) Nullable() bool { return false }

func (List[M, E]) ListElement() {}

// LargeList is the 64-bit-offset variant of List; its native value type is
// the same []E.
type LargeList[M Element[E], E any] struct{}

func (LargeList[M, E]) DataType() arrow.DataType {
	var m M
	return arrow.LargeListOfField(Field(m, DefaultFieldName))
}

func (LargeList[M, E]) Nullable() bool { return false }

func (LargeList[M, E]) ListElement() {}

// FixedList maps []E of compile-time length N to FixedSizeList.
type FixedList[M Element[E], N Const, E any] struct{}

func (FixedList[M, N, E]) DataType() arrow.DataType {
	var m M
	var n N
	return arrow.FixedSizeListOfField(int32(n.Value()), Field(m, DefaultFieldName))
}

func (FixedList[M, N, E]) Nullable() bool { return false }

func (FixedList[M, N, E]) ListElement() {}
