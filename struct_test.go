package arrowmap_test

import (
	"reflect"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/vmdang/arrowmap"
)

// Point is a user-defined composite type. PointMapping is the code a
// generator would emit for it: per-field descriptor, reader and append calls
// against the package contracts, plus the explicit list-element opt-in.
type Point struct {
	X float64
	Y float64
}

type PointMapping struct{ arrowmap.ListElem }

func (PointMapping) DataType() arrow.DataType {
	return arrow.StructOf(
		arrowmap.Field(arrowmap.Float64{}, "x"),
		arrowmap.Field(arrowmap.Float64{}, "y"),
	)
}

func (PointMapping) Nullable() bool { return false }

func (m PointMapping) NewReader(arr arrow.Array) (arrowmap.Reader[Point], error) {
	s, ok := arr.(*array.Struct)
	if !ok {
		return nil, &arrowmap.TypeMismatchError{Expected: m.DataType(), Actual: arr.DataType()}
	}
	xs, err := arrowmap.Float64{}.NewReader(s.Field(0))
	if err != nil {
		return nil, err
	}
	ys, err := arrowmap.Float64{}.NewReader(s.Field(1))
	if err != nil {
		return nil, err
	}
	return pointReader{s: s, xs: xs, ys: ys}, nil
}

func (m PointMapping) Append(b array.Builder, v Point) error {
	sb, ok := b.(*array.StructBuilder)
	if !ok {
		return &arrowmap.TypeMismatchError{Expected: m.DataType(), Actual: b.Type()}
	}
	sb.Append(true)
	if err := (arrowmap.Float64{}).Append(sb.FieldBuilder(0), v.X); err != nil {
		return err
	}
	return arrowmap.Float64{}.Append(sb.FieldBuilder(1), v.Y)
}

type pointReader struct {
	s      *array.Struct
	xs, ys arrowmap.Reader[float64]
}

func (r pointReader) Len() int { return r.s.Len() }

func (r pointReader) Value(i int) (Point, bool) {
	if r.s.IsNull(i) {
		return Point{}, false
	}
	x, _ := r.xs.Value(i)
	y, _ := r.ys.Value(i)
	return Point{X: x, Y: y}, true
}

func TestCompositeRoundTrip(t *testing.T) {
	values := []Point{{X: 1, Y: 2}, {X: -3.5, Y: 0}}
	checkRoundTrip(t, PointMapping{}, values)
}

func TestCompositeSchema(t *testing.T) {
	f := arrowmap.Field(arrowmap.Nullable[PointMapping, Point]{}, "location")
	if f.Type.ID() != arrow.STRUCT {
		t.Fatalf("field type = %s, want STRUCT", f.Type)
	}
	if !f.Nullable {
		t.Error("optional composite must derive a nullable field")
	}
}

func TestNullableCompositeRoundTrip(t *testing.T) {
	m := arrowmap.Nullable[PointMapping, Point]{}
	values := []*Point{{X: 1, Y: 2}, nil}

	got := roundTrip[*Point](t, m, values)
	if got[0] == nil || *got[0] != (Point{X: 1, Y: 2}) {
		t.Errorf("value 0: got %v, want {1 2}", got[0])
	}
	if got[1] != nil {
		t.Errorf("value 1: got %v, want nil", *got[1])
	}
}

// A registered composite may appear inside every sequence container.
func TestListOfCompositeRoundTrip(t *testing.T) {
	m := arrowmap.List[PointMapping, Point]{}
	values := [][]Point{{{X: 1, Y: 2}, {X: 3, Y: 4}}, {}}
	checkRoundTrip[[]Point](t, m, values)
}

func TestFixedListOfCompositeRoundTrip(t *testing.T) {
	m := arrowmap.FixedList[PointMapping, size3, Point]{}
	values := [][]Point{{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}}

	got := roundTrip[[]Point](t, m, values)
	if !reflect.DeepEqual(got, values) {
		t.Errorf("round trip changed values: got %v, want %v", got, values)
	}
}

func TestCompositeMismatch(t *testing.T) {
	arr, err := arrowmap.BuildArray(arrowmap.Uint32{}, memory.DefaultAllocator, []uint32{1})
	if err != nil {
		t.Fatalf("BuildArray failed: %v", err)
	}
	defer arr.Release()

	if _, err := (PointMapping{}).NewReader(arr); err == nil {
		t.Fatal("expected a mismatch error for a non-struct column")
	}
}
