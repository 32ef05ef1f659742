package batch

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/vmdang/arrowmap"
)

// Validate checks that a record carries exactly the expected schema: same
// field count, names and types, in order.
func Validate(rec arrow.Record, want *arrow.Schema) error {
	if rec == nil {
		return errors.New("record is nil")
	}

	got := rec.Schema()
	if got.NumFields() != want.NumFields() {
		return fmt.Errorf("field count mismatch: got %d, want %d", got.NumFields(), want.NumFields())
	}

	for i := 0; i < want.NumFields(); i++ {
		gf, wf := got.Field(i), want.Field(i)
		if gf.Name != wf.Name {
			return fmt.Errorf("field %d: name %q, want %q", i, gf.Name, wf.Name)
		}
		if !arrow.TypeEqual(gf.Type, wf.Type) {
			return fmt.Errorf("field %q: type %s, want %s", wf.Name, gf.Type, wf.Type)
		}
	}

	return nil
}

// Column decodes column i of rec through mapping m.
func Column[T any](m arrowmap.TypeMap[T], rec arrow.Record, i int) ([]T, error) {
	if i < 0 || i >= int(rec.NumCols()) {
		return nil, fmt.Errorf("column %d out of range (record has %d)", i, rec.NumCols())
	}
	return arrowmap.DecodeArray(m, rec.Column(i))
}

// NamedColumn decodes the first column named name through mapping m.
func NamedColumn[T any](m arrowmap.TypeMap[T], rec arrow.Record, name string) ([]T, error) {
	indices := rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("record has no column %q", name)
	}
	return Column(m, rec, indices[0])
}
