package arrowmap

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// TypeMismatchError reports that an array or builder does not carry the
// physical representation expected for the target native type. It signals a
// schema or programming error, not a transient condition, and is never
// retried.
type TypeMismatchError struct {
	Expected arrow.DataType
	Actual   arrow.DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("arrowmap: representation mismatch: expected %s, got %s", e.Expected, e.Actual)
}
