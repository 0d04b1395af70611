package drift

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned when the input series holds data but no
// season at all can be segmented from it.
var ErrInsufficientData = errors.New("no seasons could be segmented from input series")

// SchemaError reports a required input field the weather series producer
// did not supply. It is not recoverable by the estimator.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("weather series is missing required field %q", e.Field)
}
