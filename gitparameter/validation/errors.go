package validation

import (
	"errors"
	"fmt"
)

// RequiredValueMissingError is returned when a required parameter is submitted blank. It prevents
// the build from being triggered.
type RequiredValueMissingError struct {
	Name string
}

func (e *RequiredValueMissingError) Error() string {
	return fmt.Sprintf("parameter '%s' is required but no value was given", e.Name)
}

// IsRequiredValueMissingError checks if the given error is a required value missing error
func IsRequiredValueMissingError(err error) bool {
	var missing *RequiredValueMissingError
	return errors.As(err, &missing)
}

// NameMismatchError is returned when a structured payload names another parameter
type NameMismatchError struct {
	Expected string
	Actual   string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("payload is for parameter '%s', expected '%s'", e.Actual, e.Expected)
}

// IsNameMismatchError checks if the given error is a name mismatch error
func IsNameMismatchError(err error) bool {
	var mismatch *NameMismatchError
	return errors.As(err, &mismatch)
}
