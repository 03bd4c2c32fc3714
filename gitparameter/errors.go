package gitparameter

import (
	"errors"
	"fmt"
)

// ParameterNotFoundError is returned when a job declares no git parameter of the requested name
type ParameterNotFoundError struct {
	Job       string
	Parameter string
}

func (e *ParameterNotFoundError) Error() string {
	return fmt.Sprintf("job '%s' has no git parameter '%s'", e.Job, e.Parameter)
}

// IsParameterNotFound checks if the given error is a ParameterNotFoundError
func IsParameterNotFound(err error) bool {
	var notFound *ParameterNotFoundError
	return errors.As(err, &notFound)
}
