package errors

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Process exit codes of the git-parameter CLI
const (
	// ErrorGeneric covers configuration, repository and I/O failures
	ErrorGeneric = 20
	// ErrorValueRejected is the create-value exit code when the validator rejects the submitted value,
	// so callers can tell a bad parameter value from a broken setup.
	ErrorValueRejected = 21
)

// CheckError ends the command with ErrorGeneric when err is set
func CheckError(err error) {
	if err != nil {
		Fatal(ErrorGeneric, err)
	}
}

// Fatal logs args at fatal level and exits with exitcode instead of logrus' default of 1
func Fatal(exitcode int, args ...any) {
	exitWith(exitcode)
	log.Fatal(args...)
}

func Fatalf(exitcode int, format string, args ...any) {
	exitWith(exitcode)
	log.Fatalf(format, args...)
}

// exitWith makes the next fatal log entry terminate the process with code
func exitWith(code int) {
	log.RegisterExitHandler(func() {
		os.Exit(code)
	})
}
