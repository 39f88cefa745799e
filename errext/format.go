package errext

import (
	"errors"

	"github.com/liuxd6825/k6dict/errext/exitcodes"
)

// Format splits err into a message and log fields: the hint of a [HasHint]
// and the exit code of a [HasExitCode].
func Format(err error) (string, map[string]interface{}) {
	if err == nil {
		return "", nil
	}

	fields := make(map[string]interface{})
	var herr HasHint
	if errors.As(err, &herr) {
		fields["hint"] = herr.Hint()
	}
	var ecerr HasExitCode
	if errors.As(err, &ecerr) && ecerr.ExitCode() != exitcodes.GenericError {
		fields["exit_code"] = ecerr.ExitCode()
	}

	return err.Error(), fields
}
