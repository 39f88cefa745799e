// Package exitcodes contains the process exit codes of k6dict.
package exitcodes

// ExitCode is a process exit code.
type ExitCode uint8

// Exit codes used by k6dict. Values stay between 0 and 125.
const (
	// GenericError is used for errors without a more specific code.
	GenericError ExitCode = 1
	// InvalidConfig covers bad flags, environment variables and config files.
	InvalidConfig ExitCode = 104
	// InvalidInput is returned when a dictionary can't be read or parsed.
	InvalidInput ExitCode = 110
	// InvalidDictionary is returned when a dictionary fails resolution.
	InvalidDictionary ExitCode = 111
	// CannotWriteOutput is returned when converted output can't be written.
	CannotWriteOutput ExitCode = 112
	// GoPanic is used when the process recovers from a panic.
	GoPanic ExitCode = 113
)
