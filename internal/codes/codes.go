package codes

import (
	"errors"

	"github.com/Norgate-AV/openit/internal/finder"
	"github.com/Norgate-AV/openit/internal/launcher"
	"github.com/Norgate-AV/openit/internal/mimeapps"
	"github.com/Norgate-AV/openit/internal/mimetype"
)

// Process exit codes
const (
	Success         = 0
	Failure         = 1
	InvalidInput    = 2
	NoApplications  = 3
	HandlerNotFound = 4
	LaunchFailed    = 5
)

// ErrorCodes maps openit exit codes to their descriptions
var ErrorCodes = map[int]string{
	Success:         "Success",
	Failure:         "General failure",
	InvalidInput:    "Invalid MIME type, extension or handler",
	NoApplications:  "No application can open the target",
	HandlerNotFound: "Handler is not installed",
	LaunchFailed:    "Application could not be launched",
}

// IsSuccess returns true if the exit code indicates success
func IsSuccess(code int) bool {
	return code == Success
}

// GetErrorMessage returns the error message for a given exit code, or a generic message if unknown
func GetErrorMessage(code int) string {
	if msg, ok := ErrorCodes[code]; ok {
		return msg
	}

	return "Unknown error"
}

// FromError returns the exit code for err. nil is success and
// unclassified errors are a general failure.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, mimetype.ErrInvalidMime), errors.Is(err, mimeapps.ErrEmptyHandler):
		return InvalidInput
	case errors.Is(err, finder.ErrNoApplications):
		return NoApplications
	case errors.Is(err, finder.ErrHandlerNotFound):
		return HandlerNotFound
	case errors.Is(err, launcher.ErrEmptyCommand), errors.Is(err, launcher.ErrLaunch):
		return LaunchFailed
	default:
		return Failure
	}
}
