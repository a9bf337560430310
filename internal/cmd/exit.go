// Package cmd provides command implementations for the ezexport CLI.
package cmd

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates invalid preferences, flags or scene documents.
	ExitValidationError = 2

	// ExitPermissionDenied indicates the output root or a file is not writable.
	ExitPermissionDenied = 4

	// ExitNotFound indicates a scene document, preferences file or directory was not found.
	ExitNotFound = 5

	// ExitExportFailed indicates the batch ran but at least one item failed.
	ExitExportFailed = 7
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitPermissionDenied:
		return "Permission Denied"
	case ExitNotFound:
		return "Not Found"
	case ExitExportFailed:
		return "Export Failed"
	default:
		return "Unknown"
	}
}
