package classify

import "fmt"

// UserMessage is the operator-facing rendering of a classified failure.
type UserMessage struct {
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
	Severity   Severity `json:"severity"`
}

// MessageFor returns the operator-facing message for a classified failure.
// The mapping is static per kind; only the path is interpolated.
func MessageFor(kind Kind, path string) UserMessage {
	switch kind {
	case KindPermissionDenied:
		return UserMessage{
			Title:      "Permission Denied",
			Message:    fmt.Sprintf("Access to %s was denied by the operating system.", path),
			Suggestion: "Check the file permissions and the user the service runs as.",
			Severity:   SeverityError,
		}
	case KindFileNotFound:
		return UserMessage{
			Title:      "File Not Found",
			Message:    fmt.Sprintf("The file %s does not exist.", path),
			Suggestion: "Verify the path, or retry the operation that creates it.",
			Severity:   SeverityWarning,
		}
	case KindDirectoryNotFound:
		return UserMessage{
			Title:      "Directory Not Found",
			Message:    fmt.Sprintf("The directory for %s does not exist.", path),
			Suggestion: "The directory will be created automatically on write operations.",
			Severity:   SeverityWarning,
		}
	case KindDiskFull:
		return UserMessage{
			Title:      "Disk Full",
			Message:    fmt.Sprintf("No space left on the device holding %s.", path),
			Suggestion: "Free disk space or expand the volume before retrying.",
			Severity:   SeverityCritical,
		}
	case KindInvalidPath:
		return UserMessage{
			Title:      "Invalid Path",
			Message:    fmt.Sprintf("The path %s is not valid on this system.", path),
			Suggestion: "Check the path for illegal characters or a stale file handle.",
			Severity:   SeverityError,
		}
	case KindFileLocked:
		return UserMessage{
			Title:      "File Locked",
			Message:    fmt.Sprintf("The file %s is locked or in use by another process.", path),
			Suggestion: "The operation is retried automatically; close other users of the file if it persists.",
			Severity:   SeverityWarning,
		}
	case KindIoError:
		return UserMessage{
			Title:      "I/O Error",
			Message:    fmt.Sprintf("A low-level I/O error occurred while accessing %s.", path),
			Suggestion: "The operation is retried automatically; check the device if it persists.",
			Severity:   SeverityError,
		}
	default:
		return UserMessage{
			Title:      "Unexpected Error",
			Message:    fmt.Sprintf("An unexpected error occurred while accessing %s.", path),
			Suggestion: "Check the error history for details.",
			Severity:   SeverityError,
		}
	}
}
