// Package classify maps raw platform failures to canonical error kinds
// and operator-facing messages.
package classify

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// PlatformError is a structured failure tagged at the point of origin with
// the platform error code, the operation that failed and the affected path.
// Errors crossing an OS boundary that cannot carry a tag are handled by the
// errno and message fallbacks in ClassifyError.
type PlatformError struct {
	Code string // platform code, e.g. "EACCES"
	Op   string // operation that failed, e.g. "write"
	Path string // affected path
	Err  error  // underlying error
}

func (e *PlatformError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// TagOSError wraps an OS-level error with the platform code extracted from
// its errno, if any. Returns nil for a nil error.
func TagOSError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var code string
	var errno syscall.Errno
	if errors.As(err, &errno) {
		code = unix.ErrnoName(errno)
	}
	return &PlatformError{Code: code, Op: op, Path: path, Err: err}
}

// Classify maps a platform error code and message to a Kind. It is pure and
// total: the same input always yields the same Kind, and every input yields
// one. First match wins.
//
// Note the broad catch-all: any unrecognized code beginning with "E" becomes
// KindIoError (and is therefore retried) rather than KindUnknown. Preserved
// intentionally; see DESIGN.md.
func Classify(code, message string) Kind {
	code = strings.ToUpper(strings.TrimSpace(code))
	msg := strings.ToLower(message)

	switch {
	case code == "EACCES" || code == "EPERM" || strings.Contains(msg, "permission"):
		return KindPermissionDenied
	case code == "ENOENT":
		if strings.Contains(msg, "directory") {
			return KindDirectoryNotFound
		}
		return KindFileNotFound
	case code == "ENOSPC" || strings.Contains(msg, "disk full") || strings.Contains(msg, "no space"):
		return KindDiskFull
	case code == "EINVAL" || code == "EBADF" || strings.Contains(msg, "invalid path"):
		return KindInvalidPath
	case code == "EBUSY" || code == "ELOCKED" || strings.Contains(msg, "locked") || strings.Contains(msg, "in use"):
		return KindFileLocked
	case code == "EIO" || strings.HasPrefix(code, "E"):
		return KindIoError
	default:
		return KindUnknown
	}
}

// ClassifyError classifies an arbitrary error, preferring the structured tag
// when present, then a wrapped errno, then the message text alone. The second
// return value is the platform code that was used, empty if none was found.
func ClassifyError(err error) (Kind, string) {
	if err == nil {
		return KindUnknown, ""
	}

	var code string
	var pe *PlatformError
	var errno syscall.Errno
	switch {
	case errors.As(err, &pe) && pe.Code != "":
		code = pe.Code
	case errors.As(err, &errno):
		code = unix.ErrnoName(errno)
	}

	return Classify(code, err.Error()), code
}
