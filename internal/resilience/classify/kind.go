package classify

import (
	"encoding/json"
	"fmt"
)

// Kind is the canonical classification bucket for a raw platform failure.
type Kind int

const (
	KindPermissionDenied Kind = iota
	KindFileNotFound
	KindDirectoryNotFound
	KindDiskFull
	KindInvalidPath
	KindFileLocked
	KindIoError
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission_denied"
	case KindFileNotFound:
		return "file_not_found"
	case KindDirectoryNotFound:
		return "directory_not_found"
	case KindDiskFull:
		return "disk_full"
	case KindInvalidPath:
		return "invalid_path"
	case KindFileLocked:
		return "file_locked"
	case KindIoError:
		return "io_error"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to its Kind value.
func ParseKind(s string) (Kind, bool) {
	for k := KindPermissionDenied; k <= KindUnknown; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindUnknown, false
}

// MarshalJSON encodes the kind as its string name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind from its string name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseKind(s)
	if !ok {
		return fmt.Errorf("unknown error kind %q", s)
	}
	*k = parsed
	return nil
}

// Severity ranks how serious a classified failure is for an operator.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "error"
	}
}

// MarshalJSON encodes the severity as its string name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its string name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}
