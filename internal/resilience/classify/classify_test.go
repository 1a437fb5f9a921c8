package classify

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
)

func TestClassify_Precedence(t *testing.T) {
	cases := []struct {
		name    string
		code    string
		message string
		want    Kind
	}{
		{"eacces", "EACCES", "open denied", KindPermissionDenied},
		{"eperm", "EPERM", "", KindPermissionDenied},
		{"permission in message", "", "Permission denied by policy", KindPermissionDenied},
		{"enoent file", "ENOENT", "no such file", KindFileNotFound},
		{"enoent directory", "ENOENT", "no such file or directory", KindDirectoryNotFound},
		{"enospc", "ENOSPC", "", KindDiskFull},
		{"disk full message", "", "disk full", KindDiskFull},
		{"no space message", "", "write failed: no space left", KindDiskFull},
		{"einval", "EINVAL", "", KindInvalidPath},
		{"ebadf", "EBADF", "", KindInvalidPath},
		{"invalid path message", "", "invalid path component", KindInvalidPath},
		{"ebusy", "EBUSY", "", KindFileLocked},
		{"elocked", "ELOCKED", "", KindFileLocked},
		{"locked message", "", "file is locked", KindFileLocked},
		{"in use message", "", "resource in use", KindFileLocked},
		{"eio", "EIO", "", KindIoError},
		{"unknown E code catch-all", "EPROTO", "", KindIoError},
		{"non-E code", "WSAE001X", "something odd", KindUnknown},
		{"empty", "", "", KindUnknown},
		{"permission wins over enoent message", "EACCES", "no such file or directory", KindPermissionDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.code, tc.message); got != tc.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tc.code, tc.message, got, tc.want)
			}
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	for i := 0; i < 10; i++ {
		if got := Classify("EACCES", "denied"); got != KindPermissionDenied {
			t.Fatalf("iteration %d: got %v, want %v", i, got, KindPermissionDenied)
		}
	}
}

func TestClassifyError_Tagged(t *testing.T) {
	err := &PlatformError{Code: "ENOSPC", Op: "write", Path: "/tmp/x", Err: errors.New("boom")}
	kind, code := ClassifyError(err)
	if kind != KindDiskFull {
		t.Errorf("kind = %v, want %v", kind, KindDiskFull)
	}
	if code != "ENOSPC" {
		t.Errorf("code = %q, want ENOSPC", code)
	}
}

func TestClassifyError_WrappedTag(t *testing.T) {
	err := fmt.Errorf("saving draft: %w", &PlatformError{Code: "EACCES", Op: "write", Err: errors.New("denied")})
	kind, _ := ClassifyError(err)
	if kind != KindPermissionDenied {
		t.Errorf("kind = %v, want %v", kind, KindPermissionDenied)
	}
}

func TestClassifyError_Errno(t *testing.T) {
	err := &os.PathError{Op: "open", Path: "/etc/shadow", Err: syscall.EACCES}
	kind, code := ClassifyError(err)
	if kind != KindPermissionDenied {
		t.Errorf("kind = %v, want %v", kind, KindPermissionDenied)
	}
	if code != "EACCES" {
		t.Errorf("code = %q, want EACCES", code)
	}
}

func TestClassifyError_UntaggedMessage(t *testing.T) {
	kind, code := ClassifyError(errors.New("target file is locked"))
	if kind != KindFileLocked {
		t.Errorf("kind = %v, want %v", kind, KindFileLocked)
	}
	if code != "" {
		t.Errorf("code = %q, want empty", code)
	}
}

func TestTagOSError(t *testing.T) {
	if TagOSError("read", "/x", nil) != nil {
		t.Error("nil error should stay nil")
	}

	tagged := TagOSError("read", "/x", &os.PathError{Op: "open", Path: "/x", Err: syscall.ENOENT})
	var pe *PlatformError
	if !errors.As(tagged, &pe) {
		t.Fatal("expected a *PlatformError")
	}
	if pe.Code != "ENOENT" {
		t.Errorf("code = %q, want ENOENT", pe.Code)
	}
	if pe.Op != "read" || pe.Path != "/x" {
		t.Errorf("op/path = %q/%q, want read//x", pe.Op, pe.Path)
	}
}

func TestMessageFor_Severities(t *testing.T) {
	cases := []struct {
		kind Kind
		want Severity
	}{
		{KindDiskFull, SeverityCritical},
		{KindFileNotFound, SeverityWarning},
		{KindDirectoryNotFound, SeverityWarning},
		{KindFileLocked, SeverityWarning},
		{KindPermissionDenied, SeverityError},
		{KindInvalidPath, SeverityError},
		{KindIoError, SeverityError},
		{KindUnknown, SeverityError},
	}

	for _, tc := range cases {
		msg := MessageFor(tc.kind, "/tmp/report.csv")
		if msg.Severity != tc.want {
			t.Errorf("%v severity = %v, want %v", tc.kind, msg.Severity, tc.want)
		}
		if msg.Title == "" || msg.Message == "" || msg.Suggestion == "" {
			t.Errorf("%v has empty message fields", tc.kind)
		}
	}
}

func TestKind_JSONRoundTrip(t *testing.T) {
	for k := KindPermissionDenied; k <= KindUnknown; k++ {
		data, err := k.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %v: %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalJSON(data); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != k {
			t.Errorf("round trip %v -> %v", k, back)
		}
	}
}
