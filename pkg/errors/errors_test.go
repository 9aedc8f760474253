// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code inspection

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/uplift/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "fetch_error",
			code:    errors.ErrFetch,
			message: "download failed",
			wantStr: "[FETCH] download failed",
		},
		{
			name:    "precondition_error",
			code:    errors.ErrPrecondition,
			message: "source tree has no src directory",
			wantStr: "[PRECONDITION] source tree has no src directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			if err.Error() != tt.wantStr {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantStr)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %v, want %v", err.Code, tt.code)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	inner := stderrors.New("connection refused")
	err := errors.Wrap(inner, errors.ErrFetch, "fetching release 2.3.10")

	want := "[FETCH] fetching release 2.3.10: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, inner) {
		t.Error("wrapped error should satisfy errors.Is against the inner error")
	}
}

func TestWrapNil(t *testing.T) {
	if err := errors.Wrap(nil, errors.ErrFetch, "should vanish"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := errors.Wrapf(nil, errors.ErrFetch, "should %s", "vanish"); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrManifestPatch, "no workspace members table in %s", "Cargo.toml")

	if !errors.IsErrorCode(err, errors.ErrManifestPatch) {
		t.Error("IsErrorCode should match the error's own code")
	}
	if errors.IsErrorCode(err, errors.ErrFetch) {
		t.Error("IsErrorCode should not match a different code")
	}

	// Code survives wrapping through fmt
	wrapped := fmt.Errorf("integrate: %w", err)
	if !errors.IsErrorCode(wrapped, errors.ErrManifestPatch) {
		t.Error("IsErrorCode should see through fmt.Errorf wrapping")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(plain error) = %v, want %v", got, errors.ErrUnknown)
	}
	if got := errors.GetErrorCode(errors.New(errors.ErrLockHeld, "lock file exists")); got != errors.ErrLockHeld {
		t.Errorf("GetErrorCode = %v, want %v", got, errors.ErrLockHeld)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrProcedureExecute, "transformation failed").
		WithDetail("phase", "Relocated").
		WithDetail("tree", "/work/surrealdb")

	if err.Details["phase"] != "Relocated" {
		t.Errorf("Details[phase] = %v, want Relocated", err.Details["phase"])
	}
	if err.Details["tree"] != "/work/surrealdb" {
		t.Errorf("Details[tree] = %v, want /work/surrealdb", err.Details["tree"])
	}
}
