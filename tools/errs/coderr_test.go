package errs

import (
	"testing"

	"github.com/pkg/errors"
)

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	e := ErrArgs.WithDetail("name required")
	if ErrArgs.Detail != "" {
		t.Fatalf("sentinel mutated: %q", ErrArgs.Detail)
	}
	if e.Detail != "name required" {
		t.Fatalf("detail lost: %q", e.Detail)
	}
	e2 := e.WithDetail("also email")
	if e2.Detail != "name required, also email" {
		t.Fatalf("detail not appended: %q", e2.Detail)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	if !errors.Is(ErrUnauthenticated.WithDetail("cookie missing"), ErrUnauthenticated) {
		t.Fatal("detail copy should match its sentinel")
	}
	if errors.Is(ErrUnauthenticated, ErrForbidden) {
		t.Fatal("distinct codes must not match")
	}
}

func TestIsSeesThroughWrapping(t *testing.T) {
	wrapped := errors.Wrap(ErrNotFound.WithDetail("event"), "load event")
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("wrap should preserve the code")
	}
}

func TestAsCodeError(t *testing.T) {
	if AsCodeError(nil) != nil {
		t.Fatal("nil in, nil out")
	}
	ce := AsCodeError(ErrForbidden)
	if ce.Code != ForbiddenCode {
		t.Fatalf("want %d, got %d", ForbiddenCode, ce.Code)
	}
	ce = AsCodeError(errors.New("mongo: connection reset"))
	if ce.Code != InternalCode || ce.Detail != "mongo: connection reset" {
		t.Fatalf("unknown error not mapped to internal: %+v", ce)
	}
}

func TestHTTPStatus(t *testing.T) {
	for _, code := range []int{ArgsErrorCode, UnauthenticatedCode, ForbiddenCode, NotFoundCode} {
		if got := HTTPStatus(code); got != code {
			t.Fatalf("code %d: got %d", code, got)
		}
	}
	if got := HTTPStatus(42); got != InternalCode {
		t.Fatalf("unreserved code should answer 500, got %d", got)
	}
}
