package engineerr

import (
	"errors"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cases := map[Kind]int{
		Parse:          400,
		Resolve:        400,
		NotImplemented: 500,
		Schema:         400,
		TypeMismatch:   400,
		IO:             500,
		NotFound:       404,
	}
	for k, want := range cases {
		if got := k.StatusCode(); got != want {
			t.Errorf("%v.StatusCode() = %d, want %d", k, got, want)
		}
	}
}

func TestIs(t *testing.T) {
	err := Resolvef("ambiguous column %q", "id")
	if !Is(err, Resolve) {
		t.Fatalf("expected Is(err, Resolve) to be true")
	}
	if Is(err, Parse) {
		t.Fatalf("expected Is(err, Parse) to be false")
	}
}

func TestNotFoundIsDistinctFromResolve(t *testing.T) {
	err := NotFoundf("unknown table %q", "usinas")
	if !Is(err, NotFound) {
		t.Fatalf("expected Is(err, NotFound) to be true")
	}
	if Is(err, Resolve) {
		t.Fatalf("expected Is(err, Resolve) to be false")
	}
	if err.StatusCode() != 404 {
		t.Fatalf("expected status code 404, got %d", err.StatusCode())
	}
}

func TestIOfWrapsCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := IOf(cause, "opening %s", "x.parquet")
	if !Is(err, IO) {
		t.Fatalf("expected IO kind")
	}
	if err.Unwrap() == nil {
		t.Fatalf("expected non-nil cause")
	}
}
