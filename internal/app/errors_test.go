package app

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	testCases := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindInvalidArgument, "InvalidArgument"},
		{KindNoData, "NoData"},
		{KindAuthorizationFailed, "AuthorizationFailed"},
		{KindTransportInitFailed, "TransportInitFailed"},
		{KindRemoteFailure, "RemoteFailure"},
		{KindInternal, "Internal"},
		{ErrorKind(42), "ErrorKind(42)"},
	}

	for _, tc := range testCases {
		if got := tc.kind.String(); got != tc.expected {
			t.Errorf("Expected %q, got %q", tc.expected, got)
		}
	}
}

func TestErrorMatching(t *testing.T) {
	err := InvalidArgument("row must be >= 1, got %d", 0)

	if !errors.Is(err, ErrInvalidArgument) {
		t.Error("Expected error to match ErrInvalidArgument")
	}
	if errors.Is(err, ErrNoData) {
		t.Error("Expected error not to match ErrNoData")
	}

	wrapped := fmt.Errorf("reading row: %w", err)
	if !errors.Is(wrapped, ErrInvalidArgument) {
		t.Error("Expected wrapped error to match ErrInvalidArgument")
	}
	if KindOf(wrapped) != KindInvalidArgument {
		t.Errorf("Expected KindInvalidArgument, got %v", KindOf(wrapped))
	}
}

func TestKindOfUntypedError(t *testing.T) {
	if KindOf(errors.New("socket closed")) != KindRemoteFailure {
		t.Error("Expected untyped errors to be remote failures")
	}
}

func TestWrapErrorKeepsMessage(t *testing.T) {
	cause := errors.New("googleapi: Error 403: The caller does not have permission")
	err := WrapError(KindRemoteFailure, cause)

	if err.Message != cause.Error() {
		t.Errorf("Expected message %q, got %q", cause.Error(), err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected cause to be reachable through Unwrap")
	}
}

func TestWithOp(t *testing.T) {
	base := NewError(KindNoData, "no values in %s", "Sheet1!A1")

	tagged := WithOp(OpReadCell, base)
	if tagged.Op != OpReadCell {
		t.Errorf("Expected op %q, got %q", OpReadCell, tagged.Op)
	}
	if base.Op != "" {
		t.Error("Expected original error to be left untouched")
	}
	if tagged.Error() != "ReadCell: no values in Sheet1!A1" {
		t.Errorf("Unexpected message %q", tagged.Error())
	}

	untyped := WithOp(OpWriteRow, errors.New("boom"))
	if untyped.Kind != KindRemoteFailure || untyped.Message != "boom" {
		t.Errorf("Expected remote failure 'boom', got %v %q", untyped.Kind, untyped.Message)
	}
}

func TestTableShape(t *testing.T) {
	rect := Table{{"a", "b"}, {"c", "d"}}
	if !rect.IsRectangular() || rect.Width() != 2 {
		t.Errorf("Expected rectangular table of width 2")
	}

	jagged := Table{{"a"}, {"b", "c", "d"}}
	if jagged.IsRectangular() {
		t.Error("Expected jagged table not to be rectangular")
	}
	if jagged.Width() != 3 {
		t.Errorf("Expected width 3, got %d", jagged.Width())
	}

	if !(Table{}).IsRectangular() {
		t.Error("Expected empty table to be rectangular")
	}
}
