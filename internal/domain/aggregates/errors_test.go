package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeNotFound, Op: "Orders.Order.Save", Message: "order 3"}, "Orders.Order.Save: order 3 (not_found)"},
		{&Error{Code: CodeInternal, Op: "op"}, "op (internal)"},
		{&Error{Code: CodeConflict, Message: "stale"}, "stale (conflict)"},
		{&Error{Code: CodeRetryable}, "retryable"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want=%q got=%q", tc.want, got)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", Wrap(CodeInvariantViolation, "op", cause))
	if !IsCode(err, CodeInvariantViolation) {
		t.Fatalf("expected invariant code, got %q", CodeOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}
	if CodeOf(cause) != "" {
		t.Fatalf("plain error should have no code")
	}
}

func TestOrderAggregateContract(t *testing.T) {
	if !OrderAggregateContract.RequiresAggregateOwnedTx() {
		t.Fatalf("order saves must own their transaction")
	}
	want := "Orders.OrderAggregate[tx=aggregate_owned reads=table_repo_queries]"
	if got := OrderAggregateContract.String(); got != want {
		t.Fatalf("String(): want=%q got=%q", want, got)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{NewError(CodeRetryable, "op", "lock timeout", nil), true},
		{fmt.Errorf("save: %w", NewError(CodeRetryable, "op", "deadlock", nil)), true},
		{NewError(CodeConflict, "op", "duplicate secure id", nil), false},
		{NewError(CodeValidation, "op", "bad input", nil), false},
		{NewError(CodeNotFound, "op", "order 9", nil), false},
		{errors.New("plain"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Fatalf("IsRetryable(%v): want=%v got=%v", tc.err, tc.want, got)
		}
	}
}
