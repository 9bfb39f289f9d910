package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/phoneshop-backend/internal/domain/aggregates"
	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
)

func TestExecuteWriteOutcomes(t *testing.T) {
	stockErr := &orders.InsufficientStockError{PhoneID: 1, Requested: 2, Available: 1}
	cases := []struct {
		name         string
		fnErr        error
		wantStatus   string
		wantCode     domainagg.ErrorCode
		conflicts    int
		retries      int
		insufficient int
	}{
		{name: "success", wantStatus: "success"},
		{name: "invariant", fnErr: InvariantError("item belongs to another order"), wantStatus: "invariant_violation", wantCode: domainagg.CodeInvariantViolation},
		{name: "conflict", fnErr: ConflictError("duplicate secure id"), wantStatus: "conflict", wantCode: domainagg.CodeConflict, conflicts: 1},
		{name: "retryable", fnErr: RetryableError("lock timeout"), wantStatus: "retryable", wantCode: domainagg.CodeRetryable, retries: 1},
		{name: "cancelled", fnErr: context.Canceled, wantStatus: "retryable", wantCode: domainagg.CodeRetryable, retries: 1},
		{name: "insufficient stock", fnErr: stockErr, wantStatus: statusInsufficientStock, insufficient: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			op := "Orders.Order.Save"
			err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, op,
				func(_ dbctx.Context) error { return tc.fnErr })

			switch {
			case tc.fnErr == nil && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tc.wantCode != "" && !domainagg.IsCode(err, tc.wantCode):
				t.Fatalf("want code %s, got %q (%v)", tc.wantCode, domainagg.CodeOf(err), err)
			case tc.fnErr == stockErr && err != error(stockErr):
				t.Fatalf("expected business error unchanged, got %T (%v)", err, err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Name != op || hooks.Operations[0].Status != tc.wantStatus {
				t.Fatalf("operations: want one %s/%s, got %+v", op, tc.wantStatus, hooks.Operations)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries || len(hooks.Insufficient) != tc.insufficient {
				t.Fatalf("counters: conflicts=%v retries=%v insufficient=%v", hooks.Conflicts, hooks.Retries, hooks.Insufficient)
			}
		})
	}
}

func TestExecuteWriteDefaultsOpName(t *testing.T) {
	hooks := &spyHooks{}
	_ = executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "  ",
		func(_ dbctx.Context) error { return nil })
	if len(hooks.Operations) != 1 || hooks.Operations[0].Name != "aggregate.write" {
		t.Fatalf("unexpected operations: %+v", hooks.Operations)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	cases := map[string]error{
		"success":             nil,
		"invariant_violation": InvariantError("x"),
		"retryable":           context.DeadlineExceeded,
		"not_found":           domainagg.NewError(domainagg.CodeNotFound, "op", "order 4", nil),
		"internal":            errors.New("disk full"),
		"insufficient_stock":  &orders.InsufficientStockError{PhoneID: 3},
	}
	for want, err := range cases {
		if got := aggregateErrorStatus(err); got != want {
			t.Fatalf("aggregateErrorStatus(%v): want=%s got=%s", err, want, got)
		}
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyOperation struct {
	Name   string
	Status string
}

type spyHooks struct {
	Operations   []spyOperation
	Conflicts    []string
	Retries      []string
	Insufficient []string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}
func (h *spyHooks) IncConflict(name string)          { h.Conflicts = append(h.Conflicts, name) }
func (h *spyHooks) IncRetry(name string)             { h.Retries = append(h.Retries, name) }
func (h *spyHooks) IncInsufficientStock(name string) { h.Insufficient = append(h.Insufficient, name) }
func (h *spyHooks) ObserveReservation(int64, int64)  {}
