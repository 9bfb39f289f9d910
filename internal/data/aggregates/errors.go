package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/repos/stock"
	domainagg "github.com/yungbote/phoneshop-backend/internal/domain/aggregates"
	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	pkgerrors "github.com/yungbote/phoneshop-backend/internal/pkg/errors"
)

var (
	ErrValidation = errors.New("aggregate validation")
	ErrInvariant  = errors.New("aggregate invariant violation")
	ErrConflict   = errors.New("aggregate conflict")
	ErrRetryable  = errors.New("aggregate retryable")
)

func ValidationError(msg string) error { return tagged(ErrValidation, msg) }
func InvariantError(msg string) error  { return tagged(ErrInvariant, msg) }
func ConflictError(msg string) error   { return tagged(ErrConflict, msg) }
func RetryableError(msg string) error  { return tagged(ErrRetryable, msg) }

func tagged(sentinel error, msg string) error {
	return errors.Join(sentinel, errors.New(strings.TrimSpace(msg)))
}

// sentinelCodes is checked in order; the first errors.Is match wins.
var sentinelCodes = []struct {
	targets []error
	code    domainagg.ErrorCode
}{
	{[]error{ErrValidation, pkgerrors.ErrInvalidArgument}, domainagg.CodeValidation},
	{[]error{ErrInvariant, stock.ErrReservedUnderflow}, domainagg.CodeInvariantViolation},
	{[]error{ErrConflict}, domainagg.CodeConflict},
	{[]error{ErrRetryable, context.Canceled, context.DeadlineExceeded}, domainagg.CodeRetryable},
	{[]error{gorm.ErrRecordNotFound, pkgerrors.ErrNotFound}, domainagg.CodeNotFound},
}

var pgCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,           // unique_violation
	"23503": domainagg.CodePreconditionFailed, // foreign_key_violation
	"40001": domainagg.CodeRetryable,          // serialization_failure
	"40P01": domainagg.CodeRetryable,          // deadlock_detected
	"55P03": domainagg.CodeRetryable,          // lock_not_available
}

// sqlite only reports constraint and lock failures through the message text.
var messageCodes = []struct {
	fragments []string
	code      domainagg.ErrorCode
}{
	{[]string{"duplicate key", "already exists", "unique constraint failed"}, domainagg.CodeConflict},
	{[]string{"foreign key constraint failed"}, domainagg.CodePreconditionFailed},
	{[]string{"deadlock", "serialization", "database is locked", "timeout", "temporar"}, domainagg.CodeRetryable},
}

// MapError tags err with an aggregate code for op. *orders.InsufficientStockError
// and errors that already carry a code are returned unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*domainagg.Error); ok {
		return err
	}
	var stockErr *orders.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr
	}
	return domainagg.Wrap(classify(err), op, err)
}

func classify(err error) domainagg.ErrorCode {
	for _, sc := range sentinelCodes {
		for _, target := range sc.targets {
			if errors.Is(err, target) {
				return sc.code
			}
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgCodes[strings.TrimSpace(pgErr.Code)]; ok {
			return code
		}
	}
	msg := strings.ToLower(err.Error())
	for _, mc := range messageCodes {
		for _, frag := range mc.fragments {
			if strings.Contains(msg, frag) {
				return mc.code
			}
		}
	}
	return domainagg.CodeInternal
}
