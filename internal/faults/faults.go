// Package faults defines the error taxonomy shared by every service
// handler. Gateway handlers map these to HTTP statuses; raw storage
// errors never cross the service boundary.
package faults

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	if e.Ref == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Entity, e.Ref)
}

func NotFound(entity, ref string) *NotFoundError {
	return &NotFoundError{Entity: entity, Ref: ref}
}

// InsufficientStockError carries the item identity and the live stock
// level so callers can display what is actually available.
type InsufficientStockError struct {
	ItemID    uint
	ItemName  string
	Unit      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: only %s %s available, requested %s",
		e.ItemName, e.Available, e.Unit, e.Requested)
}

// AlreadyRedeemedError reports who collected the kit and when. It is an
// idempotent observation of terminal state, not a hard failure.
type AlreadyRedeemedError struct {
	CollectedBy string
	CollectedAt time.Time
}

func (e *AlreadyRedeemedError) Error() string {
	return fmt.Sprintf("token already redeemed by %s at %s",
		e.CollectedBy, e.CollectedAt.Format(time.RFC3339))
}

type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

func Conflict(entity, field string) *ConflictError {
	return &ConflictError{Entity: entity, Field: field}
}

// DependencyError wraps a transient storage or gateway failure that the
// caller may retry.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

func Dependency(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}
