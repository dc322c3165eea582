package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
)

// Виды ошибок движка. Проверяются через errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrNoAvailability     = errors.New("no availability")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Error — отказ операции движка с контекстом для пользователя.
type Error struct {
	Kind error
	Op   string
	Msg  string

	ResourceID uuid.UUID
	Date       time.Time
	Span       *interval.Span

	// ID записи, с которой случился конфликт (или которую не нашли).
	ConflictID uuid.UUID

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Span != nil && !e.Date.IsZero() {
		b.WriteString(" [")
		b.WriteString(interval.Format(e.Date, *e.Span))
		b.WriteString("]")
	}
	if e.ConflictID != uuid.Nil {
		fmt.Fprintf(&b, " (record %s)", e.ConflictID)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf возвращает вид ошибки; всё, что не относится к движку, — ErrStorageUnavailable.
func KindOf(err error) error {
	for _, k := range []error{ErrInvalidInput, ErrNotFound, ErrConflict, ErrNoAvailability, ErrStorageUnavailable} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrStorageUnavailable
}

func invalid(op, format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidInput, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func notFound(op, what string, id uuid.UUID) *Error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: what + " does not exist", ConflictID: id}
}

func conflict(op, msg string, resourceID uuid.UUID, date time.Time, span interval.Span, with uuid.UUID) *Error {
	return &Error{
		Kind:       ErrConflict,
		Op:         op,
		Msg:        msg,
		ResourceID: resourceID,
		Date:       date,
		Span:       &span,
		ConflictID: with,
	}
}

func noAvailability(op string, resourceID uuid.UUID, date time.Time, span interval.Span) *Error {
	return &Error{
		Kind:       ErrNoAvailability,
		Op:         op,
		Msg:        "no free interval covers the requested span",
		ResourceID: resourceID,
		Date:       date,
		Span:       &span,
	}
}

// storageErr оставляет ошибки движка как есть, остальное считает сбоем хранилища.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: ErrStorageUnavailable, Op: op, Err: err}
}
