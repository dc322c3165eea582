package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// lock_not_available
const pgLockNotAvailable = "55P03"

// AdvisoryLocker использует транзакционные advisory-блокировки postgres.
// Блокировки снимаются самим postgres при завершении транзакции.
type AdvisoryLocker struct {
	timeout time.Duration
}

func NewAdvisoryLocker(timeout time.Duration) *AdvisoryLocker {
	return &AdvisoryLocker{timeout: timeout}
}

func (l *AdvisoryLocker) Lock(ctx context.Context, tx *gorm.DB, keys []string) (func(), error) {
	// SET не принимает параметры, значение собираем сами.
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", l.timeout.Milliseconds())
	if err := tx.WithContext(ctx).Exec(stmt).Error; err != nil {
		return nil, fmt.Errorf("set lock_timeout: %w", err)
	}

	for _, k := range normalize(keys) {
		err := tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", k).Error
		if err != nil {
			if isLockTimeout(err) {
				return nil, fmt.Errorf("%w: %s", ErrTimeout, k)
			}
			return nil, fmt.Errorf("advisory lock %s: %w", k, err)
		}
	}
	return func() {}, nil
}

func isLockTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable
}
