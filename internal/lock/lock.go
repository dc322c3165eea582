// Package lock сериализует изменения одной партиции (ресурс, дата).
// Все реализации берут ключи в отсортированном порядке, чтобы две операции,
// затрагивающие одни и те же партиции, не могли взаимно заблокироваться.
package lock

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTimeout — ожидание блокировки превысило допустимое время.
// Операцию можно безопасно повторить.
var ErrTimeout = errors.New("partition lock wait timed out")

// PartitionLocker захватывает блокировки партиций на время одной транзакции.
// tx — текущая транзакция (нужна блокировкам на стороне postgres).
// release вызывается вызывающей стороной после commit/rollback.
type PartitionLocker interface {
	Lock(ctx context.Context, tx *gorm.DB, keys []string) (release func(), err error)
}

// Key — ключ партиции (ресурс, календарная дата).
func Key(resourceID uuid.UUID, date time.Time) string {
	return resourceID.String() + "/" + date.Format("2006-01-02")
}

// normalize сортирует ключи и убирает дубликаты.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
