//go:build unit

package readstore

import (
	"testing"
	"time"

	"reserva-api/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
)

func listFilter(mutate func(*queries.ListFilter)) queries.ListFilter {
	f := queries.ListFilter{Limit: 20}
	if mutate != nil {
		mutate(&f)
	}
	return f
}

func TestBuildListQuery(t *testing.T) {
	t.Run("日付指定なしは今後の予約のみを昇順で返す", func(t *testing.T) {
		q, args := buildListQuery(listFilter(nil))

		assert.Contains(t, q, "b.start_at >= now()")
		assert.Contains(t, q, "ORDER BY b.start_at, b.id")
		assert.NotContains(t, q, "DESC")
		assert.Len(t, args, 2) // LIMIT, OFFSET
	})

	t.Run("開始日を指定するとデフォルトの絞り込みは外れる", func(t *testing.T) {
		from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		q, args := buildListQuery(listFilter(func(f *queries.ListFilter) {
			f.StartDate = &from
		}))

		assert.NotContains(t, q, "now()")
		assert.Contains(t, q, "b.start_at >= $1")
		assert.Len(t, args, 3)
	})

	t.Run("終了日は日単位で両端を含む", func(t *testing.T) {
		to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
		q, args := buildListQuery(listFilter(func(f *queries.ListFilter) {
			f.EndDate = &to
		}))

		assert.Contains(t, q, "b.start_at < $1")
		assert.Equal(t, to.AddDate(0, 0, 1), args[0])
		assert.NotContains(t, q, "now()")
	})
}
