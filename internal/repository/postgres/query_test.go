package postgres

import (
	"testing"
	"time"

	"library-fines-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestHistoryWhere(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	w := historyWhere(domain.HistoryFilter{From: &from, Until: &until, Action: domain.HistoryActionReturn})
	assert.Equal(t, " WHERE h.timestamp >= $1 AND h.timestamp < $2 AND h.action = $3", w.String())
	assert.Equal(t, []any{from, until, "return"}, w.args)

	assert.Equal(t, "$4", w.bind(50))
}

func TestHistoryWhere_Empty(t *testing.T) {
	w := historyWhere(domain.HistoryFilter{})
	assert.Equal(t, "", w.String())
	assert.Empty(t, w.args)
}

func TestFineWhere_Status(t *testing.T) {
	w := fineWhere(domain.FineFilter{Status: domain.FineStatusPaid, MemberID: 7})
	assert.Equal(t, " WHERE f.paid = $1 AND f.member_id = $2", w.String())
	assert.Equal(t, []any{true, int32(7)}, w.args)

	w = fineWhere(domain.FineFilter{Status: domain.FineStatusUnpaid})
	assert.Equal(t, []any{false}, w.args)
}
