package postgresql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBuilder_Build(t *testing.T) {
	testCases := []struct {
		name      string
		build     func() SelectBuilder
		wantQuery string
		wantArgs  []any
	}{
		{
			name: "columns only",
			build: func() SelectBuilder {
				return NewSelectBuilder().Select("id", "status").From("order_commands")
			},
			wantQuery: "SELECT id, status FROM order_commands",
			wantArgs:  []any{},
		},
		{
			name: "filters with ordering and paging",
			build: func() SelectBuilder {
				return NewSelectBuilder().
					Select("order_id").
					From("order_commands").
					Where("user_id = ?", "u1").
					Where("status = ?", "FILLED").
					OrderBy("created_at", true).
					Limit(10).
					Offset(20)
			},
			wantQuery: "SELECT order_id FROM order_commands WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4",
			wantArgs:  []any{"u1", "FILLED", 10, 20},
		},
		{
			name: "build is repeatable",
			build: func() SelectBuilder {
				qb := NewSelectBuilder().From("order_events").Where("user_id = ?", "u1").Limit(5)
				qb.Build()
				return qb
			},
			wantQuery: "SELECT * FROM order_events WHERE user_id = $1 LIMIT $2",
			wantArgs:  []any{"u1", 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, args := tc.build().Build()
			assert.Equal(t, tc.wantQuery, query)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}
