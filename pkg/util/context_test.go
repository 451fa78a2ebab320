package util

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWithRequestID(t *testing.T) {
	testCases := []struct {
		name     string
		id       string
		assertFn func(t *testing.T, got string)
	}{
		{
			name: "keeps given id",
			id:   "req-1",
			assertFn: func(t *testing.T, got string) {
				assert.Equal(t, "req-1", got)
			},
		},
		{
			name: "generates id when empty",
			id:   "",
			assertFn: func(t *testing.T, got string) {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := WithRequestID(context.Background(), tc.id)
			tc.assertFn(t, GetRequestID(ctx))
		})
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetOrderID(ctx))
	assert.Empty(t, GetClientIP(ctx))

	ctx = WithUserID(ctx, "u1")
	ctx = WithOrderID(ctx, "o1")
	ctx = WithClientIP(ctx, "10.0.0.1")

	assert.Equal(t, "u1", GetUserID(ctx))
	assert.Equal(t, "o1", GetOrderID(ctx))
	assert.Equal(t, "10.0.0.1", GetClientIP(ctx))
}
