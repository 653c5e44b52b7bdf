package domain

import (
	"math"
	"testing"

	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_pagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantOffset int
		wantCode   errorx.Code
	}{
		{name: "first page", page: 1, pageSize: 20, wantOffset: 0},
		{name: "third page", page: 3, pageSize: 20, wantOffset: 40},
		{name: "largest page", page: math.MaxInt/50 + 1, pageSize: 50, wantOffset: math.MaxInt / 50 * 50},
		{name: "offset overflows", page: math.MaxInt/50 + 2, pageSize: 50, wantCode: errorx.BadRequest},
		{name: "negative page", page: -1, pageSize: 20, wantCode: errorx.BadRequest},
		{name: "negative page size", page: 1, pageSize: -1, wantCode: errorx.BadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit, err := pagination(testutil.MockContext(), tt.page, tt.pageSize)
			if tt.wantCode != 0 {
				requireErrorCode(t, err, tt.wantCode)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantOffset, offset)
			require.Equal(t, tt.pageSize, limit)
			require.GreaterOrEqual(t, offset, 0)
		})
	}
}
