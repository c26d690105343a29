package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		body    string
		want    *int
		wantErr bool
	}{
		{`{"quantity": 3}`, intPtr(3), false},
		{`{"quantity": "7"}`, intPtr(7), false},
		{`{"quantity": " 2 "}`, intPtr(2), false},
		{`{"quantity": -1}`, intPtr(-1), false}, // 范围由用例层校验
		{`{}`, nil, false},
		{`{"quantity": null}`, nil, false},
		{`{"quantity": 2.5}`, nil, true},
		{`{"quantity": "abc"}`, nil, true},
		{`{"quantity": true}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req AddToCartRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, req.Quantity)
				return
			}
			require.NotNil(t, req.Quantity)
			assert.Equal(t, *tt.want, int(*req.Quantity))
		})
	}
}

func intPtr(n int) *int { return &n }
