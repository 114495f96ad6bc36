package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyPEN(t *testing.T) {
	m := NewMoneyPEN(decimal.NewFromFloat(100.50))
	assert.Equal(t, PEN, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
}

func TestMoney_SplitBy(t *testing.T) {
	tests := []struct {
		name  string
		total string
		count int
		want  string
	}{
		{"exact division", "300.00", 3, "100.00"},
		{"rounds half up", "100.00", 3, "33.33"},
		{"half cent rounds up", "100.01", 2, "50.01"},
		{"single part", "99.99", 1, "99.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := decimal.NewFromString(tt.total)
			require.NoError(t, err)
			part, err := NewMoneyPEN(total).SplitBy(tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, part.Amount().StringFixed(2))
		})
	}

	t.Run("rejects count below 1", func(t *testing.T) {
		_, err := NewMoneyPEN(decimal.NewFromInt(100)).SplitBy(0)
		assert.Error(t, err)
	})
}

func TestMoney_Round(t *testing.T) {
	rounded := NewMoneyPEN(decimal.NewFromFloat(10.005)).Round()
	assert.Equal(t, "10.01", rounded.Amount().StringFixed(2))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "150.00 PEN", NewMoneyPEN(decimal.NewFromInt(150)).String())
}
